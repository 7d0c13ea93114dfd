package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
)

// Scandal is a documented corruption allegation attached to a nominee or
// institution.
type Scandal struct {
	ID          snowflake.ID            `gorm:"primaryKey" json:"id"`
	TargetType  ratingdomain.TargetType `gorm:"not null;index:idx_scandals_target" json:"target_type"`
	TargetID    snowflake.ID            `gorm:"not null;index:idx_scandals_target" json:"target_id"`
	Title       string                  `gorm:"not null" json:"title"`
	Description string                  `json:"description,omitempty"`
	AmountKES   *float64                `json:"amount_kes,omitempty"`
	Year        int                     `gorm:"index" json:"year,omitempty"`
	SourceURL   string                  `json:"source_url,omitempty"`
	Tags        pq.StringArray          `gorm:"type:text[]" json:"tags,omitempty"`
	CreatedAt   time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Evidence []Evidence `gorm:"foreignKey:ScandalID" json:"evidence,omitempty"`
}

func (Scandal) TableName() string { return "scandals" }

// Evidence is a supporting artifact (article, document, media) for a scandal.
type Evidence struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ScandalID snowflake.ID `gorm:"not null;index" json:"scandal_id"`
	Kind      string       `gorm:"not null;default:'link'" json:"kind"`
	Title     string       `json:"title,omitempty"`
	URL       string       `gorm:"not null" json:"url"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Evidence) TableName() string { return "evidence" }
