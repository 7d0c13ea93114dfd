package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Nominee is a public official tracked for corruption allegations. The
// average rating is derived from the rating rows on every read, never stored.
type Nominee struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"not null" json:"name"`
	Slug       string       `gorm:"not null;uniqueIndex" json:"slug"`
	Status     Status       `gorm:"not null;default:'active';index" json:"status"`
	PositionID snowflake.ID `gorm:"index" json:"position_id,omitempty"`
	DistrictID snowflake.ID `gorm:"index" json:"district_id,omitempty"`
	Bio        string       `json:"bio,omitempty"`
	ImageURL   string       `json:"image_url,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Nominee) TableName() string { return "nominees" }
