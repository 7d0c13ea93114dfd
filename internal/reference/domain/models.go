package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Position is a public office a nominee holds or held, e.g. "Governor".
type Position struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Title     string       `gorm:"not null;uniqueIndex" json:"title"`
	Level     string       `gorm:"not null;default:''" json:"level,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Position) TableName() string { return "positions" }

// District is a geographic constituency tied to nominees.
type District struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;uniqueIndex" json:"name"`
	Region    string       `gorm:"not null;default:''" json:"region,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (District) TableName() string { return "districts" }
