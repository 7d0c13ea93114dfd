package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// TargetType identifies which kind of entity a rating, comment or scandal
// points at.
type TargetType string

const (
	TargetNominee     TargetType = "nominee"
	TargetInstitution TargetType = "institution"
)

// ParseTargetType normalizes the wire value ("nominees", "nominee", ...) into
// a TargetType.
func ParseTargetType(raw string) (TargetType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "nominee", "nominees":
		return TargetNominee, true
	case "institution", "institutions":
		return TargetInstitution, true
	default:
		return "", false
	}
}

const (
	MinScore = 1
	MaxScore = 5
)

// Rating is a single category score submitted by a user against a target.
type Rating struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	TargetType TargetType   `gorm:"not null;index:idx_ratings_target" json:"target_type"`
	TargetID   snowflake.ID `gorm:"not null;index:idx_ratings_target" json:"target_id"`
	UserID     string       `gorm:"not null;index" json:"user_id"`
	CategoryID snowflake.ID `gorm:"not null;index" json:"category_id"`
	Score      int          `gorm:"not null" json:"score"`
	Comment    *string      `json:"comment,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// RatingCategory is a named dimension of corruption. Weight is carried from
// the source data model but all categories average with equal weight.
type RatingCategory struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;uniqueIndex" json:"name"`
	Icon      string         `json:"icon,omitempty"`
	Weight    float64        `gorm:"not null;default:1" json:"weight"`
	Examples  datatypes.JSON `gorm:"type:jsonb" json:"examples,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AverageScore returns the arithmetic mean of the scores, or exactly 0 for an
// empty collection.
func AverageScore(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	total := 0
	for _, r := range ratings {
		total += r.Score
	}
	return float64(total) / float64(len(ratings))
}

// FilterByCategory returns the ratings matching the category, or the input
// unchanged when categoryID is zero.
func FilterByCategory(ratings []Rating, categoryID snowflake.ID) []Rating {
	if categoryID == 0 {
		return ratings
	}
	filtered := make([]Rating, 0, len(ratings))
	for _, r := range ratings {
		if r.CategoryID == categoryID {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// CategoryAverage is a per-category aggregate served on detail views.
type CategoryAverage struct {
	CategoryID snowflake.ID `json:"category_id"`
	Name       string       `json:"name"`
	Average    float64      `json:"average"`
	Count      int          `json:"count"`
}

// AverageByCategory groups ratings per category and averages each group.
func AverageByCategory(ratings []Rating, categories []RatingCategory) []CategoryAverage {
	byCategory := make(map[snowflake.ID][]Rating, len(categories))
	for _, r := range ratings {
		byCategory[r.CategoryID] = append(byCategory[r.CategoryID], r)
	}

	out := make([]CategoryAverage, 0, len(categories))
	for _, c := range categories {
		group := byCategory[c.ID]
		out = append(out, CategoryAverage{
			CategoryID: c.ID,
			Name:       c.Name,
			Average:    AverageScore(group),
			Count:      len(group),
		})
	}
	return out
}
