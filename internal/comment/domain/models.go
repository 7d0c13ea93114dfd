package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	ratingdomain "github.com/wananchi-labs/uwazi/internal/rating/domain"
)

type Comment struct {
	ID         snowflake.ID            `gorm:"primaryKey" json:"id"`
	TargetType ratingdomain.TargetType `gorm:"not null;index:idx_comments_target" json:"target_type"`
	TargetID   snowflake.ID            `gorm:"not null;index:idx_comments_target" json:"target_id"`
	UserID     string                  `gorm:"not null;index" json:"user_id"`
	ParentID   *snowflake.ID           `gorm:"index" json:"parent_id,omitempty"`
	Content    string                  `gorm:"not null" json:"content"`
	CreatedAt  time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// CommentReaction is one user's like or dislike on a comment. A user holds at
// most one reaction per comment; reacting again with the other kind flips it,
// with the same kind removes it.
type CommentReaction struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CommentID snowflake.ID `gorm:"not null;uniqueIndex:idx_reaction_comment_user" json:"comment_id"`
	UserID    string       `gorm:"not null;uniqueIndex:idx_reaction_comment_user" json:"user_id"`
	Kind      ReactionKind `gorm:"not null" json:"kind"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// CommentView is a comment with derived reaction counts and one level of
// replies, as served on detail pages.
type CommentView struct {
	Comment
	Likes    int           `json:"likes"`
	Dislikes int           `json:"dislikes"`
	Replies  []CommentView `json:"replies,omitempty"`
}
