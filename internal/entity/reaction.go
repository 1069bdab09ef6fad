package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ReactionLike = "like"

// Reaction is one user's reaction to a post. A user holds at most one per post.
type Reaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_post_user,priority:1" json:"postId"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_post_user,priority:2" json:"userId"`
	ReactionType string    `gorm:"size:20;not null;default:like" json:"reactionType"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (r *Reaction) TableName() string {
	return "reactions"
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	return assignID(&r.ID)
}
