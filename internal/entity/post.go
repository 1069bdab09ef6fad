package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"authorId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	MediaURL  *string   `gorm:"type:text" json:"mediaUrl"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	return assignID(&p.ID)
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"postId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	return assignID(&c.ID)
}
