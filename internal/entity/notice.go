package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NoticeTypeNotice = "Notice"
	NoticeTypeEvent  = "Event"
)

type Notice struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID    *uuid.UUID `gorm:"type:uuid" json:"authorId"`
	Type        string     `gorm:"size:20;not null" json:"type"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	SourceURL   *string    `gorm:"type:text;uniqueIndex" json:"sourceUrl,omitempty"`
	PublishedAt time.Time  `gorm:"not null;index" json:"publishedAt"`
}

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.PublishedAt.IsZero() {
		n.PublishedAt = time.Now()
	}
	return assignID(&n.ID)
}
