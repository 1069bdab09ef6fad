package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment tracks an uploaded media file until a post claims it.
// Unclaimed rows are swept by the attachment cleanup agent.
type Attachment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	PostID    *uuid.UUID `gorm:"type:uuid;index" json:"postId,omitempty"`
	FileURL   string     `gorm:"type:text;not null;uniqueIndex" json:"fileUrl"`
	FileType  string     `gorm:"size:100" json:"fileType"`
	Size      int64      `json:"size"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	return assignID(&a.ID)
}
