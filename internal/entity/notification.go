package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationComment    = "comment"
	NotificationLike       = "like"
	NotificationQuery      = "query"
	NotificationAnswer     = "answer"
	NotificationAssignment = "assignment_due"
)

type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	ActorID    *uuid.UUID `gorm:"type:uuid" json:"actorId,omitempty"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null" json:"entityId"`
	EntityType string     `gorm:"size:30;not null" json:"entityType"`
	Type       string     `gorm:"size:30;not null" json:"type"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	IsRead     bool       `gorm:"not null;default:false;index" json:"isRead"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	return assignID(&n.ID)
}

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&Profile{},
		&Student{},
		&Teacher{},
		&Course{},
		&Major{},
		&Post{},
		&Reaction{},
		&Comment{},
		&Attachment{},
		&Follow{},
		&Assignment{},
		&Submission{},
		&Notice{},
		&Query{},
		&Chat{},
		&ChatMember{},
		&Message{},
		&Notification{},
	}
}
