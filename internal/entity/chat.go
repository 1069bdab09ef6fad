package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chat struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      *string      `gorm:"size:100" json:"name"`
	IsGroup   bool         `gorm:"not null;default:false" json:"isGroup"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	Members   []ChatMember `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Chat) BeforeCreate(tx *gorm.DB) error {
	return assignID(&c.ID)
}

type ChatMember struct {
	ChatID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"chatId"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"userId"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joinedAt"`
}

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID    uuid.UUID `gorm:"type:uuid;not null;index" json:"chatId"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null" json:"senderId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	return assignID(&m.ID)
}
