package dto

import (
	"time"

	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
)

// StartChatRequest lists participants by external id. The caller is always
// a participant, listed or not.
type StartChatRequest struct {
	Participants []string `json:"participants"`
	Name         *string  `json:"name" binding:"omitempty,max=100"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type ChatResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         *string   `json:"name"`
	IsGroup      bool      `json:"isGroup"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MessageResponse names the sender by external id.
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chatId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatListItem is one row of the caller's chat list.
type ChatListItem struct {
	ID            uuid.UUID         `json:"id"`
	Name          *string           `json:"name"`
	IsGroup       bool              `json:"isGroup"`
	Participant   *dto.UserSummary  `json:"participant"`
	Participants  []dto.UserSummary `json:"participants"`
	LastMessage   string            `json:"lastMessage"`
	LastMessageAt time.Time         `json:"lastMessageAt"`
}
