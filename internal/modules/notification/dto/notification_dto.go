package dto

import (
	"time"

	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID         uuid.UUID        `json:"id"`
	Type       string           `json:"type"`
	Message    string           `json:"message"`
	EntityID   uuid.UUID        `json:"entityId"`
	EntityType string           `json:"entityType"`
	IsRead     bool             `json:"isRead"`
	CreatedAt  time.Time        `json:"createdAt"`
	Actor      *dto.UserSummary `json:"actor,omitempty"`
}
