package dto

import (
	"time"

	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
)

type CreateNoticeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

type NoticeFilter struct {
	Type string `form:"type" binding:"omitempty,oneof=Notice Event"`
	dto.PaginationQuery
}

type NoticeResponse struct {
	ID          uuid.UUID        `json:"id"`
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	SourceURL   *string          `json:"sourceUrl,omitempty"`
	PublishedAt time.Time        `json:"publishedAt"`
	Author      *dto.UserSummary `json:"author"`
}
