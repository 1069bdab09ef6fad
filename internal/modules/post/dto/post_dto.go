package dto

import (
	"time"

	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Content  string  `json:"content"`
	// MediaURL may be empty, which means no media.
	MediaURL *string `json:"mediaUrl" binding:"omitempty,max=2048"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

// LikeResponse is a reaction row with the reacting user attached.
type LikeResponse struct {
	ID           uuid.UUID        `json:"id"`
	PostID       uuid.UUID        `json:"postId"`
	UserID       uuid.UUID        `json:"userId"`
	ReactionType string           `json:"reactionType"`
	CreatedAt    time.Time        `json:"createdAt"`
	User         *dto.UserSummary `json:"user"`
}

type CommentResponse struct {
	ID        uuid.UUID        `json:"id"`
	PostID    uuid.UUID        `json:"postId"`
	UserID    uuid.UUID        `json:"userId"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"createdAt"`
	User      *dto.UserSummary `json:"user"`
}

// PostResponse is one enriched feed entry.
type PostResponse struct {
	ID        uuid.UUID         `json:"id"`
	AuthorID  uuid.UUID         `json:"authorId"`
	Content   string            `json:"content"`
	MediaURL  *string           `json:"mediaUrl"`
	CreatedAt time.Time         `json:"createdAt"`
	Author    *dto.UserSummary  `json:"author"`
	Likes     []LikeResponse    `json:"likes"`
	Comments  []CommentResponse `json:"comments"`
}
