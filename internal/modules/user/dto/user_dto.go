package dto

import (
	"time"
)

// RegisterRequest is sent by the client right after sign-up with the
// identity provider. Field presence is checked by the service so the
// response carries a single message.
type RegisterRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Course string `json:"course"`
	Major  string `json:"major"`
}

type UpdateProfileRequest struct {
	Username *string   `json:"username" binding:"omitempty,min=3,max=50"`
	Name     *string   `json:"name" binding:"omitempty,max=100"`
	Bio      *string   `json:"bio" binding:"omitempty,max=500"`
	Subjects *[]string `json:"subjects" binding:"omitempty,max=20,dive,max=100"`
}

type UserResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Username       *string   `json:"username"`
	Name           string    `json:"name"`
	Bio            *string   `json:"bio"`
	FollowersCount int64     `json:"followersCount"`
	FollowingCount int64     `json:"followingCount"`
	Course         *string   `json:"course"`
	Major          *string   `json:"major"`
	Subjects       []string  `json:"subjects"`
	IsFollowing    bool      `json:"isFollowing"`
	CreatedAt      time.Time `json:"createdAt"`
}

type TeacherResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Role     string   `json:"role"`
	Name     string   `json:"name"`
	Username *string  `json:"username"`
	Subjects []string `json:"subjects"`
}
