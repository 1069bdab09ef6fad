package dto

import (
	"time"

	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
)

// CreateAssignmentRequest names the teacher by external id in the body.
type CreateAssignmentRequest struct {
	TeacherID string `json:"teacherId"`
	Course    string `json:"course"`
	Major     string `json:"major"`
	Title     string `json:"title"`
	Details   string `json:"details"`
	DueDate   string `json:"dueDate"`
}

type AssignmentResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	DueDate   time.Time `json:"dueDate"`
	Course    string    `json:"course"`
	Major     string    `json:"major"`
	CreatedAt time.Time `json:"createdAt"`
}

type StudentAssignmentResponse struct {
	AssignmentResponse
	Teacher   *dto.UserSummary `json:"teacher"`
	Submitted bool             `json:"submitted"`
}

type SubmitRequest struct {
	SubmissionDetails string `json:"submissionDetails"`
}

type SubmissionResponse struct {
	ID                uuid.UUID        `json:"id"`
	SubmissionDetails string           `json:"submissionDetails"`
	SubmittedAt       time.Time        `json:"submittedAt"`
	StudentID         string           `json:"studentId"`
	Student           *dto.UserSummary `json:"student"`
}
