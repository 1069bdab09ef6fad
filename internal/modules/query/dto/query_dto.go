package dto

import (
	"time"

	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
)

type SubmitQueryRequest struct {
	TeacherID string `json:"teacherId"`
	QueryText string `json:"queryText"`
}

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type QueryResponse struct {
	ID         uuid.UUID  `json:"id"`
	QueryText  string     `json:"queryText"`
	Answer     *string    `json:"answer"`
	Answered   bool       `json:"answered"`
	CreatedAt  time.Time  `json:"createdAt"`
	AnsweredAt *time.Time `json:"answeredAt"`
}

// TeacherQueryResponse is a query in the addressed teacher's inbox.
type TeacherQueryResponse struct {
	QueryResponse
	Student *dto.UserSummary `json:"student"`
}

// StudentQueryResponse is a query in the asking student's list.
type StudentQueryResponse struct {
	QueryResponse
	TeacherName string           `json:"teacherName"`
	Teacher     *dto.UserSummary `json:"teacher"`
}
