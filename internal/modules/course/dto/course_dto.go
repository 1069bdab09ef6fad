package dto

import "github.com/google/uuid"

type CourseResponse struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Majors []string  `json:"majors"`
}
