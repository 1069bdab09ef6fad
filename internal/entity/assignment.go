package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Assignment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacherId"`
	Course    string    `gorm:"size:100;not null" json:"course"`
	Major     string    `gorm:"size:100;not null" json:"major"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Details   string    `gorm:"type:text;not null" json:"details"`
	DueDate   time.Time `gorm:"not null;index" json:"dueDate"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	return assignID(&a.ID)
}

// Submission is a student's answer to an assignment; one per (assignment, student).
type Submission struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_pair,priority:1" json:"assignmentId"`
	StudentID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_pair,priority:2" json:"studentId"`
	SubmissionDetails string    `gorm:"type:text;not null" json:"submissionDetails"`
	SubmittedAt       time.Time `gorm:"not null" json:"submittedAt"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	return assignID(&s.ID)
}
