package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Query is a doubt a student addresses to a teacher. It is answered at most once.
type Query struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"studentId"`
	TeacherID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacherId"`
	QueryText  string     `gorm:"type:text;not null" json:"queryText"`
	Answer     *string    `gorm:"type:text" json:"answer"`
	Answered   bool       `gorm:"not null;default:false" json:"answered"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	AnsweredAt *time.Time `json:"answeredAt"`
}

func (q *Query) BeforeCreate(tx *gorm.DB) error {
	return assignID(&q.ID)
}
