package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course is an entry of the onboarding catalogue.
type Course struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code   string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name   string    `gorm:"size:100;not null" json:"name"`
	Majors []Major   `gorm:"constraint:OnDelete:CASCADE" json:"majors"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	return assignID(&c.ID)
}

type Major struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"courseId"`
	Name     string    `gorm:"size:100;not null" json:"name"`
}

func (m *Major) BeforeCreate(tx *gorm.DB) error {
	return assignID(&m.ID)
}
