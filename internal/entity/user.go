package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
)

// User is a registered member. ClerkID is the identity provider's subject id
// and is what clients address users by.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClerkID   string    `gorm:"size:100;uniqueIndex;not null" json:"clerkId"`
	Email     string    `gorm:"size:255;index;not null" json:"email"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	Profile   *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Student   *Student  `gorm:"constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Teacher   *Teacher  `gorm:"constraint:OnDelete:CASCADE" json:"teacher,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	return assignID(&u.ID)
}

type Profile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	Username       *string   `gorm:"size:50;index" json:"username,omitempty"`
	Name           string    `gorm:"size:100" json:"name"`
	Bio            *string   `gorm:"type:text" json:"bio,omitempty"`
	FollowersCount int64     `gorm:"not null;default:0" json:"followersCount"`
	FollowingCount int64     `gorm:"not null;default:0" json:"followingCount"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Student struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	Course string    `gorm:"size:100" json:"course"`
	Major  string    `gorm:"size:100" json:"major"`
}

type Teacher struct {
	UserID   uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"userId"`
	Subjects datatypes.JSONSlice[string] `json:"subjects"`
}

func assignID(id *uuid.UUID) (err error) {
	if *id == uuid.Nil {
		*id, err = uuid.NewV7()
	}
	return
}
