package entity

import (
	"time"

	"github.com/google/uuid"
)

type Follow struct {
	FollowerID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"followerId"`
	FollowingID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"followingId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
