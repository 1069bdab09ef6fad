package repository

import (
	"context"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"gorm.io/gorm"
)

type RoleCount struct {
	Role  string
	Total int64
}

type StatRepository interface {
	CountUsersByRole(ctx context.Context) ([]RoleCount, error)
	CountPosts(ctx context.Context) (int64, error)
	CountNotices(ctx context.Context) (int64, error)
}

type statRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) StatRepository {
	return &statRepository{db: db}
}

func (r *statRepository) CountUsersByRole(ctx context.Context) ([]RoleCount, error) {
	var counts []RoleCount
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&counts).Error
	return counts, err
}

func (r *statRepository) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Post{}).Count(&n).Error
	return n, err
}

func (r *statRepository) CountNotices(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.Notice{}).Count(&n).Error
	return n, err
}
