package repository

import (
	"context"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"gorm.io/gorm"
)

type CourseRepository interface {
	FindAll(ctx context.Context) ([]entity.Course, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, course *entity.Course) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) FindAll(ctx context.Context) ([]entity.Course, error) {
	var courses []entity.Course
	err := r.db.WithContext(ctx).
		Preload("Majors", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Order("name ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Course{}).Count(&count).Error
	return count, err
}

// Create inserts the course together with its majors.
func (r *courseRepository) Create(ctx context.Context, course *entity.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}
