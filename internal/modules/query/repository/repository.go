package repository

import (
	"context"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QueryRepository interface {
	Create(ctx context.Context, query *entity.Query) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Query, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]entity.Query, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Query, error)
	// Answer records the answer only while the query is still unanswered.
	// It reports false when another answer got there first.
	Answer(ctx context.Context, id uuid.UUID, answer string, at time.Time) (bool, error)
}

type queryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &queryRepository{db: db}
}

func (r *queryRepository) Create(ctx context.Context, query *entity.Query) error {
	return r.db.WithContext(ctx).Create(query).Error
}

func (r *queryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Query, error) {
	var query entity.Query
	if err := r.db.WithContext(ctx).First(&query, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &query, nil
}

func (r *queryRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]entity.Query, error) {
	var queries []entity.Query
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&queries).Error
	return queries, err
}

func (r *queryRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]entity.Query, error) {
	var queries []entity.Query
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&queries).Error
	return queries, err
}

func (r *queryRepository) Answer(ctx context.Context, id uuid.UUID, answer string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Query{}).
		Where("id = ? AND answered = ?", id, false).
		Updates(map[string]any{
			"answer":      answer,
			"answered":    true,
			"answered_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
