package repository

import (
	"context"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoticeRepository interface {
	Create(ctx context.Context, notice *entity.Notice) error
	// CreateFromSource inserts an imported notice unless one with the same
	// source url exists. It reports whether a row was written.
	CreateFromSource(ctx context.Context, notice *entity.Notice) (bool, error)
	List(ctx context.Context, noticeType string, limit, offset int) ([]entity.Notice, error)
}

type noticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *entity.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *noticeRepository) CreateFromSource(ctx context.Context, notice *entity.Notice) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "source_url"}}, DoNothing: true}).
		Create(notice)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *noticeRepository) List(ctx context.Context, noticeType string, limit, offset int) ([]entity.Notice, error) {
	var notices []entity.Notice
	query := r.db.WithContext(ctx).Model(&entity.Notice{})
	if noticeType != "" {
		query = query.Where("type = ?", noticeType)
	}
	err := query.Order("published_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notices).Error
	return notices, err
}
