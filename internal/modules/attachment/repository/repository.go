package repository

import (
	"context"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *entity.Attachment) error
	ClaimForPost(ctx context.Context, fileURL string, postID, userID uuid.UUID) (bool, error)
	FindOrphans(ctx context.Context, cutoffTime time.Time) ([]entity.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type attachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// ClaimForPost links an upload to a post. Only the uploader can claim it and
// only while it is not attached to another post.
func (r *attachmentRepository) ClaimForPost(ctx context.Context, fileURL string, postID, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Attachment{}).
		Where("file_url = ? AND user_id = ?", fileURL, userID).
		Where("post_id IS NULL OR post_id = ?", postID).
		Update("post_id", postID)
	return res.RowsAffected > 0, res.Error
}

func (r *attachmentRepository) FindOrphans(ctx context.Context, cutoffTime time.Time) ([]entity.Attachment, error) {
	var attachments []entity.Attachment
	err := r.db.WithContext(ctx).
		Where("post_id IS NULL AND created_at < ?", cutoffTime).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *attachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Attachment{}, "id = ?", id).Error
}
