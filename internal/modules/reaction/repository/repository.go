package repository

import (
	"context"
	"errors"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReactionRepository interface {
	// Toggle removes the user's reaction on the post if there is one and
	// creates it otherwise. It reports whether the reaction exists afterwards.
	Toggle(ctx context.Context, reaction *entity.Reaction) (bool, error)
	FindByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]entity.Reaction, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Toggle(ctx context.Context, reaction *entity.Reaction) (bool, error) {
	// Find with a slice avoids gorm's record-not-found log noise from First()
	var existing []entity.Reaction
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", reaction.PostID, reaction.UserID).
		Limit(1).
		Find(&existing).Error
	if err != nil {
		return false, err
	}

	if len(existing) > 0 {
		if err := r.db.WithContext(ctx).Delete(&existing[0]).Error; err != nil {
			return false, err
		}
		return false, nil
	}

	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		// a concurrent toggle from the same user got there first
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

func (r *reactionRepository) FindByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]entity.Reaction, error) {
	var reactions []entity.Reaction
	if len(postIDs) == 0 {
		return reactions, nil
	}
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at ASC").
		Find(&reactions).Error
	return reactions, err
}

func (r *reactionRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Reaction{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
