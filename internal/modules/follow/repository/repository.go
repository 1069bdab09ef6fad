package repository

import (
	"context"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	Follow(ctx context.Context, followerID, followingID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	Counts(ctx context.Context, userID uuid.UUID) (followers int64, following int64, err error)
	FollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProfiles(tx, followerID, followingID); err != nil {
			return err
		}
		follow := entity.Follow{FollowerID: followerID, FollowingID: followingID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error; err != nil {
			return err
		}
		return recount(tx, followerID, followingID)
	})
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProfiles(tx, followerID, followingID); err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&entity.Follow{}).Error; err != nil {
			return err
		}
		return recount(tx, followerID, followingID)
	})
}

// lockProfiles row-locks both profiles in user_id order, so recounts for the
// same user run one at a time and opposite follows cannot deadlock.
func lockProfiles(tx *gorm.DB, userIDs ...uuid.UUID) error {
	var profiles []entity.Profile
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id IN ?", userIDs).
		Order("user_id").
		Find(&profiles).Error
}

// recount rewrites the cached counters from the follow rows so they can
// never drift from them.
func recount(tx *gorm.DB, userIDs ...uuid.UUID) error {
	for _, id := range userIDs {
		followers, following, err := counts(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&entity.Profile{}).
			Where("user_id = ?", id).
			Updates(map[string]any{
				"followers_count": followers,
				"following_count": following,
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

func counts(tx *gorm.DB, userID uuid.UUID) (int64, int64, error) {
	var followers, following int64
	if err := tx.Model(&entity.Follow{}).Where("following_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err := tx.Model(&entity.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func (r *followRepository) Counts(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	return counts(r.db.WithContext(ctx), userID)
}

func (r *followRepository) FollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Follow{}).
		Where("following_id = ?", userID).
		Order("created_at DESC").
		Pluck("follower_id", &ids).Error
	return ids, err
}

func (r *followRepository) FollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Follow{}).
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Pluck("following_id", &ids).Error
	return ids, err
}
