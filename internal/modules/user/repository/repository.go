package repository

import (
	"context"
	"errors"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Registration is everything the register flow writes in one transaction.
type Registration struct {
	ClerkID string
	Email   string
	Name    string
	Role    string
	Course  string
	Major   string
}

type UserRepository interface {
	// Register upserts the user by external id together with its profile and
	// role row. The stored role wins over the requested one.
	Register(ctx context.Context, reg Registration) (*entity.User, error)
	FindByClerkID(ctx context.Context, clerkID string) (*entity.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) error
	UpsertSubjects(ctx context.Context, userID uuid.UUID, subjects []string) error
	ListByRole(ctx context.Context, role string) ([]entity.User, error)
	FindStudentsByProgramme(ctx context.Context, course, major string) ([]entity.Student, error)
	IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Register(ctx context.Context, reg Registration) (*entity.User, error) {
	var stored entity.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := entity.User{ClerkID: reg.ClerkID, Email: reg.Email, Role: reg.Role}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "clerk_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email"}),
		}).Create(&user).Error; err != nil {
			return err
		}

		// The insert may have been turned into an update; read back the real row.
		if err := tx.Where("clerk_id = ?", reg.ClerkID).First(&stored).Error; err != nil {
			return err
		}

		profile := entity.Profile{UserID: stored.ID, Name: reg.Name}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&profile).Error; err != nil {
			return err
		}

		switch stored.Role {
		case entity.RoleStudent:
			student := entity.Student{UserID: stored.ID, Course: reg.Course, Major: reg.Major}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"course", "major"}),
			}).Create(&student).Error
		case entity.RoleTeacher:
			// Keep subjects a teacher already chose.
			teacher := entity.Teacher{UserID: stored.ID, Subjects: datatypes.JSONSlice[string]{}}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoNothing: true,
			}).Create(&teacher).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *userRepository) FindByClerkID(ctx context.Context, clerkID string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Student").
		Preload("Teacher").
		Where("clerk_id = ?", clerkID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []entity.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("id IN ?", ids).
		Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpsertSubjects(ctx context.Context, userID uuid.UUID, subjects []string) error {
	teacher := entity.Teacher{UserID: userID, Subjects: datatypes.JSONSlice[string](subjects)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"subjects"}),
	}).Create(&teacher).Error
}

func (r *userRepository) ListByRole(ctx context.Context, role string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Teacher").
		Where("role = ?", role).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) FindStudentsByProgramme(ctx context.Context, course, major string) ([]entity.Student, error) {
	var students []entity.Student
	err := r.db.WithContext(ctx).
		Where("LOWER(course) = LOWER(?) AND LOWER(major) = LOWER(?)", course, major).
		Find(&students).Error
	return students, err
}

func (r *userRepository) IsFollowing(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var follow entity.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Take(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
