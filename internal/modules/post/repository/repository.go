package repository

import (
	"context"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	FindAll(ctx context.Context) ([]entity.Post, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]entity.Post, error)
	CreateComment(ctx context.Context, comment *entity.Comment) error
	FindCommentsByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]entity.Comment, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindAll(ctx context.Context) ([]entity.Post, error) {
	var posts []entity.Post
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]entity.Post, error) {
	var posts []entity.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindCommentsByPostIDs loads every comment of the given posts, oldest first.
func (r *postRepository) FindCommentsByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]entity.Comment, error) {
	var comments []entity.Comment
	if len(postIDs) == 0 {
		return comments, nil
	}
	err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
