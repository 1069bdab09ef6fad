package repository

import (
	"context"
	"errors"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	// Create stores the chat together with its members.
	Create(ctx context.Context, chat *entity.Chat, memberIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error)
	IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
	ChatIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Chat, error)
	MembersOf(ctx context.Context, chatIDs []uuid.UUID) ([]entity.ChatMember, error)
	CreateMessage(ctx context.Context, message *entity.Message) error
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]entity.Message, error)
	// LatestMessages returns the newest message of each chat that has one.
	LatestMessages(ctx context.Context, chatIDs []uuid.UUID) ([]entity.Message, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *entity.Chat, memberIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(chat).Error; err != nil {
			return err
		}
		members := make([]entity.ChatMember, len(memberIDs))
		for i, id := range memberIDs {
			members[i] = entity.ChatMember{ChatID: chat.ID, UserID: id}
		}
		if err := tx.Create(&members).Error; err != nil {
			return err
		}
		chat.Members = members
		return nil
	})
}

func (r *chatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	var chat entity.Chat
	if err := r.db.WithContext(ctx).First(&chat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	var member entity.ChatMember
	err := r.db.WithContext(ctx).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Take(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *chatRepository) ChatIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.ChatMember{}).
		Where("user_id = ?", userID).
		Pluck("chat_id", &ids).Error
	return ids, err
}

func (r *chatRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Chat, error) {
	var chats []entity.Chat
	if len(ids) == 0 {
		return chats, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&chats).Error
	return chats, err
}

func (r *chatRepository) MembersOf(ctx context.Context, chatIDs []uuid.UUID) ([]entity.ChatMember, error) {
	var members []entity.ChatMember
	if len(chatIDs) == 0 {
		return members, nil
	}
	err := r.db.WithContext(ctx).
		Where("chat_id IN ?", chatIDs).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]entity.Message, error) {
	var messages []entity.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *chatRepository) LatestMessages(ctx context.Context, chatIDs []uuid.UUID) ([]entity.Message, error) {
	var messages []entity.Message
	if len(chatIDs) == 0 {
		return messages, nil
	}
	err := r.db.WithContext(ctx).
		Where("chat_id IN ?", chatIDs).
		Where("created_at = (SELECT MAX(m.created_at) FROM messages m WHERE m.chat_id = messages.chat_id)").
		Find(&messages).Error
	return messages, err
}
