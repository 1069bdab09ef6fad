package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	notifDto "github.com/SahilxSingh/EduConnect/internal/modules/notification/dto"
	notifRepo "github.com/SahilxSingh/EduConnect/internal/modules/notification/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Notifier is what other modules use to tell a user something happened.
type Notifier interface {
	Notify(ctx context.Context, notification *entity.Notification) error
}

type NotificationService interface {
	Notifier
	GetNotifications(ctx context.Context, externalID string, page dto.PaginationQuery) ([]notifDto.NotificationResponse, error)
	MarkAsRead(ctx context.Context, externalID string, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, externalID string) error
	UnreadCount(ctx context.Context, externalID string) (int64, error)
	// Channel returns the pubsub channel a user's live notifications go to.
	Channel(ctx context.Context, externalID string) (string, error)
}

type notificationService struct {
	repo        notifRepo.NotificationRepository
	users       userService.Directory
	redisClient *redis.Client
	log         zerolog.Logger
}

func NewNotificationService(repo notifRepo.NotificationRepository, users userService.Directory, redisClient *redis.Client, log zerolog.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		users:       users,
		redisClient: redisClient,
		log:         log,
	}
}

func ChannelName(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID)
}

// Notify stores the notification and publishes it for live listeners.
// Notifying a user about their own action is a no-op.
func (s *notificationService) Notify(ctx context.Context, notification *entity.Notification) error {
	if notification.ActorID != nil && *notification.ActorID == notification.UserID {
		return nil
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.redisClient != nil {
		resp := s.toResponses(ctx, []entity.Notification{*notification})
		payload, err := json.Marshal(resp[0])
		if err == nil {
			if err := s.redisClient.Publish(ctx, ChannelName(notification.UserID), payload).Err(); err != nil {
				s.log.Warn().Err(err).Str("user_id", notification.UserID.String()).Msg("notification publish failed")
			}
		}
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, externalID string, page dto.PaginationQuery) ([]notifDto.NotificationResponse, error) {
	user, err := s.users.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	page = page.Normalize(20)
	notifications, err := s.repo.GetByUserID(ctx, user.ID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	return s.toResponses(ctx, notifications), nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, externalID string, id uuid.UUID) error {
	user, err := s.users.Resolve(ctx, externalID)
	if err != nil {
		return err
	}

	found, err := s.repo.MarkAsRead(ctx, user.ID, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification: %w", err)
	}
	if !found {
		return apperror.NotFound("notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, externalID string) error {
	user, err := s.users.Resolve(ctx, externalID)
	if err != nil {
		return err
	}
	return s.repo.MarkAllAsRead(ctx, user.ID)
}

func (s *notificationService) UnreadCount(ctx context.Context, externalID string) (int64, error) {
	user, err := s.users.Resolve(ctx, externalID)
	if err != nil {
		return 0, err
	}
	return s.repo.CountUnread(ctx, user.ID)
}

func (s *notificationService) Channel(ctx context.Context, externalID string) (string, error) {
	user, err := s.users.Resolve(ctx, externalID)
	if err != nil {
		return "", err
	}
	return ChannelName(user.ID), nil
}

// toResponses attaches actor summaries. A failed lookup only drops the actor.
func (s *notificationService) toResponses(ctx context.Context, notifications []entity.Notification) []notifDto.NotificationResponse {
	actorIDs := make([]uuid.UUID, 0, len(notifications))
	for _, n := range notifications {
		if n.ActorID != nil {
			actorIDs = append(actorIDs, *n.ActorID)
		}
	}

	summaries, err := s.users.Summaries(ctx, actorIDs)
	if err != nil {
		s.log.Warn().Err(err).Msg("notification actor lookup failed")
	}

	out := make([]notifDto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp := notifDto.NotificationResponse{
			ID:         n.ID,
			Type:       n.Type,
			Message:    n.Message,
			EntityID:   n.EntityID,
			EntityType: n.EntityType,
			IsRead:     n.IsRead,
			CreatedAt:  n.CreatedAt,
		}
		if n.ActorID != nil {
			if actor, ok := summaries[*n.ActorID]; ok {
				resp.Actor = &actor
			}
		}
		out = append(out, resp)
	}
	return out
}
