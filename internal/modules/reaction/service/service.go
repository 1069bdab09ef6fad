package reaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	notifService "github.com/SahilxSingh/EduConnect/internal/modules/notification/service"
	postRepo "github.com/SahilxSingh/EduConnect/internal/modules/post/repository"
	reactionDto "github.com/SahilxSingh/EduConnect/internal/modules/reaction/dto"
	reactionRepo "github.com/SahilxSingh/EduConnect/internal/modules/reaction/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ReactionService interface {
	ToggleLike(ctx context.Context, actorID string, postID uuid.UUID, req reactionDto.ToggleLikeRequest) (*reactionDto.ToggleLikeResponse, error)
}

type reactionService struct {
	repo     reactionRepo.ReactionRepository
	postRepo postRepo.PostRepository
	users    userService.Directory
	notifier notifService.Notifier
	log      zerolog.Logger
}

func NewReactionService(repo reactionRepo.ReactionRepository, postRepo postRepo.PostRepository, users userService.Directory, notifier notifService.Notifier, log zerolog.Logger) ReactionService {
	return &reactionService{
		repo:     repo,
		postRepo: postRepo,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

func (s *reactionService) ToggleLike(ctx context.Context, actorID string, postID uuid.UUID, req reactionDto.ToggleLikeRequest) (*reactionDto.ToggleLikeResponse, error) {
	user, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	reactionType := strings.TrimSpace(req.ReactionType)
	if reactionType == "" {
		reactionType = entity.ReactionLike
	}

	liked, err := s.repo.Toggle(ctx, &entity.Reaction{
		PostID:       post.ID,
		UserID:       user.ID,
		ReactionType: reactionType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	if liked {
		s.notifyAuthor(ctx, post, user.ID)
	}

	count, err := s.repo.CountByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	return &reactionDto.ToggleLikeResponse{Success: true, Liked: liked, Likes: count}, nil
}

func (s *reactionService) notifyAuthor(ctx context.Context, post *entity.Post, actorID uuid.UUID) {
	if s.notifier == nil {
		return
	}

	name := "Someone"
	if summaries, err := s.users.Summaries(ctx, []uuid.UUID{actorID}); err == nil {
		if sum, ok := summaries[actorID]; ok {
			name = sum.Name
		}
	}

	err := s.notifier.Notify(ctx, &entity.Notification{
		UserID:     post.AuthorID,
		ActorID:    &actorID,
		EntityID:   post.ID,
		EntityType: "post",
		Type:       entity.NotificationLike,
		Message:    fmt.Sprintf("%s liked your post", name),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("post_id", post.ID.String()).Msg("like notification failed")
	}
}
