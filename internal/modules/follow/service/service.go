package follow

import (
	"context"
	"fmt"

	followRepo "github.com/SahilxSingh/EduConnect/internal/modules/follow/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
)

// FollowState is the caller's relation to the target after a change, with the
// target's recomputed counters.
type FollowState struct {
	Success        bool  `json:"success"`
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}

type FollowService interface {
	Follow(ctx context.Context, actorID, targetID string) (*FollowState, error)
	Unfollow(ctx context.Context, actorID, targetID string) (*FollowState, error)
	Followers(ctx context.Context, externalID string) ([]dto.UserSummary, error)
	Following(ctx context.Context, externalID string) ([]dto.UserSummary, error)
}

type followService struct {
	repo  followRepo.FollowRepository
	users userService.Directory
}

func NewFollowService(repo followRepo.FollowRepository, users userService.Directory) FollowService {
	return &followService{repo: repo, users: users}
}

func (s *followService) Follow(ctx context.Context, actorID, targetID string) (*FollowState, error) {
	follower, following, err := s.resolvePair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Follow(ctx, follower, following); err != nil {
		return nil, fmt.Errorf("failed to follow user: %w", err)
	}
	return s.state(ctx, following, true)
}

func (s *followService) Unfollow(ctx context.Context, actorID, targetID string) (*FollowState, error) {
	follower, following, err := s.resolvePair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Unfollow(ctx, follower, following); err != nil {
		return nil, fmt.Errorf("failed to unfollow user: %w", err)
	}
	return s.state(ctx, following, false)
}

func (s *followService) resolvePair(ctx context.Context, actorID, targetID string) (uuid.UUID, uuid.UUID, error) {
	actor, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	target, err := s.users.Resolve(ctx, targetID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if actor.ID == target.ID {
		return uuid.Nil, uuid.Nil, apperror.BadRequest("you cannot follow yourself")
	}
	return actor.ID, target.ID, nil
}

func (s *followService) state(ctx context.Context, userID uuid.UUID, following bool) (*FollowState, error) {
	followers, followingCount, err := s.repo.Counts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count follows: %w", err)
	}
	return &FollowState{
		Success:        true,
		Following:      following,
		FollowersCount: followers,
		FollowingCount: followingCount,
	}, nil
}

func (s *followService) Followers(ctx context.Context, externalID string) ([]dto.UserSummary, error) {
	user, err := s.users.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.FollowerIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load followers: %w", err)
	}
	return s.summaries(ctx, ids)
}

func (s *followService) Following(ctx context.Context, externalID string) ([]dto.UserSummary, error) {
	user, err := s.users.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.FollowingIDs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load following: %w", err)
	}
	return s.summaries(ctx, ids)
}

// summaries keeps the order of ids.
func (s *followService) summaries(ctx context.Context, ids []uuid.UUID) ([]dto.UserSummary, error) {
	byID, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserSummary, 0, len(ids))
	for _, id := range ids {
		if sum, ok := byID[id]; ok {
			out = append(out, sum)
		}
	}
	return out, nil
}
