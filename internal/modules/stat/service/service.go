package service

import (
	"context"
	"fmt"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	statRepo "github.com/SahilxSingh/EduConnect/internal/modules/stat/repository"
	"golang.org/x/sync/errgroup"
)

type Stats struct {
	TotalUsers int64 `json:"totalUsers"`
	Students   int64 `json:"students"`
	Teachers   int64 `json:"teachers"`
	Posts      int64 `json:"posts"`
	Notices    int64 `json:"notices"`
}

type StatService interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statService struct {
	repo statRepo.StatRepository
}

func NewStatService(repo statRepo.StatRepository) StatService {
	return &statService{repo: repo}
}

func (s *statService) GetStats(ctx context.Context) (*Stats, error) {
	var (
		stats Stats
		roles []statRepo.RoleCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = s.repo.CountUsersByRole(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Posts, err = s.repo.CountPosts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Notices, err = s.repo.CountNotices(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	for _, rc := range roles {
		stats.TotalUsers += rc.Total
		switch rc.Role {
		case entity.RoleStudent:
			stats.Students = rc.Total
		case entity.RoleTeacher:
			stats.Teachers = rc.Total
		}
	}
	return &stats, nil
}
