package course

import (
	"context"
	"fmt"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/SahilxSingh/EduConnect/internal/modules/course/dto"
	"github.com/SahilxSingh/EduConnect/internal/modules/course/repository"
)

type CourseService interface {
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	// SeedCatalogue inserts the given courses when the catalogue is empty.
	SeedCatalogue(ctx context.Context, courses []entity.Course) (int, error)
}

type courseService struct {
	repo repository.CourseRepository
}

func NewCourseService(repo repository.CourseRepository) CourseService {
	return &courseService{repo: repo}
}

func (s *courseService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		majors := make([]string, 0, len(c.Majors))
		for _, m := range c.Majors {
			majors = append(majors, m.Name)
		}
		out = append(out, dto.CourseResponse{
			ID:     c.ID,
			Code:   c.Code,
			Name:   c.Name,
			Majors: majors,
		})
	}
	return out, nil
}

func (s *courseService) SeedCatalogue(ctx context.Context, courses []entity.Course) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for i := range courses {
		if err := s.repo.Create(ctx, &courses[i]); err != nil {
			return i, fmt.Errorf("failed to seed course %s: %w", courses[i].Code, err)
		}
	}
	return len(courses), nil
}
