package bootstrap

import (
	"context"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	course "github.com/SahilxSingh/EduConnect/internal/modules/course/service"
	"github.com/SahilxSingh/EduConnect/pkg/logger"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(entity.Models()...)
}

// DefaultCourses is the catalogue offered during onboarding on a fresh database.
func DefaultCourses() []entity.Course {
	majors := func(names ...string) []entity.Major {
		out := make([]entity.Major, len(names))
		for i, n := range names {
			out[i] = entity.Major{Name: n}
		}
		return out
	}

	return []entity.Course{
		{Code: "BTECH", Name: "B.Tech", Majors: majors("Computer Science", "Electronics", "Mechanical", "Civil")},
		{Code: "BSC", Name: "B.Sc", Majors: majors("Physics", "Chemistry", "Mathematics", "Computer Science")},
		{Code: "BCOM", Name: "B.Com", Majors: majors("Accounting", "Finance")},
		{Code: "BA", Name: "B.A", Majors: majors("English", "Economics", "History")},
		{Code: "BCA", Name: "BCA", Majors: majors("Computer Applications")},
	}
}

func SeedCourses(ctx context.Context, svc course.CourseService) error {
	n, err := svc.SeedCatalogue(ctx, DefaultCourses())
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info().Int("courses", n).Msg("course catalogue seeded")
	}
	return nil
}
