package course

import (
	"context"
	"testing"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/SahilxSingh/EduConnect/internal/modules/course/repository"
	"github.com/SahilxSingh/EduConnect/internal/testutil"
)

func TestSeedAndListCourses(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCourseService(repository.NewCourseRepository(db))
	ctx := context.Background()

	catalogue := func() []entity.Course {
		return []entity.Course{
			{Code: "BTECH", Name: "B.Tech", Majors: []entity.Major{{Name: "Mechanical"}, {Name: "Computer Science"}}},
			{Code: "BSC", Name: "B.Sc", Majors: []entity.Major{{Name: "Physics"}}},
		}
	}

	n, err := svc.SeedCatalogue(ctx, catalogue())
	if err != nil || n != 2 {
		t.Fatalf("first seed = %d, %v; want 2, nil", n, err)
	}
	n, err = svc.SeedCatalogue(ctx, catalogue())
	if err != nil || n != 0 {
		t.Fatalf("second seed = %d, %v; want 0, nil", n, err)
	}

	got, err := svc.ListCourses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "B.Sc" || got[1].Name != "B.Tech" {
		t.Errorf("order = %s, %s; want by name", got[0].Name, got[1].Name)
	}
	if len(got[1].Majors) != 2 || got[1].Majors[0] != "Computer Science" {
		t.Errorf("majors = %v, want sorted names", got[1].Majors)
	}
}
