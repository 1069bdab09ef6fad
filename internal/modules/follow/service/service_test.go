package follow

import (
	"context"
	"errors"
	"testing"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	followRepo "github.com/SahilxSingh/EduConnect/internal/modules/follow/repository"
	userRepo "github.com/SahilxSingh/EduConnect/internal/modules/user/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/internal/testutil"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func profileCounts(t *testing.T, db *gorm.DB, userID uuid.UUID) (int64, int64) {
	t.Helper()
	var p entity.Profile
	if err := db.First(&p, "user_id = ?", userID).Error; err != nil {
		t.Fatal(err)
	}
	return p.FollowersCount, p.FollowingCount
}

func rowCounts(db *gorm.DB, userID uuid.UUID) (int64, int64) {
	var followers, following int64
	db.Model(&entity.Follow{}).Where("following_id = ?", userID).Count(&followers)
	db.Model(&entity.Follow{}).Where("follower_id = ?", userID).Count(&following)
	return followers, following
}

func TestFollowCountersMatchRows(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFollowService(followRepo.NewFollowRepository(db), userService.NewUserService(userRepo.NewUserRepository(db)))
	ctx := context.Background()

	asha := testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")
	ravi := testutil.CreateStudent(t, db, "ravi", "Ravi", "BSc", "Maths")
	rao := testutil.CreateTeacher(t, db, "rao", "Dr. Rao")

	steps := []struct {
		follow bool
		actor  string
		target string
	}{
		{true, "asha", "rao"},
		{true, "ravi", "rao"},
		{true, "asha", "rao"}, // repeat is a no-op
		{true, "rao", "asha"},
		{false, "ravi", "rao"},
		{false, "ravi", "rao"},
	}
	for i, step := range steps {
		var err error
		if step.follow {
			_, err = svc.Follow(ctx, step.actor, step.target)
		} else {
			_, err = svc.Unfollow(ctx, step.actor, step.target)
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		for _, u := range []entity.User{asha, ravi, rao} {
			gotFollowers, gotFollowing := profileCounts(t, db, u.ID)
			wantFollowers, wantFollowing := rowCounts(db, u.ID)
			if gotFollowers != wantFollowers || gotFollowing != wantFollowing {
				t.Fatalf("step %d user %s: counters %d/%d, rows %d/%d",
					i, u.ClerkID, gotFollowers, gotFollowing, wantFollowers, wantFollowing)
			}
		}
	}

	followers, following := profileCounts(t, db, rao.ID)
	if followers != 1 || following != 1 {
		t.Errorf("rao counters = %d/%d, want 1/1", followers, following)
	}

	list, err := svc.Followers(ctx, "rao")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].UserID != "asha" {
		t.Errorf("followers = %+v", list)
	}
}

func TestFollowSelfIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewFollowService(followRepo.NewFollowRepository(db), userService.NewUserService(userRepo.NewUserRepository(db)))
	testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")

	_, err := svc.Follow(context.Background(), "asha", "asha")
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}

	_, err = svc.Follow(context.Background(), "asha", "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("unknown target err = %v, want ErrNotFound", err)
	}
}
