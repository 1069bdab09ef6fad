package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/SahilxSingh/EduConnect/internal/testutil"
	"github.com/google/uuid"
)

func TestConcurrentFollowsKeepCountersExact(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	target := testutil.CreateTeacher(t, db, "rao", "Dr. Rao")
	followers := make([]uuid.UUID, 8)
	for i := range followers {
		u := testutil.CreateStudent(t, db, fmt.Sprintf("s-%d", i), fmt.Sprintf("Student %d", i), "BSc", "Maths")
		followers[i] = u.ID
	}

	var wg sync.WaitGroup
	for _, id := range followers {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if err := repo.Follow(ctx, id, target.ID); err != nil {
				t.Errorf("Follow(%s) error = %v", id, err)
			}
		}(id)
	}
	// the target follows back half of them at the same time
	for _, id := range followers[:4] {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if err := repo.Follow(ctx, target.ID, id); err != nil {
				t.Errorf("follow back %s error = %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	var profile entity.Profile
	if err := db.First(&profile, "user_id = ?", target.ID).Error; err != nil {
		t.Fatal(err)
	}
	rowsFollowers, rowsFollowing, err := repo.Counts(ctx, target.ID)
	if err != nil {
		t.Fatal(err)
	}
	if rowsFollowers != 8 || rowsFollowing != 4 {
		t.Fatalf("rows = %d followers, %d following; want 8, 4", rowsFollowers, rowsFollowing)
	}
	if profile.FollowersCount != rowsFollowers || profile.FollowingCount != rowsFollowing {
		t.Errorf("profile counters = %d/%d, rows = %d/%d",
			profile.FollowersCount, profile.FollowingCount, rowsFollowers, rowsFollowing)
	}
}

func TestUnfollowOfMissingRowLeavesCounters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	asha := testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")
	rao := testutil.CreateTeacher(t, db, "rao", "Dr. Rao")

	if err := repo.Unfollow(ctx, asha.ID, rao.ID); err != nil {
		t.Fatalf("Unfollow error = %v", err)
	}
	if err := repo.Follow(ctx, asha.ID, rao.ID); err != nil {
		t.Fatal(err)
	}
	if err := repo.Unfollow(ctx, asha.ID, rao.ID); err != nil {
		t.Fatal(err)
	}

	var profile entity.Profile
	if err := db.First(&profile, "user_id = ?", rao.ID).Error; err != nil {
		t.Fatal(err)
	}
	if profile.FollowersCount != 0 {
		t.Errorf("FollowersCount = %d, want 0", profile.FollowersCount)
	}
}
