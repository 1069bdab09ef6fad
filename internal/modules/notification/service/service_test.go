package service

import (
	"context"
	"errors"
	"testing"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	notifRepo "github.com/SahilxSingh/EduConnect/internal/modules/notification/repository"
	userRepo "github.com/SahilxSingh/EduConnect/internal/modules/user/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/internal/testutil"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/rs/zerolog"
)

func TestNotificationLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	users := userService.NewUserService(userRepo.NewUserRepository(db))
	svc := NewNotificationService(notifRepo.NewNotificationRepository(db), users, nil, zerolog.Nop())
	ctx := context.Background()

	author := testutil.CreateStudent(t, db, "author", "Asha", "BSc", "Maths")
	fan := testutil.CreateStudent(t, db, "fan", "Ravi", "BSc", "Maths")
	post := testutil.CreatePost(t, db, author.ID, "hello")

	// self notifications are dropped
	if err := svc.Notify(ctx, &entity.Notification{
		UserID: author.ID, ActorID: &author.ID, EntityID: post.ID,
		EntityType: "post", Type: entity.NotificationLike, Message: "self",
	}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Notify(ctx, &entity.Notification{
		UserID: author.ID, ActorID: &fan.ID, EntityID: post.ID,
		EntityType: "post", Type: entity.NotificationLike, Message: "Ravi liked your post",
	}); err != nil {
		t.Fatal(err)
	}

	list, err := svc.GetNotifications(ctx, "author", dto.PaginationQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	if list[0].Actor == nil || list[0].Actor.UserID != "fan" {
		t.Errorf("actor = %+v, want fan", list[0].Actor)
	}

	count, err := svc.UnreadCount(ctx, "author")
	if err != nil || count != 1 {
		t.Fatalf("UnreadCount = %d, %v; want 1", count, err)
	}

	if err := svc.MarkAsRead(ctx, "fan", list[0].ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("MarkAsRead by non-owner err = %v, want ErrNotFound", err)
	}
	if err := svc.MarkAsRead(ctx, "author", list[0].ID); err != nil {
		t.Fatal(err)
	}

	count, _ = svc.UnreadCount(ctx, "author")
	if count != 0 {
		t.Errorf("UnreadCount after read = %d, want 0", count)
	}

	channel, err := svc.Channel(ctx, "author")
	if err != nil || channel != "user_notifications:"+author.ID.String() {
		t.Errorf("Channel = %q, %v", channel, err)
	}
}
