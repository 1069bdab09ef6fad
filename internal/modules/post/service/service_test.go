package post

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	notifRepo "github.com/SahilxSingh/EduConnect/internal/modules/notification/repository"
	notifService "github.com/SahilxSingh/EduConnect/internal/modules/notification/service"
	postDto "github.com/SahilxSingh/EduConnect/internal/modules/post/dto"
	postRepo "github.com/SahilxSingh/EduConnect/internal/modules/post/repository"
	reactionRepo "github.com/SahilxSingh/EduConnect/internal/modules/reaction/repository"
	userRepo "github.com/SahilxSingh/EduConnect/internal/modules/user/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/internal/testutil"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type claim struct {
	url    string
	postID uuid.UUID
	userID uuid.UUID
}

type recordingClaimer struct {
	claims []claim
}

func (r *recordingClaimer) ClaimForPost(_ context.Context, fileURL string, postID, userID uuid.UUID) error {
	r.claims = append(r.claims, claim{fileURL, postID, userID})
	return nil
}

func newService(t *testing.T) (PostService, *gorm.DB) {
	return newServiceWithMedia(t, nil)
}

func newServiceWithMedia(t *testing.T, media MediaClaimer) (PostService, *gorm.DB) {
	db := testutil.NewDB(t)
	users := userService.NewUserService(userRepo.NewUserRepository(db))
	notifier := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), users, nil, zerolog.Nop())
	svc := NewPostService(
		postRepo.NewPostRepository(db),
		reactionRepo.NewReactionRepository(db),
		users,
		notifier,
		nil,
		media,
		nil,
		0,
		zerolog.Nop(),
	)
	return svc, db
}

func TestCreatePostRejectsBlankContent(t *testing.T) {
	svc, db := newService(t)
	testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")

	for _, content := range []string{"", "   ", "\n\t", "<script>alert(1)</script>"} {
		_, err := svc.CreatePost(context.Background(), "asha", postDto.CreatePostRequest{Content: content})
		if !errors.Is(err, apperror.ErrBadRequest) {
			t.Errorf("content %q: err = %v, want ErrBadRequest", content, err)
		}
	}

	var count int64
	db.Model(&entity.Post{}).Count(&count)
	if count != 0 {
		t.Fatalf("post rows = %d, want 0", count)
	}
}

func TestCreatePost(t *testing.T) {
	claimer := &recordingClaimer{}
	svc, db := newServiceWithMedia(t, claimer)
	asha := testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")

	media := " https://cdn.example.com/a.webp "
	got, err := svc.CreatePost(context.Background(), "asha", postDto.CreatePostRequest{
		Content:  "  Exams moved to <b>Monday</b><script>x</script> ",
		MediaURL: &media,
	})
	if err != nil {
		t.Fatalf("CreatePost error = %v", err)
	}
	if got.Content != "Exams moved to <b>Monday</b>" {
		t.Errorf("Content = %q", got.Content)
	}
	if got.MediaURL == nil || *got.MediaURL != "https://cdn.example.com/a.webp" {
		t.Errorf("MediaURL = %v", got.MediaURL)
	}
	if got.Author == nil || got.Author.UserID != "asha" {
		t.Errorf("Author = %+v", got.Author)
	}
	if len(claimer.claims) != 1 {
		t.Fatalf("claims = %d, want 1", len(claimer.claims))
	}
	if c := claimer.claims[0]; c.url != "https://cdn.example.com/a.webp" || c.postID != got.ID || c.userID != asha.ID {
		t.Errorf("claim = %+v", c)
	}
}

func TestCreatePostMediaURL(t *testing.T) {
	claimer := &recordingClaimer{}
	svc, db := newServiceWithMedia(t, claimer)
	testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")
	ctx := context.Background()

	blank := "  "
	got, err := svc.CreatePost(ctx, "asha", postDto.CreatePostRequest{Content: "no media", MediaURL: &blank})
	if err != nil {
		t.Fatalf("blank mediaUrl error = %v", err)
	}
	if got.MediaURL != nil {
		t.Errorf("MediaURL = %q, want nil", *got.MediaURL)
	}
	if len(claimer.claims) != 0 {
		t.Errorf("claims = %d, want 0", len(claimer.claims))
	}

	bad := "not a url"
	if _, err := svc.CreatePost(ctx, "asha", postDto.CreatePostRequest{Content: "bad media", MediaURL: &bad}); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("invalid mediaUrl err = %v, want ErrBadRequest", err)
	}

	var count int64
	db.Model(&entity.Post{}).Count(&count)
	if count != 1 {
		t.Errorf("post rows = %d, want 1", count)
	}
}

func TestPlainTextSurvivesFeedRoundTrip(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")
	testutil.CreateStudent(t, db, "ravi", "Ravi", "BSc", "Maths")

	content := `I don't get "limits" & x < 5`
	created, err := svc.CreatePost(ctx, "asha", postDto.CreatePostRequest{Content: content})
	if err != nil {
		t.Fatalf("CreatePost error = %v", err)
	}
	if created.Content != content {
		t.Errorf("created Content = %q, want %q", created.Content, content)
	}

	comment, err := svc.AddComment(ctx, "ravi", created.ID, postDto.CreateCommentRequest{Content: "Tom & Jerry's"})
	if err != nil {
		t.Fatalf("AddComment error = %v", err)
	}
	if comment.Content != "Tom & Jerry's" {
		t.Errorf("comment Content = %q", comment.Content)
	}

	feed, err := svc.GetFeed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed = %d posts, want 1", len(feed))
	}
	if feed[0].Content != content {
		t.Errorf("feed Content = %q, want %q", feed[0].Content, content)
	}
	if len(feed[0].Comments) != 1 || feed[0].Comments[0].Content != "Tom & Jerry's" {
		t.Errorf("feed Comments = %+v", feed[0].Comments)
	}
}

func TestGetFeedGroupsChildrenPerPost(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	asha := testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")
	ravi := testutil.CreateStudent(t, db, "ravi", "Ravi", "BSc", "Maths")
	rao := testutil.CreateTeacher(t, db, "rao", "Dr. Rao", "Physics")

	older := testutil.CreatePost(t, db, asha.ID, "first")
	db.Model(&older).Update("created_at", time.Now().Add(-time.Hour))
	newer := testutil.CreatePost(t, db, ravi.ID, "second")
	empty := testutil.CreatePost(t, db, rao.ID, "third")
	db.Model(&empty).Update("created_at", time.Now().Add(-2*time.Hour))

	reactions := reactionRepo.NewReactionRepository(db)
	for _, r := range []entity.Reaction{
		{PostID: older.ID, UserID: ravi.ID, ReactionType: entity.ReactionLike},
		{PostID: older.ID, UserID: rao.ID, ReactionType: entity.ReactionLike},
		{PostID: newer.ID, UserID: asha.ID, ReactionType: entity.ReactionLike},
	} {
		r := r
		if _, err := reactions.Toggle(ctx, &r); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.AddComment(ctx, "rao", newer.ID, postDto.CreateCommentRequest{Content: "nice"}); err != nil {
		t.Fatal(err)
	}

	feed, err := svc.GetFeed(ctx)
	if err != nil {
		t.Fatalf("GetFeed error = %v", err)
	}
	if len(feed) != 3 {
		t.Fatalf("len = %d, want 3", len(feed))
	}

	wantOrder := []uuid.UUID{newer.ID, older.ID, empty.ID}
	for i, id := range wantOrder {
		if feed[i].ID != id {
			t.Fatalf("feed[%d] = %s, want %s", i, feed[i].ID, id)
		}
	}

	for _, p := range feed {
		for _, l := range p.Likes {
			if l.PostID != p.ID {
				t.Errorf("post %s carries like of post %s", p.ID, l.PostID)
			}
		}
		for _, c := range p.Comments {
			if c.PostID != p.ID {
				t.Errorf("post %s carries comment of post %s", p.ID, c.PostID)
			}
		}
	}

	if len(feed[0].Likes) != 1 || len(feed[0].Comments) != 1 {
		t.Errorf("newer: likes=%d comments=%d, want 1/1", len(feed[0].Likes), len(feed[0].Comments))
	}
	if feed[0].Comments[0].User == nil || feed[0].Comments[0].User.Name != "Dr. Rao" {
		t.Errorf("comment user = %+v", feed[0].Comments[0].User)
	}
	if len(feed[1].Likes) != 2 || len(feed[1].Comments) != 0 {
		t.Errorf("older: likes=%d comments=%d, want 2/0", len(feed[1].Likes), len(feed[1].Comments))
	}
	if feed[2].Likes == nil || feed[2].Comments == nil {
		t.Error("empty post should carry empty, non-nil lists")
	}
	if feed[1].Author == nil || feed[1].Author.Name != "Asha" {
		t.Errorf("older author = %+v", feed[1].Author)
	}
}

func TestAddComment(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	asha := testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")
	testutil.CreateStudent(t, db, "ravi", "Ravi", "BSc", "Maths")
	post := testutil.CreatePost(t, db, asha.ID, "hello")

	if _, err := svc.AddComment(ctx, "ravi", post.ID, postDto.CreateCommentRequest{Content: "  "}); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("blank comment err = %v, want ErrBadRequest", err)
	}
	if _, err := svc.AddComment(ctx, "ravi", uuid.New(), postDto.CreateCommentRequest{Content: "hi"}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown post err = %v, want ErrNotFound", err)
	}

	if _, err := svc.AddComment(ctx, "ravi", post.ID, postDto.CreateCommentRequest{Content: "hi"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddComment(ctx, "asha", post.ID, postDto.CreateCommentRequest{Content: "thanks"}); err != nil {
		t.Fatal(err)
	}

	var notifications []entity.Notification
	db.Where("user_id = ?", asha.ID).Find(&notifications)
	if len(notifications) != 1 {
		t.Fatalf("author notifications = %d, want 1", len(notifications))
	}
	if notifications[0].Type != entity.NotificationComment || notifications[0].Message != "Ravi commented on your post" {
		t.Errorf("notification = %+v", notifications[0])
	}
}

func TestGetUserPosts(t *testing.T) {
	svc, db := newService(t)
	asha := testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")
	ravi := testutil.CreateStudent(t, db, "ravi", "Ravi", "BSc", "Maths")
	testutil.CreatePost(t, db, asha.ID, "mine")
	testutil.CreatePost(t, db, ravi.ID, "theirs")

	got, err := svc.GetUserPosts(context.Background(), "asha")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Content != "mine" {
		t.Errorf("posts = %+v", got)
	}

	if _, err := svc.GetUserPosts(context.Background(), "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}
}
