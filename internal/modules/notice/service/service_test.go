package notice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	noticeDto "github.com/SahilxSingh/EduConnect/internal/modules/notice/dto"
	noticeRepo "github.com/SahilxSingh/EduConnect/internal/modules/notice/repository"
	userRepo "github.com/SahilxSingh/EduConnect/internal/modules/user/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/internal/testutil"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/rs/zerolog"
)

type recordingIndexer struct {
	notices []string
}

func (r *recordingIndexer) IndexPost(*entity.Post, dto.UserSummary) error { return nil }

func (r *recordingIndexer) IndexNotice(n *entity.Notice) error {
	r.notices = append(r.notices, n.Title)
	return nil
}

func TestCreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	indexer := &recordingIndexer{}
	svc := NewNoticeService(noticeRepo.NewNoticeRepository(db), userService.NewUserService(userRepo.NewUserRepository(db)), indexer, zerolog.Nop())
	testutil.CreateTeacher(t, db, "rao", "Dr. Rao")
	testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Physics")
	ctx := context.Background()

	if _, err := svc.Create(ctx, "asha", noticeDto.CreateNoticeRequest{Title: "t", Content: "c"}); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("student create err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Create(ctx, "rao", noticeDto.CreateNoticeRequest{Title: "t", Content: "c", Type: "Memo"}); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("bad type err = %v, want ErrBadRequest", err)
	}

	first, err := svc.Create(ctx, "rao", noticeDto.CreateNoticeRequest{Title: "Holiday", Content: "Campus closed"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Type != entity.NoticeTypeNotice {
		t.Errorf("default type = %q", first.Type)
	}
	db.Model(&entity.Notice{}).Where("id = ?", first.ID).Update("published_at", time.Now().Add(-time.Hour))

	if _, err := svc.Create(ctx, "rao", noticeDto.CreateNoticeRequest{Title: "Fest", Content: "Annual fest", Type: "Event"}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx, noticeDto.NoticeFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Title != "Fest" || all[1].Title != "Holiday" {
		t.Fatalf("list = %+v", all)
	}
	if all[0].Author == nil || all[0].Author.Name != "Dr. Rao" {
		t.Errorf("author = %+v", all[0].Author)
	}

	events, _ := svc.List(ctx, noticeDto.NoticeFilter{Type: entity.NoticeTypeEvent})
	if len(events) != 1 {
		t.Errorf("events = %d, want 1", len(events))
	}
	if len(indexer.notices) != 2 {
		t.Errorf("indexed = %v", indexer.notices)
	}
}

func TestImportSkipsKnownSources(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNoticeService(noticeRepo.NewNoticeRepository(db), userService.NewUserService(userRepo.NewUserRepository(db)), nil, zerolog.Nop())
	ctx := context.Background()
	src := "https://college.example/notices/42"

	created, err := svc.Import(ctx, &entity.Notice{Title: "Results", Content: "<p>Out now</p>", SourceURL: &src})
	if err != nil || !created {
		t.Fatalf("first import = %v, %v", created, err)
	}
	created, err = svc.Import(ctx, &entity.Notice{Title: "Results", Content: "again", SourceURL: &src})
	if err != nil || created {
		t.Fatalf("second import = %v, %v; want skipped", created, err)
	}

	list, _ := svc.List(ctx, noticeDto.NoticeFilter{})
	if len(list) != 1 || list[0].Author != nil || list[0].SourceURL == nil {
		t.Fatalf("list = %+v", list)
	}
}

func TestNoticeTextIsStoredUnescaped(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewNoticeService(noticeRepo.NewNoticeRepository(db), userService.NewUserService(userRepo.NewUserRepository(db)), nil, zerolog.Nop())
	testutil.CreateTeacher(t, db, "rao", "Dr. Rao")
	ctx := context.Background()

	content := `Lab won't open "early" & seats < 5`
	if _, err := svc.Create(ctx, "rao", noticeDto.CreateNoticeRequest{Title: "Lab", Content: content}); err != nil {
		t.Fatal(err)
	}
	src := "https://college.example/notices/7"
	if _, err := svc.Import(ctx, &entity.Notice{Title: "Fees", Content: "Fees & fines don't change", SourceURL: &src}); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx, noticeDto.NoticeFilter{})
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, n := range list {
		got[n.Title] = n.Content
	}
	if got["Lab"] != content {
		t.Errorf("created content = %q, want %q", got["Lab"], content)
	}
	if got["Fees"] != "Fees & fines don't change" {
		t.Errorf("imported content = %q", got["Fees"])
	}
}
