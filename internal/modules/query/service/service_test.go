package query

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	notifRepo "github.com/SahilxSingh/EduConnect/internal/modules/notification/repository"
	notifService "github.com/SahilxSingh/EduConnect/internal/modules/notification/service"
	queryDto "github.com/SahilxSingh/EduConnect/internal/modules/query/dto"
	queryRepo "github.com/SahilxSingh/EduConnect/internal/modules/query/repository"
	userRepo "github.com/SahilxSingh/EduConnect/internal/modules/user/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/internal/testutil"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func newService(t *testing.T) (QueryService, *gorm.DB) {
	db := testutil.NewDB(t)
	users := userService.NewUserService(userRepo.NewUserRepository(db))
	notifier := notifService.NewNotificationService(notifRepo.NewNotificationRepository(db), users, nil, zerolog.Nop())
	return NewQueryService(queryRepo.NewQueryRepository(db), users, notifier, zerolog.Nop()), db
}

func TestQueryLifecycle(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	rao := testutil.CreateTeacher(t, db, "rao", "Dr. Rao", "Physics")
	asha := testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Physics")
	testutil.CreateTeacher(t, db, "mehta", "Ms. Mehta")

	if _, err := svc.Submit(ctx, "asha", queryDto.SubmitQueryRequest{TeacherID: "rao", QueryText: "  "}); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("empty text err = %v, want ErrBadRequest", err)
	}

	q, err := svc.Submit(ctx, "asha", queryDto.SubmitQueryRequest{TeacherID: "rao", QueryText: "Why is the sky blue?"})
	if err != nil {
		t.Fatal(err)
	}
	if q.Answered {
		t.Fatal("new query should be unanswered")
	}

	inbox, err := svc.ListForTeacher(ctx, "rao")
	if err != nil {
		t.Fatal(err)
	}
	if len(inbox) != 1 || inbox[0].Student == nil || inbox[0].Student.UserID != "asha" {
		t.Fatalf("inbox = %+v", inbox)
	}

	if _, err := svc.Answer(ctx, "mehta", q.ID, queryDto.AnswerRequest{Answer: "Rayleigh"}); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("other teacher err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Answer(ctx, "rao", q.ID, queryDto.AnswerRequest{Answer: " "}); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("empty answer err = %v, want ErrBadRequest", err)
	}

	answered, err := svc.Answer(ctx, "rao", q.ID, queryDto.AnswerRequest{Answer: "Rayleigh scattering"})
	if err != nil {
		t.Fatal(err)
	}
	if !answered.Answered || answered.AnsweredAt == nil || *answered.Answer != "Rayleigh scattering" {
		t.Errorf("answered = %+v", answered)
	}

	if _, err := svc.Answer(ctx, "rao", q.ID, queryDto.AnswerRequest{Answer: "again"}); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second answer err = %v, want ErrConflict", err)
	}

	mine, err := svc.ListForStudent(ctx, "asha")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].TeacherName != "Dr. Rao" || *mine[0].Answer != "Rayleigh scattering" {
		t.Fatalf("student list = %+v", mine)
	}

	var kinds []string
	db.Model(&entity.Notification{}).Order("created_at ASC").Pluck("type", &kinds)
	if len(kinds) != 2 || kinds[0] != entity.NotificationQuery || kinds[1] != entity.NotificationAnswer {
		t.Errorf("notification types = %v", kinds)
	}
	var toStudent int64
	db.Model(&entity.Notification{}).Where("user_id = ?", asha.ID).Count(&toStudent)
	var toTeacher int64
	db.Model(&entity.Notification{}).Where("user_id = ?", rao.ID).Count(&toTeacher)
	if toStudent != 1 || toTeacher != 1 {
		t.Errorf("notifications student=%d teacher=%d, want 1/1", toStudent, toTeacher)
	}
}

func TestSubmitRequiresStudentAndTeacher(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	testutil.CreateTeacher(t, db, "rao", "Dr. Rao")
	testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Physics")
	testutil.CreateStudent(t, db, "ravi", "Ravi", "BSc", "Physics")

	if _, err := svc.Submit(ctx, "rao", queryDto.SubmitQueryRequest{TeacherID: "rao", QueryText: "q"}); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("teacher asking err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Submit(ctx, "asha", queryDto.SubmitQueryRequest{TeacherID: "ravi", QueryText: "q"}); !errors.Is(err, apperror.ErrBadRequest) {
		t.Errorf("student target err = %v, want ErrBadRequest", err)
	}
	if _, err := svc.Submit(ctx, "asha", queryDto.SubmitQueryRequest{TeacherID: "ghost", QueryText: "q"}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("unknown teacher err = %v, want ErrNotFound", err)
	}
}

func TestConditionalAnswerHasOneWinner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := queryRepo.NewQueryRepository(db)
	rao := testutil.CreateTeacher(t, db, "rao", "Dr. Rao")
	asha := testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Physics")

	q := &entity.Query{StudentID: asha.ID, TeacherID: rao.ID, QueryText: "q"}
	if err := repo.Create(context.Background(), q); err != nil {
		t.Fatal(err)
	}

	var (
		mu   sync.Mutex
		wins int
		wg   sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			won, err := repo.Answer(context.Background(), q.ID, "a", time.Now())
			if err != nil {
				t.Error(err)
				return
			}
			if won {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
}
