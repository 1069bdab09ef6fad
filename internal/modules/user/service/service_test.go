package service

import (
	"context"
	"errors"
	"testing"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	userDto "github.com/SahilxSingh/EduConnect/internal/modules/user/dto"
	"github.com/SahilxSingh/EduConnect/internal/modules/user/repository"
	"github.com/SahilxSingh/EduConnect/internal/testutil"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newService(t *testing.T) (UserService, *gorm.DB) {
	db := testutil.NewDB(t)
	return NewUserService(repository.NewUserRepository(db)), db
}

func TestRegisterIsIdempotent(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	req := userDto.RegisterRequest{
		UserID: "user_1",
		Email:  "asha@college.test",
		Name:   "  Asha  ",
		Role:   entity.RoleStudent,
		Course: " B.Tech ",
		Major:  " CSE ",
	}
	for i := 0; i < 2; i++ {
		if err := svc.Register(ctx, req); err != nil {
			t.Fatalf("Register #%d error = %v", i+1, err)
		}
	}

	var users int64
	db.Model(&entity.User{}).Where("clerk_id = ?", "user_1").Count(&users)
	if users != 1 {
		t.Fatalf("user rows = %d, want 1", users)
	}

	got, err := svc.GetUser(ctx, "", "user_1")
	if err != nil {
		t.Fatalf("GetUser error = %v", err)
	}
	if got.Name != "Asha" {
		t.Errorf("Name = %q, want Asha", got.Name)
	}
	if got.Course == nil || *got.Course != "B.Tech" || got.Major == nil || *got.Major != "CSE" {
		t.Errorf("course/major = %v/%v, want trimmed values", got.Course, got.Major)
	}
}

func TestRegisterKeepsStoredRole(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if err := svc.Register(ctx, userDto.RegisterRequest{UserID: "t1", Email: "rao@college.test", Role: entity.RoleTeacher}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Register(ctx, userDto.RegisterRequest{UserID: "t1", Email: "rao@college.test", Role: entity.RoleStudent}); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetUser(ctx, "", "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Role != entity.RoleTeacher {
		t.Errorf("Role = %q, want Teacher", got.Role)
	}
	if got.Name != "rao" {
		t.Errorf("Name = %q, want email local part", got.Name)
	}
	if got.Subjects == nil || len(got.Subjects) != 0 {
		t.Errorf("Subjects = %v, want empty list", got.Subjects)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newService(t)

	tests := []struct {
		name string
		req  userDto.RegisterRequest
		want string
	}{
		{"missing id", userDto.RegisterRequest{Email: "a@b.c", Role: entity.RoleStudent}, "Missing required registration fields"},
		{"missing email", userDto.RegisterRequest{UserID: "u", Role: entity.RoleStudent}, "Missing required registration fields"},
		{"missing role", userDto.RegisterRequest{UserID: "u", Email: "a@b.c"}, "Missing required registration fields"},
		{"unknown role", userDto.RegisterRequest{UserID: "u", Email: "a@b.c", Role: "Admin"}, "role must be one of: Student Teacher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(context.Background(), tt.req)
			if apperror.MapErrorToStatus(err) != 400 {
				t.Fatalf("status = %d, want 400 (err=%v)", apperror.MapErrorToStatus(err), err)
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestResolveUnknownUserIsNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Resolve(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSummariesFallbacks(t *testing.T) {
	svc, db := newService(t)
	named := testutil.CreateStudent(t, db, "named", "Meera", "BSc", "Physics")
	unnamed := testutil.CreateStudent(t, db, "unnamed", "", "BSc", "Physics")

	got, err := svc.Summaries(context.Background(), []uuid.UUID{named.ID, unnamed.ID, named.ID, uuid.Nil})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[named.ID].Name != "Meera" || got[named.ID].UserID != "named" {
		t.Errorf("named summary = %+v", got[named.ID])
	}
	if got[unnamed.ID].Name != "unnamed" {
		t.Errorf("unnamed summary name = %q, want email local part", got[unnamed.ID].Name)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()
	testutil.CreateTeacher(t, db, "teacher", "Dr. Rao")
	testutil.CreateStudent(t, db, "student", "Asha", "BSc", "Maths")

	username := "drrao"
	bio := "<b>Physics</b> faculty"
	subjects := []string{" Physics ", "", "Optics"}
	got, err := svc.UpdateProfile(ctx, "teacher", userDto.UpdateProfileRequest{Username: &username, Bio: &bio, Subjects: &subjects})
	if err != nil {
		t.Fatalf("UpdateProfile error = %v", err)
	}
	if got.Username == nil || *got.Username != "drrao" {
		t.Errorf("Username = %v", got.Username)
	}
	if got.Bio == nil || *got.Bio != "Physics faculty" {
		t.Errorf("Bio = %v, want sanitised text", got.Bio)
	}
	if len(got.Subjects) != 2 || got.Subjects[0] != "Physics" {
		t.Errorf("Subjects = %v", got.Subjects)
	}

	_, err = svc.UpdateProfile(ctx, "student", userDto.UpdateProfileRequest{Subjects: &subjects})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("student subjects err = %v, want ErrForbidden", err)
	}
}

func TestUpdateProfileKeepsPunctuation(t *testing.T) {
	svc, db := newService(t)
	testutil.CreateStudent(t, db, "student", "Asha", "BSc", "Maths")

	name := "Asha O'Neil"
	bio := `I don't get "limits" & x < 5`
	got, err := svc.UpdateProfile(context.Background(), "student", userDto.UpdateProfileRequest{Name: &name, Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateProfile error = %v", err)
	}
	if got.Name != name {
		t.Errorf("Name = %q, want %q", got.Name, name)
	}
	if got.Bio == nil || *got.Bio != bio {
		t.Errorf("Bio = %v, want %q", got.Bio, bio)
	}
}

func TestListTeachers(t *testing.T) {
	svc, db := newService(t)
	testutil.CreateTeacher(t, db, "t-a", "Anand", "Maths")
	testutil.CreateTeacher(t, db, "t-b", "")
	testutil.CreateStudent(t, db, "s-a", "Asha", "BSc", "Maths")

	got, err := svc.ListTeachers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "t-a" || got[0].Name != "Anand" || len(got[0].Subjects) != 1 {
		t.Errorf("first teacher = %+v", got[0])
	}
	if got[1].Name != "t-b" {
		t.Errorf("second teacher name = %q, want email local part", got[1].Name)
	}
}
