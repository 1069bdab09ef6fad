package service

import (
	"context"
	"testing"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	statRepo "github.com/SahilxSingh/EduConnect/internal/modules/stat/repository"
	"github.com/SahilxSingh/EduConnect/internal/testutil"
)

func TestGetStats(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewStatService(statRepo.NewStatRepository(db))

	asha := testutil.CreateStudent(t, db, "asha", "Asha", "BSc", "Maths")
	testutil.CreateStudent(t, db, "ravi", "Ravi", "BSc", "Maths")
	testutil.CreateTeacher(t, db, "rao", "Dr. Rao", "Physics")
	testutil.CreatePost(t, db, asha.ID, "hello")
	if err := db.Create(&entity.Notice{Type: entity.NoticeTypeEvent, Title: "Fest", Content: "Friday"}).Error; err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{TotalUsers: 3, Students: 2, Teachers: 1, Posts: 1, Notices: 1}
	if *got != want {
		t.Errorf("stats = %+v, want %+v", *got, want)
	}
}
