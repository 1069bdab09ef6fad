// Package testutil holds fixtures shared by repository and service tests.
package testutil

import (
	"testing"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database migrated with every entity.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(entity.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateStudent inserts a student with profile and programme.
func CreateStudent(t *testing.T, db *gorm.DB, clerkID, name, course, major string) entity.User {
	t.Helper()
	user := createUser(t, db, clerkID, name, entity.RoleStudent)
	if err := db.Create(&entity.Student{UserID: user.ID, Course: course, Major: major}).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	return user
}

// CreateTeacher inserts a teacher with profile and subjects.
func CreateTeacher(t *testing.T, db *gorm.DB, clerkID, name string, subjects ...string) entity.User {
	t.Helper()
	user := createUser(t, db, clerkID, name, entity.RoleTeacher)
	if subjects == nil {
		subjects = []string{}
	}
	if err := db.Create(&entity.Teacher{UserID: user.ID, Subjects: datatypes.JSONSlice[string](subjects)}).Error; err != nil {
		t.Fatalf("create teacher: %v", err)
	}
	return user
}

func createUser(t *testing.T, db *gorm.DB, clerkID, name, role string) entity.User {
	user := entity.User{ClerkID: clerkID, Email: clerkID + "@college.test", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := db.Create(&entity.Profile{UserID: user.ID, Name: name}).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return user
}

// CreatePost inserts a post by author.
func CreatePost(t *testing.T, db *gorm.DB, authorID uuid.UUID, content string) entity.Post {
	t.Helper()
	post := entity.Post{AuthorID: authorID, Content: content}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}
