package repository

import (
	"context"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *entity.Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]entity.Assignment, error)
	// ListByProgramme matches course and major case-insensitively.
	ListByProgramme(ctx context.Context, course, major string) ([]entity.Assignment, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]entity.Assignment, error)
	UpsertSubmission(ctx context.Context, submission *entity.Submission) error
	ListSubmissions(ctx context.Context, assignmentID uuid.UUID) ([]entity.Submission, error)
	SubmittedAssignmentIDs(ctx context.Context, studentID uuid.UUID, assignmentIDs []uuid.UUID) ([]uuid.UUID, error)
	SubmittedStudentIDs(ctx context.Context, assignmentID uuid.UUID) ([]uuid.UUID, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *entity.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	var assignment entity.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]entity.Assignment, error) {
	var assignments []entity.Assignment
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) ListByProgramme(ctx context.Context, course, major string) ([]entity.Assignment, error) {
	var assignments []entity.Assignment
	err := r.db.WithContext(ctx).
		Where("LOWER(course) = LOWER(?) AND LOWER(major) = LOWER(?)", course, major).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]entity.Assignment, error) {
	var assignments []entity.Assignment
	err := r.db.WithContext(ctx).
		Where("due_date > ? AND due_date <= ?", from, to).
		Order("due_date ASC").
		Find(&assignments).Error
	return assignments, err
}

// UpsertSubmission replaces the details of an earlier submission by the
// same student.
func (r *assignmentRepository) UpsertSubmission(ctx context.Context, submission *entity.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "assignment_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"submission_details", "submitted_at"}),
		}).Create(submission).Error; err != nil {
			return err
		}
		// on conflict the stored row keeps its original id
		var stored entity.Submission
		if err := tx.Where("assignment_id = ? AND student_id = ?", submission.AssignmentID, submission.StudentID).
			First(&stored).Error; err != nil {
			return err
		}
		*submission = stored
		return nil
	})
}

func (r *assignmentRepository) ListSubmissions(ctx context.Context, assignmentID uuid.UUID) ([]entity.Submission, error) {
	var submissions []entity.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *assignmentRepository) SubmittedAssignmentIDs(ctx context.Context, studentID uuid.UUID, assignmentIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(assignmentIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&entity.Submission{}).
		Where("student_id = ? AND assignment_id IN ?", studentID, assignmentIDs).
		Pluck("assignment_id", &ids).Error
	return ids, err
}

func (r *assignmentRepository) SubmittedStudentIDs(ctx context.Context, assignmentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&entity.Submission{}).
		Where("assignment_id = ?", assignmentID).
		Pluck("student_id", &ids).Error
	return ids, err
}
