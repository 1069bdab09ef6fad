package assignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	assignmentDto "github.com/SahilxSingh/EduConnect/internal/modules/assignment/dto"
	assignmentRepo "github.com/SahilxSingh/EduConnect/internal/modules/assignment/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roster lists the students enrolled in a programme.
type Roster interface {
	FindStudentsByProgramme(ctx context.Context, course, major string) ([]entity.Student, error)
}

// Reminder is a student who has not yet submitted an assignment that is due soon.
type Reminder struct {
	Assignment entity.Assignment
	StudentID  uuid.UUID
}

type AssignmentService interface {
	Create(ctx context.Context, req assignmentDto.CreateAssignmentRequest) error
	ListForTeacher(ctx context.Context, teacherID string) ([]assignmentDto.AssignmentResponse, error)
	ListForStudent(ctx context.Context, actorID string) ([]assignmentDto.StudentAssignmentResponse, error)
	Submit(ctx context.Context, actorID string, assignmentID uuid.UUID, req assignmentDto.SubmitRequest) (*assignmentDto.SubmissionResponse, error)
	ListSubmissions(ctx context.Context, assignmentID uuid.UUID) ([]assignmentDto.SubmissionResponse, error)
	PendingReminders(ctx context.Context, now time.Time, window time.Duration) ([]Reminder, error)
}

type assignmentService struct {
	repo   assignmentRepo.AssignmentRepository
	users  userService.Directory
	roster Roster
}

func NewAssignmentService(repo assignmentRepo.AssignmentRepository, users userService.Directory, roster Roster) AssignmentService {
	return &assignmentService{repo: repo, users: users, roster: roster}
}

// dueDateLayouts are tried in order; the last two are what HTML date inputs send.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.BadRequest("dueDate must be a date, e.g. 2025-01-31 or 2025-01-31T23:59:00Z")
}

func (s *assignmentService) Create(ctx context.Context, req assignmentDto.CreateAssignmentRequest) error {
	teacherID := strings.TrimSpace(req.TeacherID)
	course := strings.TrimSpace(req.Course)
	major := strings.TrimSpace(req.Major)
	title := strings.TrimSpace(req.Title)
	details := strings.TrimSpace(req.Details)
	dueDate := strings.TrimSpace(req.DueDate)
	if teacherID == "" || course == "" || major == "" || title == "" || details == "" || dueDate == "" {
		return apperror.BadRequest("Missing required assignment fields")
	}

	due, err := parseDueDate(dueDate)
	if err != nil {
		return err
	}

	teacher, err := s.users.Resolve(ctx, teacherID)
	if err != nil {
		return err
	}
	if teacher.Role != entity.RoleTeacher {
		return apperror.Forbidden("only teachers can create assignments")
	}

	assignment := &entity.Assignment{
		TeacherID: teacher.ID,
		Course:    course,
		Major:     major,
		Title:     title,
		Details:   details,
		DueDate:   due,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (s *assignmentService) ListForTeacher(ctx context.Context, teacherID string) ([]assignmentDto.AssignmentResponse, error) {
	if strings.TrimSpace(teacherID) == "" {
		return nil, apperror.BadRequest("Missing teacherId")
	}

	teacher, err := s.users.Resolve(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	out := make([]assignmentDto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, toResponse(a))
	}
	return out, nil
}

// ListForStudent returns the assignments of the student's programme. A
// student without a course and major has nothing assigned.
func (s *assignmentService) ListForStudent(ctx context.Context, actorID string) ([]assignmentDto.StudentAssignmentResponse, error) {
	user, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	out := []assignmentDto.StudentAssignmentResponse{}
	if user.Student == nil || user.Student.Course == "" || user.Student.Major == "" {
		return out, nil
	}

	assignments, err := s.repo.ListByProgramme(ctx, user.Student.Course, user.Student.Major)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	if len(assignments) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(assignments))
	teacherIDs := make([]uuid.UUID, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
		teacherIDs[i] = a.TeacherID
	}

	submittedIDs, err := s.repo.SubmittedAssignmentIDs(ctx, user.ID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}
	submitted := make(map[uuid.UUID]bool, len(submittedIDs))
	for _, id := range submittedIDs {
		submitted[id] = true
	}

	teachers, err := s.users.Summaries(ctx, teacherIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load teachers: %w", err)
	}

	for _, a := range assignments {
		resp := assignmentDto.StudentAssignmentResponse{
			AssignmentResponse: toResponse(a),
			Submitted:          submitted[a.ID],
		}
		if t, ok := teachers[a.TeacherID]; ok {
			resp.Teacher = &t
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *assignmentService) Submit(ctx context.Context, actorID string, assignmentID uuid.UUID, req assignmentDto.SubmitRequest) (*assignmentDto.SubmissionResponse, error) {
	details := strings.TrimSpace(req.SubmissionDetails)
	if details == "" {
		return nil, apperror.BadRequest("submissionDetails is required")
	}

	student, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if student.Role != entity.RoleStudent {
		return nil, apperror.Forbidden("only students can submit assignments")
	}

	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("assignment not found")
		}
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}

	submission := &entity.Submission{
		AssignmentID:      assignment.ID,
		StudentID:         student.ID,
		SubmissionDetails: details,
		SubmittedAt:       time.Now(),
	}
	if err := s.repo.UpsertSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to submit assignment: %w", err)
	}

	return &assignmentDto.SubmissionResponse{
		ID:                submission.ID,
		SubmissionDetails: submission.SubmissionDetails,
		SubmittedAt:       submission.SubmittedAt,
		StudentID:         student.ClerkID,
	}, nil
}

func (s *assignmentService) ListSubmissions(ctx context.Context, assignmentID uuid.UUID) ([]assignmentDto.SubmissionResponse, error) {
	if assignmentID == uuid.Nil {
		return nil, apperror.BadRequest("Missing assignmentId")
	}

	submissions, err := s.repo.ListSubmissions(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	studentIDs := make([]uuid.UUID, len(submissions))
	for i, sub := range submissions {
		studentIDs[i] = sub.StudentID
	}
	students, err := s.users.Summaries(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	out := make([]assignmentDto.SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		resp := assignmentDto.SubmissionResponse{
			ID:                sub.ID,
			SubmissionDetails: sub.SubmissionDetails,
			SubmittedAt:       sub.SubmittedAt,
		}
		if st, ok := students[sub.StudentID]; ok {
			resp.StudentID = st.UserID
			resp.Student = &st
		}
		out = append(out, resp)
	}
	return out, nil
}

// PendingReminders lists, for every assignment due within window of now, the
// enrolled students who have not submitted it.
func (s *assignmentService) PendingReminders(ctx context.Context, now time.Time, window time.Duration) ([]Reminder, error) {
	assignments, err := s.repo.ListDueBetween(ctx, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("failed to load due assignments: %w", err)
	}

	var reminders []Reminder
	for _, a := range assignments {
		students, err := s.roster.FindStudentsByProgramme(ctx, a.Course, a.Major)
		if err != nil {
			return nil, fmt.Errorf("failed to load students: %w", err)
		}
		done, err := s.repo.SubmittedStudentIDs(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load submissions: %w", err)
		}
		submitted := make(map[uuid.UUID]bool, len(done))
		for _, id := range done {
			submitted[id] = true
		}

		for _, st := range students {
			if !submitted[st.UserID] {
				reminders = append(reminders, Reminder{Assignment: a, StudentID: st.UserID})
			}
		}
	}
	return reminders, nil
}

func toResponse(a entity.Assignment) assignmentDto.AssignmentResponse {
	return assignmentDto.AssignmentResponse{
		ID:        a.ID,
		Title:     a.Title,
		Details:   a.Details,
		DueDate:   a.DueDate,
		Course:    a.Course,
		Major:     a.Major,
		CreatedAt: a.CreatedAt,
	}
}
