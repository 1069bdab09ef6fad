package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	notifService "github.com/SahilxSingh/EduConnect/internal/modules/notification/service"
	queryDto "github.com/SahilxSingh/EduConnect/internal/modules/query/dto"
	queryRepo "github.com/SahilxSingh/EduConnect/internal/modules/query/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type QueryService interface {
	Submit(ctx context.Context, actorID string, req queryDto.SubmitQueryRequest) (*queryDto.QueryResponse, error)
	ListForTeacher(ctx context.Context, actorID string) ([]queryDto.TeacherQueryResponse, error)
	ListForStudent(ctx context.Context, actorID string) ([]queryDto.StudentQueryResponse, error)
	Answer(ctx context.Context, actorID string, queryID uuid.UUID, req queryDto.AnswerRequest) (*queryDto.QueryResponse, error)
}

type queryService struct {
	repo     queryRepo.QueryRepository
	users    userService.Directory
	notifier notifService.Notifier
	log      zerolog.Logger
}

func NewQueryService(repo queryRepo.QueryRepository, users userService.Directory, notifier notifService.Notifier, log zerolog.Logger) QueryService {
	return &queryService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

func (s *queryService) Submit(ctx context.Context, actorID string, req queryDto.SubmitQueryRequest) (*queryDto.QueryResponse, error) {
	text := strings.TrimSpace(req.QueryText)
	if text == "" {
		return nil, apperror.BadRequest("queryText is required")
	}
	if strings.TrimSpace(req.TeacherID) == "" {
		return nil, apperror.BadRequest("teacherId is required")
	}

	student, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if student.Role != entity.RoleStudent {
		return nil, apperror.Forbidden("only students can ask teachers")
	}

	teacher, err := s.users.Resolve(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != entity.RoleTeacher {
		return nil, apperror.BadRequest("teacherId must name a teacher")
	}

	query := &entity.Query{
		StudentID: student.ID,
		TeacherID: teacher.ID,
		QueryText: text,
	}
	if err := s.repo.Create(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to submit query: %w", err)
	}

	s.notify(ctx, &entity.Notification{
		UserID:     teacher.ID,
		ActorID:    &student.ID,
		EntityID:   query.ID,
		EntityType: "query",
		Type:       entity.NotificationQuery,
		Message:    fmt.Sprintf("%s asked you a question", s.nameOf(ctx, student.ID, "A student")),
	})

	resp := toResponse(*query)
	return &resp, nil
}

func (s *queryService) ListForTeacher(ctx context.Context, actorID string) ([]queryDto.TeacherQueryResponse, error) {
	teacher, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	queries, err := s.repo.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load queries: %w", err)
	}

	studentIDs := make([]uuid.UUID, len(queries))
	for i, q := range queries {
		studentIDs[i] = q.StudentID
	}
	students, err := s.users.Summaries(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	out := make([]queryDto.TeacherQueryResponse, 0, len(queries))
	for _, q := range queries {
		resp := queryDto.TeacherQueryResponse{QueryResponse: toResponse(q)}
		if st, ok := students[q.StudentID]; ok {
			resp.Student = &st
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *queryService) ListForStudent(ctx context.Context, actorID string) ([]queryDto.StudentQueryResponse, error) {
	student, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	queries, err := s.repo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load queries: %w", err)
	}

	teacherIDs := make([]uuid.UUID, len(queries))
	for i, q := range queries {
		teacherIDs[i] = q.TeacherID
	}
	teachers, err := s.users.Summaries(ctx, teacherIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load teachers: %w", err)
	}

	out := make([]queryDto.StudentQueryResponse, 0, len(queries))
	for _, q := range queries {
		resp := queryDto.StudentQueryResponse{
			QueryResponse: toResponse(q),
			TeacherName:   "Teacher",
		}
		if t, ok := teachers[q.TeacherID]; ok {
			resp.Teacher = &t
			resp.TeacherName = teacherName(t.Name, t.Username)
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *queryService) Answer(ctx context.Context, actorID string, queryID uuid.UUID, req queryDto.AnswerRequest) (*queryDto.QueryResponse, error) {
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return nil, apperror.BadRequest("answer is required")
	}

	teacher, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	query, err := s.repo.FindByID(ctx, queryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("query not found")
		}
		return nil, fmt.Errorf("failed to load query: %w", err)
	}
	if query.TeacherID != teacher.ID {
		return nil, apperror.Forbidden("only the addressed teacher can answer this query")
	}
	if query.Answered {
		return nil, apperror.Conflict("query already answered")
	}

	now := time.Now()
	won, err := s.repo.Answer(ctx, query.ID, answer, now)
	if err != nil {
		return nil, fmt.Errorf("failed to answer query: %w", err)
	}
	if !won {
		return nil, apperror.Conflict("query already answered")
	}

	query.Answer = &answer
	query.Answered = true
	query.AnsweredAt = &now

	s.notify(ctx, &entity.Notification{
		UserID:     query.StudentID,
		ActorID:    &teacher.ID,
		EntityID:   query.ID,
		EntityType: "query",
		Type:       entity.NotificationAnswer,
		Message:    fmt.Sprintf("%s answered your question", s.nameOf(ctx, teacher.ID, "Your teacher")),
	})

	resp := toResponse(*query)
	return &resp, nil
}

func (s *queryService) notify(ctx context.Context, n *entity.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("query_id", n.EntityID.String()).Msg("query notification failed")
	}
}

func (s *queryService) nameOf(ctx context.Context, id uuid.UUID, fallback string) string {
	summaries, err := s.users.Summaries(ctx, []uuid.UUID{id})
	if err != nil {
		return fallback
	}
	if sum, ok := summaries[id]; ok {
		return sum.Name
	}
	return fallback
}

func teacherName(name string, username *string) string {
	if name != "" {
		return name
	}
	if username != nil && *username != "" {
		return *username
	}
	return "Teacher"
}

func toResponse(q entity.Query) queryDto.QueryResponse {
	return queryDto.QueryResponse{
		ID:         q.ID,
		QueryText:  q.QueryText,
		Answer:     q.Answer,
		Answered:   q.Answered,
		CreatedAt:  q.CreatedAt,
		AnsweredAt: q.AnsweredAt,
	}
}
