package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	userDto "github.com/SahilxSingh/EduConnect/internal/modules/user/dto"
	"github.com/SahilxSingh/EduConnect/internal/modules/user/repository"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// Directory resolves external identity ids and builds user summaries. Every
// module that shows people depends on it instead of the user tables.
type Directory interface {
	Resolve(ctx context.Context, externalID string) (*entity.User, error)
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]dto.UserSummary, error)
}

type UserService interface {
	Directory
	Register(ctx context.Context, req userDto.RegisterRequest) error
	GetUser(ctx context.Context, viewerID, externalID string) (*userDto.UserResponse, error)
	UpdateProfile(ctx context.Context, externalID string, req userDto.UpdateProfileRequest) (*userDto.UserResponse, error)
	ListTeachers(ctx context.Context) ([]userDto.TeacherResponse, error)
}

type userService struct {
	repo      repository.UserRepository
	sanitizer *bluemonday.Policy
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

var errMissingRegistration = apperror.BadRequest("Missing required registration fields")

func (s *userService) Register(ctx context.Context, req userDto.RegisterRequest) error {
	clerkID := strings.TrimSpace(req.UserID)
	email := strings.TrimSpace(req.Email)
	role := strings.TrimSpace(req.Role)
	if clerkID == "" || email == "" || role == "" {
		return errMissingRegistration
	}
	if role != entity.RoleStudent && role != entity.RoleTeacher {
		return apperror.BadRequest("role must be one of: Student Teacher")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = emailLocalPart(email)
	}

	_, err := s.repo.Register(ctx, repository.Registration{
		ClerkID: clerkID,
		Email:   email,
		Name:    name,
		Role:    role,
		Course:  strings.TrimSpace(req.Course),
		Major:   strings.TrimSpace(req.Major),
	})
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

func (s *userService) Resolve(ctx context.Context, externalID string) (*entity.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apperror.BadRequest("user id is required")
	}

	user, err := s.repo.FindByClerkID(ctx, externalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *userService) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]dto.UserSummary, error) {
	unique := uniqueIDs(ids)
	summaries := make(map[uuid.UUID]dto.UserSummary, len(unique))
	if len(unique) == 0 {
		return summaries, nil
	}

	users, err := s.repo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load user summaries: %w", err)
	}

	for i := range users {
		summaries[users[i].ID] = Summary(&users[i])
	}
	return summaries, nil
}

// Summary builds the public view of a user with its profile loaded.
func Summary(u *entity.User) dto.UserSummary {
	var username *string
	if u.Profile != nil {
		username = u.Profile.Username
	}
	return dto.UserSummary{
		UserID:   u.ClerkID,
		Email:    u.Email,
		Name:     displayName(u, "User"),
		Username: username,
	}
}

func (s *userService) GetUser(ctx context.Context, viewerID, externalID string) (*userDto.UserResponse, error) {
	user, err := s.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)

	if viewerID != "" && viewerID != user.ClerkID {
		viewer, err := s.Resolve(ctx, viewerID)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		if viewer != nil {
			resp.IsFollowing, err = s.repo.IsFollowing(ctx, viewer.ID, user.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check follow state: %w", err)
			}
		}
	}

	return resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, externalID string, req userDto.UpdateProfileRequest) (*userDto.UserResponse, error) {
	user, err := s.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if req.Subjects != nil && user.Role != entity.RoleTeacher {
		return nil, apperror.Forbidden("only teachers have subjects")
	}

	updates := map[string]any{}
	if req.Username != nil {
		username := s.plainText(*req.Username)
		if username == "" {
			updates["username"] = nil
		} else {
			updates["username"] = username
		}
	}
	if req.Name != nil {
		updates["name"] = s.plainText(*req.Name)
	}
	if req.Bio != nil {
		updates["bio"] = s.plainText(*req.Bio)
	}

	if err := s.repo.UpdateProfile(ctx, user.ID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("profile not found")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if req.Subjects != nil {
		subjects := make([]string, 0, len(*req.Subjects))
		for _, subject := range *req.Subjects {
			if subject = strings.TrimSpace(subject); subject != "" {
				subjects = append(subjects, subject)
			}
		}
		if err := s.repo.UpsertSubjects(ctx, user.ID, subjects); err != nil {
			return nil, fmt.Errorf("failed to update subjects: %w", err)
		}
	}

	return s.GetUser(ctx, "", externalID)
}

func (s *userService) ListTeachers(ctx context.Context) ([]userDto.TeacherResponse, error) {
	users, err := s.repo.ListByRole(ctx, entity.RoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}

	teachers := make([]userDto.TeacherResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		resp := userDto.TeacherResponse{
			ID:       u.ClerkID,
			Email:    u.Email,
			Role:     u.Role,
			Name:     displayName(u, "Teacher"),
			Subjects: []string{},
		}
		if u.Profile != nil {
			resp.Username = u.Profile.Username
		}
		if u.Teacher != nil && u.Teacher.Subjects != nil {
			resp.Subjects = []string(u.Teacher.Subjects)
		}
		teachers = append(teachers, resp)
	}
	return teachers, nil
}

// plainText strips tags from profile fields; entities are decoded back so
// names like "O'Neil" survive.
func (s *userService) plainText(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(value)))
}

func toUserResponse(u *entity.User) *userDto.UserResponse {
	resp := &userDto.UserResponse{
		ID:        u.ID.String(),
		UserID:    u.ClerkID,
		Email:     u.Email,
		Role:      u.Role,
		Subjects:  []string{},
		CreatedAt: u.CreatedAt,
	}
	if p := u.Profile; p != nil {
		resp.Username = p.Username
		resp.Name = p.Name
		resp.Bio = p.Bio
		resp.FollowersCount = p.FollowersCount
		resp.FollowingCount = p.FollowingCount
	}
	if st := u.Student; st != nil {
		resp.Course = &st.Course
		resp.Major = &st.Major
	}
	if t := u.Teacher; t != nil && t.Subjects != nil {
		resp.Subjects = []string(t.Subjects)
	}
	return resp
}

// displayName falls back from profile name to username to the email local part.
func displayName(u *entity.User, fallback string) string {
	if p := u.Profile; p != nil {
		if name := strings.TrimSpace(p.Name); name != "" {
			return name
		}
		if p.Username != nil && strings.TrimSpace(*p.Username) != "" {
			return *p.Username
		}
	}
	if local := emailLocalPart(u.Email); local != "" {
		return local
	}
	return fallback
}

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return strings.TrimSpace(local)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
