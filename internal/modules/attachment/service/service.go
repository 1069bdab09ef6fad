package attachment

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	attachmentDto "github.com/SahilxSingh/EduConnect/internal/modules/attachment/dto"
	attachmentRepo "github.com/SahilxSingh/EduConnect/internal/modules/attachment/repository"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"video/mp4":       true,
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type AttachmentService interface {
	Upload(ctx context.Context, actorID string, file *multipart.FileHeader) (*attachmentDto.UploadAttachmentResponse, error)
	ClaimForPost(ctx context.Context, fileURL string, postID, userID uuid.UUID) error
	CleanupOrphans(ctx context.Context, olderThan time.Duration) (int, error)
}

type attachmentService struct {
	repo     attachmentRepo.AttachmentRepository
	users    userService.Directory
	storage  storage.MediaStorage
	maxBytes int64
	log      zerolog.Logger
}

// NewAttachmentService builds the upload service. A nil storage turns every
// upload into a 503.
func NewAttachmentService(repo attachmentRepo.AttachmentRepository, users userService.Directory, store storage.MediaStorage, maxBytes int64, log zerolog.Logger) AttachmentService {
	return &attachmentService{
		repo:     repo,
		users:    users,
		storage:  store,
		maxBytes: maxBytes,
		log:      log,
	}
}

func (s *attachmentService) Upload(ctx context.Context, actorID string, file *multipart.FileHeader) (*attachmentDto.UploadAttachmentResponse, error) {
	if s.storage == nil {
		return nil, apperror.Unavailable("uploads are not configured")
	}

	user, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if file.Size <= 0 {
		return nil, apperror.BadRequest("file is empty")
	}
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return nil, apperror.BadRequest(fmt.Sprintf("file exceeds the %d MB limit", s.maxBytes>>20))
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	fileType := http.DetectContentType(head[:n])
	if i := strings.IndexByte(fileType, ';'); i >= 0 {
		fileType = fileType[:i]
	}
	if !allowedTypes[fileType] {
		return nil, apperror.BadRequest("unsupported file type: " + fileType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	url, err := s.storage.Upload(ctx, src, SafeFileName(file.Filename))
	if err != nil {
		return nil, apperror.New(http.StatusBadGateway, "failed to store file", err)
	}

	attachment := &entity.Attachment{
		UserID:   user.ID,
		FileURL:  url,
		FileType: fileType,
		Size:     file.Size,
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			s.log.Warn().Err(delErr).Str("url", url).Msg("failed to remove untracked upload")
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	return &attachmentDto.UploadAttachmentResponse{
		ID:       attachment.ID,
		URL:      attachment.FileURL,
		FileType: attachment.FileType,
		Size:     attachment.Size,
	}, nil
}

// ClaimForPost marks an upload as used. Media URLs that were not uploaded
// here are left alone.
func (s *attachmentService) ClaimForPost(ctx context.Context, fileURL string, postID, userID uuid.UUID) error {
	claimed, err := s.repo.ClaimForPost(ctx, fileURL, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to claim attachment: %w", err)
	}
	if !claimed {
		s.log.Debug().Str("url", fileURL).Msg("media url is not a tracked upload")
	}
	return nil
}

// CleanupOrphans removes uploads that no post claimed within olderThan.
func (s *attachmentService) CleanupOrphans(ctx context.Context, olderThan time.Duration) (int, error) {
	orphans, err := s.repo.FindOrphans(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to find orphan attachments: %w", err)
	}

	removed := 0
	for _, a := range orphans {
		if s.storage != nil {
			if err := s.storage.Delete(ctx, a.FileURL); err != nil {
				s.log.Warn().Err(err).Str("attachment_id", a.ID.String()).Msg("failed to delete orphan file")
				continue
			}
		}
		if err := s.repo.Delete(ctx, a.ID); err != nil {
			s.log.Warn().Err(err).Str("attachment_id", a.ID.String()).Msg("failed to delete orphan record")
			continue
		}
		removed++
	}
	return removed, nil
}

// SafeFileName keeps the base name of an upload and replaces anything
// outside [a-zA-Z0-9._-].
func SafeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	base = strings.Trim(unsafeName.ReplaceAllString(base, "_"), "._")
	if base == "" {
		return "upload"
	}
	return base
}
