package notice

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	noticeDto "github.com/SahilxSingh/EduConnect/internal/modules/notice/dto"
	noticeRepo "github.com/SahilxSingh/EduConnect/internal/modules/notice/repository"
	searchService "github.com/SahilxSingh/EduConnect/internal/modules/search/service"
	userService "github.com/SahilxSingh/EduConnect/internal/modules/user/service"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

type NoticeService interface {
	List(ctx context.Context, filter noticeDto.NoticeFilter) ([]noticeDto.NoticeResponse, error)
	Create(ctx context.Context, actorID string, req noticeDto.CreateNoticeRequest) (*noticeDto.NoticeResponse, error)
	// Import stores a notice pulled from an external feed. Already imported
	// sources are skipped and reported as not created.
	Import(ctx context.Context, notice *entity.Notice) (bool, error)
}

type noticeService struct {
	repo      noticeRepo.NoticeRepository
	users     userService.Directory
	indexer   searchService.Indexer
	sanitizer *bluemonday.Policy
	log       zerolog.Logger
}

func NewNoticeService(repo noticeRepo.NoticeRepository, users userService.Directory, indexer searchService.Indexer, log zerolog.Logger) NoticeService {
	return &noticeService{
		repo:      repo,
		users:     users,
		indexer:   indexer,
		sanitizer: bluemonday.UGCPolicy(),
		log:       log,
	}
}

func (s *noticeService) List(ctx context.Context, filter noticeDto.NoticeFilter) ([]noticeDto.NoticeResponse, error) {
	page := filter.Normalize(50)
	notices, err := s.repo.List(ctx, filter.Type, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load notices: %w", err)
	}

	authorIDs := make([]uuid.UUID, 0, len(notices))
	for _, n := range notices {
		if n.AuthorID != nil {
			authorIDs = append(authorIDs, *n.AuthorID)
		}
	}
	authors, err := s.users.Summaries(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}

	out := make([]noticeDto.NoticeResponse, 0, len(notices))
	for _, n := range notices {
		resp := toResponse(n)
		if n.AuthorID != nil {
			if a, ok := authors[*n.AuthorID]; ok {
				resp.Author = &a
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *noticeService) Create(ctx context.Context, actorID string, req noticeDto.CreateNoticeRequest) (*noticeDto.NoticeResponse, error) {
	title := strings.TrimSpace(req.Title)
	content := s.plainText(req.Content)
	if title == "" || content == "" {
		return nil, apperror.BadRequest("title and content are required")
	}

	noticeType := strings.TrimSpace(req.Type)
	if noticeType == "" {
		noticeType = entity.NoticeTypeNotice
	}
	if noticeType != entity.NoticeTypeNotice && noticeType != entity.NoticeTypeEvent {
		return nil, apperror.BadRequest("type must be one of: Notice Event")
	}

	author, err := s.users.Resolve(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if author.Role != entity.RoleTeacher {
		return nil, apperror.Forbidden("only teachers can publish notices")
	}

	notice := &entity.Notice{
		AuthorID: &author.ID,
		Type:     noticeType,
		Title:    title,
		Content:  content,
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		return nil, fmt.Errorf("failed to create notice: %w", err)
	}
	s.index(notice)

	resp := toResponse(*notice)
	if summaries, err := s.users.Summaries(ctx, []uuid.UUID{author.ID}); err == nil {
		if a, ok := summaries[author.ID]; ok {
			resp.Author = &a
		}
	}
	return &resp, nil
}

func (s *noticeService) Import(ctx context.Context, notice *entity.Notice) (bool, error) {
	notice.Title = strings.TrimSpace(notice.Title)
	notice.Content = s.plainText(notice.Content)
	if notice.Title == "" || notice.SourceURL == nil {
		return false, apperror.BadRequest("imported notice needs a title and source url")
	}
	if notice.Type == "" {
		notice.Type = entity.NoticeTypeNotice
	}

	created, err := s.repo.CreateFromSource(ctx, notice)
	if err != nil {
		return false, fmt.Errorf("failed to import notice: %w", err)
	}
	if created {
		s.index(notice)
	}
	return created, nil
}

func (s *noticeService) plainText(content string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(content)))
}

func (s *noticeService) index(notice *entity.Notice) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexNotice(notice); err != nil {
		s.log.Warn().Err(err).Str("notice_id", notice.ID.String()).Msg("notice indexing failed")
	}
}

func toResponse(n entity.Notice) noticeDto.NoticeResponse {
	return noticeDto.NoticeResponse{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Content:     n.Content,
		SourceURL:   n.SourceURL,
		PublishedAt: n.PublishedAt,
	}
}
