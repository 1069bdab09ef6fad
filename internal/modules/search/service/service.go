package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/SahilxSingh/EduConnect/internal/entity"
	searchDto "github.com/SahilxSingh/EduConnect/internal/modules/search/dto"
	"github.com/SahilxSingh/EduConnect/pkg/apperror"
	"github.com/SahilxSingh/EduConnect/pkg/dto"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	postsIndex   = "posts"
	noticesIndex = "notices"
)

// Indexer keeps the search indexes in step with writes. Index failures are
// reported but never fail the write that triggered them.
type Indexer interface {
	IndexPost(post *entity.Post, author dto.UserSummary) error
	IndexNotice(notice *entity.Notice) error
}

type SearchService interface {
	Indexer
	EnsureIndexes()
	Search(ctx context.Context, query string, limit int64) (*searchDto.SearchResponse, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
	log       zerolog.Logger
}

// NewMeiliSearchService returns a search service; a nil client disables
// indexing and makes Search report the service as unavailable.
func NewMeiliSearchService(client meilisearch.ServiceManager, log zerolog.Logger) SearchService {
	return &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
}

func (s *meiliSearchService) EnsureIndexes() {
	if s.client == nil {
		return
	}

	postSortable := []string{"created_at"}
	if _, err := s.client.Index(postsIndex).UpdateSortableAttributes(&postSortable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update posts sortable attributes")
	}

	noticeFilterable := []any{"type"}
	if _, err := s.client.Index(noticesIndex).UpdateFilterableAttributes(&noticeFilterable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update notices filterable attributes")
	}
	noticeSortable := []string{"published_at"}
	if _, err := s.client.Index(noticesIndex).UpdateSortableAttributes(&noticeSortable); err != nil {
		s.log.Warn().Err(err).Msg("failed to update notices sortable attributes")
	}

	s.log.Info().Msg("meilisearch indexes initialized")
}

type meiliPostDoc struct {
	ID         string `json:"id"`
	Content    string `json:"content"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	CreatedAt  int64  `json:"created_at"`
}

type meiliNoticeDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Type        string `json:"type"`
	PublishedAt int64  `json:"published_at"`
}

// CleanText strips markup and collapses whitespace for indexing.
func (s *meiliSearchService) CleanText(content string) string {
	// block tags become spaces so words don't merge
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	cleanText := html.UnescapeString(s.sanitizer.Sanitize(content))
	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexPost(post *entity.Post, author dto.UserSummary) error {
	if s.client == nil {
		return nil
	}

	doc := meiliPostDoc{
		ID:         post.ID.String(),
		Content:    s.CleanText(post.Content),
		AuthorID:   author.UserID,
		AuthorName: author.Name,
		CreatedAt:  post.CreatedAt.Unix(),
	}

	task, err := s.client.Index(postsIndex).AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("failed to index post: %w", err)
	}
	s.log.Debug().Str("post_id", doc.ID).Int64("task_uid", task.TaskUID).Msg("indexed post")
	return nil
}

func (s *meiliSearchService) IndexNotice(notice *entity.Notice) error {
	if s.client == nil {
		return nil
	}

	doc := meiliNoticeDoc{
		ID:          notice.ID.String(),
		Title:       s.CleanText(notice.Title),
		Content:     s.CleanText(notice.Content),
		Type:        notice.Type,
		PublishedAt: notice.PublishedAt.Unix(),
	}

	task, err := s.client.Index(noticesIndex).AddDocuments([]meiliNoticeDoc{doc}, strPtr("id"))
	if err != nil {
		return fmt.Errorf("failed to index notice: %w", err)
	}
	s.log.Debug().Str("notice_id", doc.ID).Int64("task_uid", task.TaskUID).Msg("indexed notice")
	return nil
}

func (s *meiliSearchService) Search(ctx context.Context, query string, limit int64) (*searchDto.SearchResponse, error) {
	if s.client == nil {
		return nil, apperror.Unavailable("search is not configured")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.BadRequest("q is required")
	}
	if limit <= 0 {
		limit = 10
	}

	resp := &searchDto.SearchResponse{
		Query:   query,
		Posts:   []searchDto.PostHit{},
		Notices: []searchDto.NoticeHit{},
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var docs []meiliPostDoc
		if err := s.searchIndex(ctx, postsIndex, query, limit, &docs); err != nil {
			return err
		}
		for _, d := range docs {
			resp.Posts = append(resp.Posts, searchDto.PostHit{
				ID:         d.ID,
				Content:    d.Content,
				AuthorID:   d.AuthorID,
				AuthorName: d.AuthorName,
				CreatedAt:  d.CreatedAt,
			})
		}
		return nil
	})
	g.Go(func() error {
		var docs []meiliNoticeDoc
		if err := s.searchIndex(ctx, noticesIndex, query, limit, &docs); err != nil {
			return err
		}
		for _, d := range docs {
			resp.Notices = append(resp.Notices, searchDto.NoticeHit(d))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apperror.New(http.StatusBadGateway, "search failed", fmt.Errorf("%w: %v", apperror.ErrUpstream, err))
	}
	return resp, nil
}

func (s *meiliSearchService) searchIndex(ctx context.Context, index, query string, limit int64, out any) error {
	raw, err := s.client.Index(index).SearchRawWithContext(ctx, query, &meilisearch.SearchRequest{Limit: limit})
	if err != nil {
		return fmt.Errorf("search %s: %w", index, err)
	}
	if raw == nil {
		return nil
	}

	var body struct {
		Hits json.RawMessage `json:"hits"`
	}
	if err := json.Unmarshal(*raw, &body); err != nil {
		return fmt.Errorf("decode %s hits: %w", index, err)
	}
	if len(body.Hits) == 0 {
		return nil
	}
	return json.Unmarshal(body.Hits, out)
}

func strPtr(s string) *string {
	return &s
}
