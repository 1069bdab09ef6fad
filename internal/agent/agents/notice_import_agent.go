package agents

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/SahilxSingh/EduConnect/internal/agent/providers"
	"github.com/SahilxSingh/EduConnect/internal/entity"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
)

type FeedReader interface {
	FetchFeed(ctx context.Context, url string, limit int) ([]providers.FeedItem, error)
}

type ArticleScraper interface {
	ScrapeArticle(url string) (string, error)
}

type NoticeImporter interface {
	Import(ctx context.Context, notice *entity.Notice) (bool, error)
}

type NoticeImportConfig struct {
	Schedule string
	FeedURL  string
	// MaxItems caps how many feed entries are looked at per run.
	MaxItems int
	// MinContentLength is the shortest scraped body used as notice content.
	// Shorter bodies fall back to the feed description.
	MinContentLength int
	// MaxContentLength trims long articles to an excerpt.
	MaxContentLength int
	ProcessedSet     string
}

func DefaultNoticeImportConfig() NoticeImportConfig {
	return NoticeImportConfig{
		Schedule:         "0 */6 * * *",
		MaxItems:         5,
		MinContentLength: 100,
		MaxContentLength: 2000,
		ProcessedSet:     "agent:notice_import:processed_urls",
	}
}

// NoticeImportAgent turns entries of an institution feed into notices.
type NoticeImportAgent struct {
	feed     FeedReader
	scraper  ArticleScraper
	notices  NoticeImporter
	tracker  providers.Tracker
	stripper *bluemonday.Policy
	config   NoticeImportConfig
	log      zerolog.Logger
}

func NewNoticeImportAgent(feed FeedReader, scraper ArticleScraper, notices NoticeImporter, tracker providers.Tracker, config NoticeImportConfig, log zerolog.Logger) *NoticeImportAgent {
	return &NoticeImportAgent{
		feed:     feed,
		scraper:  scraper,
		notices:  notices,
		tracker:  tracker,
		stripper: bluemonday.StrictPolicy(),
		config:   config,
		log:      log.With().Str("agent", "notice-import").Logger(),
	}
}

func (a *NoticeImportAgent) GetName() string {
	return "notice-import"
}

func (a *NoticeImportAgent) GetSchedule() string {
	return a.config.Schedule
}

func (a *NoticeImportAgent) Execute(ctx context.Context) error {
	if a.config.FeedURL == "" {
		return nil
	}

	items, err := a.feed.FetchFeed(ctx, a.config.FeedURL, a.config.MaxItems)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	imported := 0
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if item.Link == "" || item.Title == "" {
			continue
		}
		if a.seen(ctx, item.Link) {
			continue
		}

		created, err := a.importItem(ctx, item)
		if err != nil {
			a.log.Warn().Err(err).Str("link", item.Link).Msg("feed item skipped")
			continue
		}
		a.remember(ctx, item.Link)
		if created {
			imported++
		}
	}

	a.log.Info().Int("items", len(items)).Int("imported", imported).Msg("feed processed")
	return nil
}

func (a *NoticeImportAgent) importItem(ctx context.Context, item providers.FeedItem) (bool, error) {
	content, err := a.scraper.ScrapeArticle(item.Link)
	if err != nil {
		a.log.Debug().Err(err).Str("link", item.Link).Msg("scrape failed, using feed description")
		content = ""
	}
	if len(content) < a.config.MinContentLength {
		content = strings.TrimSpace(html.UnescapeString(a.stripper.Sanitize(item.Description)))
	}
	if content == "" {
		return false, fmt.Errorf("no content for %s", item.Link)
	}

	link := item.Link
	notice := &entity.Notice{
		Type:      entity.NoticeTypeNotice,
		Title:     truncate(item.Title, 255),
		Content:   truncate(content, a.config.MaxContentLength),
		SourceURL: &link,
	}
	if item.Published != nil {
		notice.PublishedAt = *item.Published
	} else {
		notice.PublishedAt = time.Now()
	}

	return a.notices.Import(ctx, notice)
}

// seen treats tracker errors as unseen; the unique source url still
// prevents duplicate rows.
func (a *NoticeImportAgent) seen(ctx context.Context, link string) bool {
	if a.tracker == nil {
		return false
	}
	ok, err := a.tracker.Seen(ctx, a.config.ProcessedSet, link)
	if err != nil {
		a.log.Warn().Err(err).Msg("tracker lookup failed")
		return false
	}
	return ok
}

func (a *NoticeImportAgent) remember(ctx context.Context, link string) {
	if a.tracker == nil {
		return
	}
	if err := a.tracker.Remember(ctx, a.config.ProcessedSet, link); err != nil {
		a.log.Warn().Err(err).Msg("tracker update failed")
	}
}

// truncate cuts s to at most max runes, ending with an ellipsis when cut.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
