package providers

import (
	"context"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/mmcdole/gofeed"
)

// FeedItem is one entry of an RSS or Atom feed.
type FeedItem struct {
	Title       string
	Link        string
	Description string
	Published   *time.Time
}

type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

// FetchFeed returns at most limit items in feed order; limit <= 0 means all.
func (f *RSSFetcher) FetchFeed(ctx context.Context, url string, limit int) ([]FeedItem, error) {
	feed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	n := len(feed.Items)
	if limit > 0 && limit < n {
		n = limit
	}

	items := make([]FeedItem, 0, n)
	for _, item := range feed.Items[:n] {
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		items = append(items, FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        strings.TrimSpace(item.Link),
			Description: item.Description,
			Published:   published,
		})
	}
	return items, nil
}

// WebScraper pulls article text out of a page.
type WebScraper struct {
	collector *colly.Collector
}

func NewWebScraper() *WebScraper {
	c := colly.NewCollector(
		colly.UserAgent("EduConnectBot/1.0 (+notice-import)"),
	)
	c.SetRequestTimeout(20 * time.Second)
	return &WebScraper{collector: c}
}

// ScrapeArticle joins the paragraphs found in common article containers.
// Paragraphs of 50 characters or fewer are treated as noise.
func (s *WebScraper) ScrapeArticle(url string) (string, error) {
	var b strings.Builder

	// a clone per call keeps callbacks from piling up on the shared collector
	c := s.collector.Clone()
	c.OnHTML("article, main, .article-content, .entry-content, .post-content, #content", func(e *colly.HTMLElement) {
		e.ForEach("p", func(_ int, el *colly.HTMLElement) {
			text := strings.TrimSpace(el.Text)
			if len(text) > 50 {
				b.WriteString(text)
				b.WriteString("\n\n")
			}
		})
	})

	if err := c.Visit(url); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
