// Package news pulls syndicated items from configured RSS and Atom feeds.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gardencircle/internal/models"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"
)

// Source is one configured upstream feed.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type feedsFile struct {
	Feeds []Source `yaml:"feeds"`
}

// LoadSources reads the feed list from a YAML file.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}
	var f feedsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse feeds file: %w", err)
	}
	return f.Feeds, nil
}

// Fetcher pulls items from all configured sources.
type Fetcher struct {
	parser  *gofeed.Parser
	sources []Source
	perFeed int
	timeout time.Duration
}

// NewFetcher creates a fetcher. perFeed caps how many items one source may
// contribute per run.
func NewFetcher(sources []Source, perFeed int) *Fetcher {
	if perFeed <= 0 {
		perFeed = 10
	}
	return &Fetcher{
		parser:  gofeed.NewParser(),
		sources: sources,
		perFeed: perFeed,
		timeout: 15 * time.Second,
	}
}

// Fetch pulls every source and returns the combined items. A single broken
// feed is logged and skipped; only a fully failed run is an error.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	if len(f.sources) == 0 {
		return nil, nil
	}

	var (
		items  []models.NewsItem
		failed int
	)
	for _, src := range f.sources {
		srcItems, err := f.fetchOne(ctx, src)
		if err != nil {
			failed++
			slog.WarnContext(ctx, "feed fetch failed", "source", src.Name, "url", src.URL, "error", err)
			continue
		}
		items = append(items, srcItems...)
	}

	if failed == len(f.sources) {
		return nil, fmt.Errorf("all %d feeds failed", failed)
	}
	return items, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, src Source) ([]models.NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, err
	}

	sourceName := src.Name
	if sourceName == "" {
		sourceName = feed.Title
	}

	items := make([]models.NewsItem, 0, f.perFeed)
	for _, entry := range feed.Items {
		if len(items) >= f.perFeed {
			break
		}
		if entry.Link == "" || entry.Title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title:       entry.Title,
			Content:     itemContent(entry),
			Link:        entry.Link,
			Source:      sourceName,
			ImagePath:   itemImage(entry),
			PublishedAt: itemPublished(entry),
		})
	}
	return items, nil
}

// itemContent prefers the short description over the full body.
func itemContent(entry *gofeed.Item) string {
	if s := strings.TrimSpace(entry.Description); s != "" {
		return s
	}
	return strings.TrimSpace(entry.Content)
}

// itemImage digs an image URL out of the item image, enclosures, or the
// media extension, in that order.
func itemImage(entry *gofeed.Item) string {
	if entry.Image != nil && entry.Image.URL != "" {
		return entry.Image.URL
	}
	for _, enc := range entry.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	if media, ok := entry.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if url, ok := ext.Attrs["url"]; ok && url != "" {
				return url
			}
		}
		for _, ext := range media["thumbnail"] {
			if url, ok := ext.Attrs["url"]; ok && url != "" {
				return url
			}
		}
	}
	return ""
}

func itemPublished(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Now()
}
