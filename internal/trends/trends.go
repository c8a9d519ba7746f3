// Package trends fetches current trending topic titles from an RSS feed
// (e.g. Google Trends) to seed the trending post prompt. Fetch failures
// degrade gracefully: the caller generates a generic observation instead.
package trends

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// maxTopics bounds how many feed items are passed into the prompt.
const maxTopics = 5

// Fetcher pulls topic titles from a configured RSS feed.
type Fetcher struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewFetcher creates a fetcher for the given feed URL. An empty URL yields
// a fetcher that always returns no topics.
func NewFetcher(feedURL string) *Fetcher {
	return &Fetcher{
		feedURL: feedURL,
		parser:  gofeed.NewParser(),
	}
}

// Topics returns up to maxTopics trending topic titles from the feed.
// Returns an empty slice without error when no feed is configured.
func (f *Fetcher) Topics(ctx context.Context) ([]string, error) {
	if f.feedURL == "" {
		return nil, nil
	}

	feed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("trends fetch: %w", err)
	}

	var topics []string
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		topics = append(topics, title)
		if len(topics) == maxTopics {
			break
		}
	}
	return topics, nil
}
