package listmonk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

// the feed URL travels in the list description because listmonk has no
// free-form attributes on lists
const feedURLPrefix = "RSS Feed: "

// ErrFeedExists is returned by AddFeed when the URL is already tracked
var ErrFeedExists = errors.New("feed already exists")

// ActiveFeeds returns all tracked feeds: lists carrying at least one
// frequency tag and a recoverable feed URL. Lists that look like feeds but
// can't be decoded are skipped with a warning, not failed.
func (c *Client) ActiveFeeds(ctx context.Context) ([]domain.Feed, error) {
	lists, err := c.GetLists(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}

	feeds := make([]domain.Feed, 0, len(lists))
	for _, l := range lists {
		feed, err := feedFromList(l)
		if err != nil {
			if !errors.Is(err, errNotAFeed) {
				lgr.Printf("[WARN] skipping malformed feed list %q (id %d): %v", l.Name, l.ID, err)
			}
			continue
		}
		feeds = append(feeds, feed)
	}
	return feeds, nil
}

// AddFeed registers a new feed as a list with identity and frequency tags
func (c *Client) AddFeed(ctx context.Context, name, feedURL string, freq domain.Frequency) (domain.Feed, error) {
	existing, err := c.FindListByTag(ctx, domain.URLTag(feedURL))
	if err != nil {
		return domain.Feed{}, fmt.Errorf("check feed %s: %w", feedURL, err)
	}
	if existing != nil {
		return domain.Feed{}, fmt.Errorf("feed %s: %w", feedURL, ErrFeedExists)
	}

	if name == "" {
		name = feedURL
	}

	tags := []string{freq.Tag(), domain.URLTag(feedURL)}
	created, err := c.CreateList(ctx, name, feedDescription(feedURL), tags)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("add feed %s: %w", feedURL, err)
	}

	lgr.Printf("[INFO] added feed %q (%s, %s) as list %d", name, feedURL, freq, created.ID)
	return domain.Feed{
		ListID:      created.ID,
		Name:        created.Name,
		URL:         feedURL,
		Frequencies: []domain.Frequency{freq},
		Tags:        created.Tags,
	}, nil
}

// GetFeedByURL finds a tracked feed by its URL, nil if not tracked
func (c *Client) GetFeedByURL(ctx context.Context, feedURL string) (*domain.Feed, error) {
	l, err := c.FindListByTag(ctx, domain.URLTag(feedURL))
	if err != nil {
		return nil, fmt.Errorf("find feed %s: %w", feedURL, err)
	}
	if l == nil {
		return nil, nil
	}
	feed, err := feedFromList(*l)
	if err != nil {
		return nil, fmt.Errorf("decode feed list %d: %w", l.ID, err)
	}
	return &feed, nil
}

// DeleteFeed removes a tracked feed. Returns false when the URL isn't tracked.
func (c *Client) DeleteFeed(ctx context.Context, feedURL string) (bool, error) {
	feed, err := c.GetFeedByURL(ctx, feedURL)
	if err != nil {
		return false, err
	}
	if feed == nil {
		return false, nil
	}
	if err := c.DeleteList(ctx, feed.ListID); err != nil {
		return false, fmt.Errorf("delete feed %s: %w", feedURL, err)
	}
	lgr.Printf("[INFO] deleted feed %s (list %d)", feedURL, feed.ListID)
	return true, nil
}

var errNotAFeed = errors.New("list is not a tracked feed")

// feedFromList decodes a feed from its backing list record
func feedFromList(l domain.List) (domain.Feed, error) {
	var freqs []domain.Frequency
	for _, tag := range l.Tags {
		if name, ok := strings.CutPrefix(tag, "freq:"); ok {
			freq, err := domain.ParseFrequency(name)
			if err != nil {
				return domain.Feed{}, err
			}
			freqs = append(freqs, freq)
		}
	}
	if len(freqs) == 0 {
		return domain.Feed{}, errNotAFeed
	}

	feedURL := extractFeedURL(l.Description)
	if feedURL == "" {
		return domain.Feed{}, fmt.Errorf("no feed URL in description of list %d", l.ID)
	}

	return domain.Feed{ListID: l.ID, Name: l.Name, URL: feedURL, Frequencies: freqs, Tags: l.Tags}, nil
}

// feedDescription renders the description line the URL is recovered from
func feedDescription(feedURL string) string {
	return feedURLPrefix + feedURL
}

// extractFeedURL recovers the feed URL from a list description, falling back
// to the first http(s) line for lists created by hand
func extractFeedURL(description string) string {
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, feedURLPrefix); ok {
			return strings.TrimSpace(v)
		}
	}
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			return line
		}
	}
	return ""
}
