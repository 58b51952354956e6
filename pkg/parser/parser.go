// Package parser turns fetched feed payloads into normalized entries.
package parser

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

// ErrNoEntries is returned when nothing usable can be recovered from a payload
var ErrNoEntries = errors.New("no entries recovered")

// Feed is a parsed payload: the source title plus entries in the feed's
// native order. Callers normalize ordering before dedup comparison.
type Feed struct {
	Title       string
	Description string
	Link        string
	Entries     []domain.Entry
}

// Parse decodes an RSS/Atom payload. Upstream feeds vary in strictness, so a
// payload that yields any entries is accepted even if parts of it are
// malformed; entries without a native GUID get a deterministic fallback ID.
func Parse(body []byte) (*Feed, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("parse feed: %w", ErrNoEntries)
	}

	result := &Feed{
		Title:       parsed.Title,
		Description: parsed.Description,
		Link:        parsed.Link,
		Entries:     make([]domain.Entry, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		entry := domain.Entry{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
		}
		if item.Author != nil {
			entry.Author = item.Author.Name
		}
		if item.PublishedParsed != nil {
			entry.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.Published = *item.UpdatedParsed
		}

		entry.ID = item.GUID
		if entry.ID == "" {
			entry.ID = domain.FallbackID(entry.Link, entry.Title, entry.Published)
		}

		result.Entries = append(result.Entries, entry)
	}

	return result, nil
}
