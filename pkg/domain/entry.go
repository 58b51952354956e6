package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Entry is a single normalized feed item. Entries are ephemeral: only the
// newest entry's ID survives a poll cycle, as the dedup cursor.
type Entry struct {
	ID          string // native GUID, or a fallback digest when the feed has none
	Title       string
	Link        string
	Description string
	Content     string
	Author      string
	Published   time.Time
}

// FallbackID builds a deterministic entry ID for feeds that publish items
// without a GUID. Two parses of the same entry must yield the same ID.
func FallbackID(link, title string, published time.Time) string {
	h := sha256.New()
	h.Write([]byte(link))
	h.Write([]byte{0})
	h.Write([]byte(title))
	h.Write([]byte{0})
	if !published.IsZero() {
		h.Write([]byte(published.UTC().Format(time.RFC3339)))
	}
	return hex.EncodeToString(h.Sum(nil))
}
