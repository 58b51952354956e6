package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Frequency is a named polling cadence. Each cadence keeps its own dedup
// state on the feed's list, so the same feed can be tracked at several
// cadences at once.
type Frequency string

// known polling cadences
const (
	FreqFiveMin Frequency = "5min"
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
)

// Frequencies lists all known cadences in stable order
func Frequencies() []Frequency {
	return []Frequency{FreqFiveMin, FreqDaily, FreqWeekly}
}

// ParseFrequency validates a cadence name
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FreqFiveMin, FreqDaily, FreqWeekly:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// Tag returns the list tag marking a feed as tracked at this cadence, e.g. "freq:daily"
func (f Frequency) Tag() string { return "freq:" + string(f) }

// Feed is a tracked RSS/Atom source. It is backed by one list record in the
// list-store; the engine never keeps it beyond a single poll cycle.
type Feed struct {
	ListID      int
	Name        string
	URL         string
	Frequencies []Frequency
	Tags        []string // raw list tags, state included
}

// URLHash returns the full hex SHA-256 of a feed URL. Full-length on purpose:
// the hash is the feed's identity and truncation would risk cross-feed state
// contamination.
func URLHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// URLTag returns the identity tag for a feed URL, e.g. "url:<sha256-hex>"
func URLTag(url string) string { return "url:" + URLHash(url) }

// List is a raw list record as the list-store returns it
type List struct {
	ID          int
	Name        string
	Description string
	Type        string
	Tags        []string
}
