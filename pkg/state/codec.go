// Package state encodes and decodes poll state to the tag vocabulary kept on
// list-store records. All stringly-typed external state is confined here; the
// rest of the engine works with typed values.
package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

// tag prefixes, class-scoped where dedup state must not collide across cadences:
//
//	last-poll:freq:<class>:<RFC3339>
//	last-seen:freq:<class>:<entry-id>
//	etag:<value>
//	last-modified:<value>
const (
	lastPollPrefix     = "last-poll:"
	lastSeenPrefix     = "last-seen:"
	etagPrefix         = "etag:"
	lastModifiedPrefix = "last-modified:"
)

// Encode renders the poll state of one cadence as tag strings. A zero state
// produces no tags.
func Encode(freq domain.Frequency, st domain.PollState) []string {
	var tags []string
	if !st.LastPoll.IsZero() {
		tags = append(tags, lastPollPrefix+freq.Tag()+":"+st.LastPoll.UTC().Format(time.RFC3339))
	}
	if st.LastSeenID != "" {
		tags = append(tags, lastSeenPrefix+freq.Tag()+":"+escape(st.LastSeenID))
	}
	return tags
}

// Decode extracts the poll state for one cadence from a list's tags.
// Missing or unparsable tags yield the zero ("never polled") state for the
// corresponding field. Values are cut by prefix, never split, so entry IDs
// and timestamps containing colons survive intact.
func Decode(tags []string, freq domain.Frequency) domain.PollState {
	var st domain.PollState
	for _, tag := range tags {
		if v, ok := strings.CutPrefix(tag, lastPollPrefix+freq.Tag()+":"); ok {
			if ts, err := time.Parse(time.RFC3339, v); err == nil {
				st.LastPoll = ts
			}
			continue
		}
		if v, ok := strings.CutPrefix(tag, lastSeenPrefix+freq.Tag()+":"); ok {
			st.LastSeenID = unescape(v)
		}
	}
	return st
}

// EncodeValidators renders feed-level HTTP validators as tags
func EncodeValidators(v domain.Validators) []string {
	var tags []string
	if v.ETag != "" {
		tags = append(tags, etagPrefix+escape(v.ETag))
	}
	if v.LastModified != "" {
		tags = append(tags, lastModifiedPrefix+escape(v.LastModified))
	}
	return tags
}

// DecodeValidators extracts feed-level HTTP validators from a list's tags
func DecodeValidators(tags []string) domain.Validators {
	var v domain.Validators
	for _, tag := range tags {
		if val, ok := strings.CutPrefix(tag, etagPrefix); ok {
			v.ETag = unescape(val)
			continue
		}
		if val, ok := strings.CutPrefix(tag, lastModifiedPrefix); ok {
			v.LastModified = unescape(val)
		}
	}
	return v
}

// Apply replaces this cadence's state tags and the feed-level validator tags
// in a list's tag set, preserving every other tag untouched. Foreign tags,
// frequency markers and state owned by other cadences pass through as-is.
func Apply(tags []string, freq domain.Frequency, st domain.PollState, v domain.Validators) []string {
	out := make([]string, 0, len(tags)+4)
	for _, tag := range tags {
		if strings.HasPrefix(tag, lastPollPrefix+freq.Tag()+":") ||
			strings.HasPrefix(tag, lastSeenPrefix+freq.Tag()+":") ||
			strings.HasPrefix(tag, etagPrefix) ||
			strings.HasPrefix(tag, lastModifiedPrefix) {
			continue
		}
		out = append(out, tag)
	}
	out = append(out, Encode(freq, st)...)
	out = append(out, EncodeValidators(v)...)
	return out
}

// escape keeps tag values inside the printable-ASCII vocabulary the
// list-store accepts. Bytes outside 0x21..0x7e and the escape character
// itself become %XX.
func escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x21 || c > 0x7e || c == '%' {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		// both digits must be hex, Sscanf alone would accept "%4z" as "%4"
		if s[i] == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			var c byte
			if _, err := fmt.Sscanf(s[i+1:i+3], "%02X", &c); err == nil {
				b.WriteByte(c)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
