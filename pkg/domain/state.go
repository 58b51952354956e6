package domain

import "time"

// PollState is the dedup record for one (feed, frequency) pair. A zero value
// means the pair has never been polled.
type PollState struct {
	LastPoll   time.Time
	LastSeenID string
}

// Polled reports whether the pair has completed at least one poll
func (s PollState) Polled() bool { return !s.LastPoll.IsZero() }

// Validators are the HTTP cache validators from the most recent fetch of a
// feed. They are feed-level, shared by all cadences.
type Validators struct {
	ETag         string
	LastModified string
}

// Empty reports whether no validator is available
func (v Validators) Empty() bool { return v.ETag == "" && v.LastModified == "" }
