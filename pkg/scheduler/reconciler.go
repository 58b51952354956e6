package scheduler

import (
	"sort"
	"time"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

// FirstPollPolicy decides what happens the first time a (feed, frequency)
// pair is polled and there is no dedup cursor yet
type FirstPollPolicy string

// first-poll policies
const (
	SeedOnly FirstPollPolicy = "seed-only" // record the cursor silently, emit nothing
	EmitAll  FirstPollPolicy = "emit-all"  // treat every current entry as new
)

// ParseFirstPollPolicy validates a policy name
func ParseFirstPollPolicy(s string) (FirstPollPolicy, bool) {
	switch FirstPollPolicy(s) {
	case SeedOnly, EmitAll:
		return FirstPollPolicy(s), true
	}
	return "", false
}

// Reconcile computes the new-entry set for one (feed, frequency) pair.
// Entries are normalized to ascending publish time, ties broken by ID so the
// result is deterministic regardless of the feed's native order. New entries
// are everything after the prior cursor in that ordering; a cursor that no
// longer appears in the feed means everything is new. The returned state
// assumes the whole batch gets emitted; callers doing partial emission must
// cut the cursor back themselves.
func Reconcile(prior domain.PollState, entries []domain.Entry, policy FirstPollPolicy, now time.Time) (newEntries []domain.Entry, next domain.PollState) {
	next = domain.PollState{LastPoll: now, LastSeenID: prior.LastSeenID}
	if len(entries) == 0 {
		return nil, next
	}

	sorted := make([]domain.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Published.Equal(sorted[j].Published) {
			return sorted[i].Published.Before(sorted[j].Published)
		}
		return sorted[i].ID < sorted[j].ID
	})

	next.LastSeenID = sorted[len(sorted)-1].ID

	if prior.LastSeenID == "" {
		if policy == EmitAll {
			return sorted, next
		}
		return nil, next // seed the cursor, emit nothing
	}

	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].ID == prior.LastSeenID {
			return sorted[i+1:], next
		}
	}

	// cursor rotated out of the feed window, everything visible is new
	return sorted, next
}
