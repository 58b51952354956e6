package scheduler

import (
	"time"

	"github.com/feedmailer/feedmailer/pkg/domain"
)

// fiveMinInterval is the elapsed-time threshold of the 5min cadence
const fiveMinInterval = 5 * time.Minute

// due reports whether a (feed, frequency) pair should be polled at now.
// Interval cadences fire on elapsed time since the last poll. Fixed-schedule
// cadences fire once the scheduled local instant has passed, at most once per
// day (daily) or week (weekly); missed windows are not back-filled, the next
// matching check simply polls once.
func (s *Scheduler) due(freq domain.Frequency, st domain.PollState, now time.Time) bool {
	switch freq {
	case domain.FreqFiveMin:
		if !st.Polled() {
			return true
		}
		return now.Sub(st.LastPoll) >= fiveMinInterval

	case domain.FreqDaily:
		if st.Polled() && now.Sub(st.LastPoll) < 24*time.Hour {
			return false
		}
		return s.pastScheduledTime(now)

	case domain.FreqWeekly:
		local := now.In(s.location)
		if local.Weekday() != s.weeklyDay {
			return false
		}
		if st.Polled() && now.Sub(st.LastPoll) < 7*24*time.Hour {
			return false
		}
		return s.pastScheduledTime(now)
	}
	return false
}

// pastScheduledTime reports whether local wall-clock time has reached the
// configured send time today. Local time in the configured zone, not UTC.
func (s *Scheduler) pastScheduledTime(now time.Time) bool {
	local := now.In(s.location)
	target := time.Date(local.Year(), local.Month(), local.Day(), s.dailyHour, s.dailyMinute, 0, 0, s.location)
	return !local.Before(target)
}
