// Package scheduler drives poll cycles: it decides which (feed, frequency)
// pairs are due, fetches and reconciles them with bounded parallelism, emits
// campaigns for new entries and commits dedup state back to the list-store.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/sync/errgroup"

	"github.com/feedmailer/feedmailer/pkg/campaign"
	"github.com/feedmailer/feedmailer/pkg/domain"
	"github.com/feedmailer/feedmailer/pkg/fetcher"
	"github.com/feedmailer/feedmailer/pkg/listmonk"
	"github.com/feedmailer/feedmailer/pkg/parser"
	"github.com/feedmailer/feedmailer/pkg/state"
)

//go:generate moq -out mocks/liststore.go -pkg mocks -skip-ensure -fmt goimports . ListStore
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/renderer.go -pkg mocks -skip-ensure -fmt goimports . Renderer

// ListStore is the external system of record. It is the engine's only shared
// mutable resource; each feed's state lives on its own list record, so no
// cross-feed locking is needed.
type ListStore interface {
	ActiveFeeds(ctx context.Context) ([]domain.Feed, error)
	GetList(ctx context.Context, id int) (domain.List, error)
	UpdateList(ctx context.Context, l domain.List) error
	CreateCampaign(ctx context.Context, camp listmonk.Campaign) (int, error)
	StartCampaign(ctx context.Context, id int) error
}

// Fetcher retrieves feed payloads with conditional requests
type Fetcher interface {
	Fetch(ctx context.Context, url string, validators domain.Validators) (fetcher.Result, error)
}

// Renderer builds campaign emails for new entries
type Renderer interface {
	Render(feed domain.Feed, freq domain.Frequency, entry domain.Entry) (campaign.Email, error)
}

// Config holds scheduler configuration
type Config struct {
	CycleInterval time.Duration
	CycleDeadline time.Duration
	MaxWorkers    int
	Location      *time.Location
	DailyHour     int
	DailyMinute   int
	WeeklyDay     time.Weekday
	FirstPoll     FirstPollPolicy
	AutoSend      bool
}

// CycleStats summarizes the most recent completed poll cycle
type CycleStats struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Feeds     int           `json:"feeds"`
	DuePairs  int           `json:"due_pairs"`
	Polled    int           `json:"polled"`
	Campaigns int           `json:"campaigns"`
	Errors    int           `json:"errors"`
}

// Scheduler runs the poll loop
type Scheduler struct {
	store    ListStore
	fetcher  Fetcher
	renderer Renderer

	cycleInterval time.Duration
	cycleDeadline time.Duration
	maxWorkers    int
	location      *time.Location
	dailyHour     int
	dailyMinute   int
	weeklyDay     time.Weekday
	firstPoll     FirstPollPolicy
	autoSend      bool

	mu    sync.Mutex
	stats CycleStats
}

// New creates a scheduler, applying defaults for zero config values
func New(store ListStore, fetch Fetcher, render Renderer, cfg Config) *Scheduler {
	if cfg.CycleInterval == 0 {
		cfg.CycleInterval = time.Minute
	}
	if cfg.CycleDeadline == 0 {
		cfg.CycleDeadline = 5 * time.Minute
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 10
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DailyHour == 0 && cfg.DailyMinute == 0 {
		cfg.DailyHour = 17
	}
	if cfg.FirstPoll == "" {
		cfg.FirstPoll = SeedOnly
	}

	return &Scheduler{
		store:         store,
		fetcher:       fetch,
		renderer:      render,
		cycleInterval: cfg.CycleInterval,
		cycleDeadline: cfg.CycleDeadline,
		maxWorkers:    cfg.MaxWorkers,
		location:      cfg.Location,
		dailyHour:     cfg.DailyHour,
		dailyMinute:   cfg.DailyMinute,
		weeklyDay:     cfg.WeeklyDay,
		firstPoll:     cfg.FirstPoll,
		autoSend:      cfg.AutoSend,
	}
}

// Run executes poll cycles until the context is canceled. The first cycle
// starts immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	lgr.Printf("[INFO] scheduler started, cycle interval %v, %d workers", s.cycleInterval, s.maxWorkers)

	ticker := time.NewTicker(s.cycleInterval)
	defer ticker.Stop()

	s.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			lgr.Printf("[INFO] scheduler stopped")
			return nil
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// pollPair is one unit of work: a feed polled at one cadence
type pollPair struct {
	feed domain.Feed
	freq domain.Frequency
}

// RunCycle performs one poll cycle: selects due pairs and processes them
// concurrently under the cycle deadline. Per-feed failures are logged and
// isolated; they never abort the batch.
func (s *Scheduler) RunCycle(ctx context.Context) {
	started := time.Now()

	feeds, err := s.store.ActiveFeeds(ctx)
	if err != nil {
		lgr.Printf("[ERROR] failed to list feeds: %v", err)
		return
	}

	pairs := s.duePairs(feeds, started)
	if len(pairs) == 0 {
		lgr.Printf("[DEBUG] cycle: %d feeds, nothing due", len(feeds))
		s.recordStats(CycleStats{StartedAt: started, Duration: time.Since(started), Feeds: len(feeds)})
		return
	}
	lgr.Printf("[INFO] cycle: %d feeds, %d due pairs", len(feeds), len(pairs))

	cctx, cancel := context.WithTimeout(ctx, s.cycleDeadline)
	defer cancel()

	var polled, campaigns, errs int64
	var g errgroup.Group
	g.SetLimit(s.maxWorkers)

	// cadences of one feed share its list record for the read-modify-write
	// commit, so they run sequentially inside one worker; only distinct feeds
	// run in parallel
	for _, batch := range groupByFeed(pairs) {
		g.Go(func() error {
			for _, p := range batch {
				n, err := s.pollFeed(cctx, p.feed, p.freq)
				atomic.AddInt64(&polled, 1)
				atomic.AddInt64(&campaigns, int64(n))
				if err != nil {
					atomic.AddInt64(&errs, 1)
					lgr.Printf("[WARN] feed %q (%s): %v", p.feed.Name, p.freq, err)
				}
			}
			return nil
		})
	}
	_ = g.Wait() // tasks report errors via counters, never through the group

	s.recordStats(CycleStats{
		StartedAt: started,
		Duration:  time.Since(started),
		Feeds:     len(feeds),
		DuePairs:  len(pairs),
		Polled:    int(polled),
		Campaigns: int(campaigns),
		Errors:    int(errs),
	})
	lgr.Printf("[INFO] cycle done in %v: %d polled, %d campaigns, %d errors",
		time.Since(started).Round(time.Millisecond), polled, campaigns, errs)
}

// duePairs selects the (feed, frequency) pairs due at now. Each pair keeps
// its own dedup state; the same feed may appear once per cadence it carries.
func (s *Scheduler) duePairs(feeds []domain.Feed, now time.Time) []pollPair {
	var pairs []pollPair
	for _, f := range feeds {
		for _, freq := range f.Frequencies {
			st := state.Decode(f.Tags, freq)
			if s.due(freq, st, now) {
				pairs = append(pairs, pollPair{feed: f, freq: freq})
			}
		}
	}
	return pairs
}

// groupByFeed buckets due pairs by their backing list, preserving pair order
func groupByFeed(pairs []pollPair) [][]pollPair {
	idx := make(map[int]int, len(pairs))
	var groups [][]pollPair
	for _, p := range pairs {
		i, ok := idx[p.feed.ListID]
		if !ok {
			i = len(groups)
			idx[p.feed.ListID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], p)
	}
	return groups
}

// pollFeed processes one due pair: conditional fetch, parse, reconcile, emit,
// commit. It returns the number of campaigns created. State is mutated only
// on a successful poll; fetch and parse failures leave tags untouched so the
// pair is retried next cycle.
func (s *Scheduler) pollFeed(ctx context.Context, feed domain.Feed, freq domain.Frequency) (int, error) {
	lgr.Printf("[DEBUG] polling %q (%s)", feed.Name, freq)

	// fresh read for the read-modify-write, the cycle snapshot may be stale
	rec, err := s.store.GetList(ctx, feed.ListID)
	if err != nil {
		return 0, fmt.Errorf("read list %d: %w", feed.ListID, err)
	}
	prior := state.Decode(rec.Tags, freq)
	validators := state.DecodeValidators(rec.Tags)

	res, err := s.fetcher.Fetch(ctx, feed.URL, validators)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}

	if res.Status == fetcher.NotModified {
		// upstream unchanged: cursor stays, last-poll advances so the pair
		// doesn't come up again immediately
		next := domain.PollState{LastPoll: time.Now(), LastSeenID: prior.LastSeenID}
		if err := s.commitState(ctx, rec, freq, next, res.Validators); err != nil {
			return 0, err
		}
		lgr.Printf("[DEBUG] feed %q (%s) not modified", feed.Name, freq)
		return 0, nil
	}

	parsed, err := parser.Parse(res.Body)
	if err != nil {
		return 0, fmt.Errorf("parse: %w", err)
	}

	newEntries, next := Reconcile(prior, parsed.Entries, s.firstPoll, time.Now())
	if len(newEntries) == 0 {
		if err := s.commitState(ctx, rec, freq, next, res.Validators); err != nil {
			return 0, err
		}
		return 0, nil
	}

	emitted, lastEmittedID, emitErr := s.emit(ctx, feed, freq, newEntries)

	commit := next
	if emitErr != nil {
		// commit only the successfully emitted prefix so the failed entry is
		// re-emitted next cycle. lastPoll stays at prior too: advancing it
		// would push a daily/weekly retry out to the next scheduled window.
		commit.LastPoll = prior.LastPoll
		commit.LastSeenID = prior.LastSeenID
		if lastEmittedID != "" {
			commit.LastSeenID = lastEmittedID
		}
	}
	if err := s.commitState(ctx, rec, freq, commit, res.Validators); err != nil {
		return emitted, err
	}

	if emitErr != nil {
		return emitted, fmt.Errorf("emit campaigns: %w", emitErr)
	}
	if emitted > 0 {
		lgr.Printf("[INFO] feed %q (%s): %d new campaigns", feed.Name, freq, emitted)
	}
	return emitted, nil
}

// emit creates one campaign per new entry, in ascending chronological order.
// It stops at the first failure and reports how far it got.
func (s *Scheduler) emit(ctx context.Context, feed domain.Feed, freq domain.Frequency, entries []domain.Entry) (emitted int, lastEmittedID string, err error) {
	for _, entry := range entries {
		email, err := s.renderer.Render(feed, freq, entry)
		if err != nil {
			return emitted, lastEmittedID, fmt.Errorf("render %q: %w", entry.Title, err)
		}

		id, err := s.store.CreateCampaign(ctx, listmonk.Campaign{
			Name:    email.Name,
			Subject: email.Subject,
			Body:    email.Body,
			ListID:  feed.ListID,
			Tags:    email.Tags,
		})
		if err != nil {
			return emitted, lastEmittedID, fmt.Errorf("create campaign %q: %w", entry.Title, err)
		}

		if s.autoSend {
			// the campaign exists either way, a failed start is not a reason
			// to re-emit the entry
			if err := s.store.StartCampaign(ctx, id); err != nil {
				lgr.Printf("[WARN] failed to start campaign %d for %q: %v", id, entry.Title, err)
			}
		}

		emitted++
		lastEmittedID = entry.ID
		lgr.Printf("[DEBUG] campaign %d created for %q (%s)", id, entry.Title, feed.Name)
	}
	return emitted, lastEmittedID, nil
}

// commitState writes updated poll state back to the feed's list tags,
// preserving unrelated tags. The write is retried before giving up: losing a
// commit after campaigns went out means duplicates next cycle.
func (s *Scheduler) commitState(ctx context.Context, rec domain.List, freq domain.Frequency, st domain.PollState, validators domain.Validators) error {
	rec.Tags = state.Apply(rec.Tags, freq, st, validators)

	retrier := repeater.NewBackoff(3, 100*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		return s.store.UpdateList(ctx, rec)
	})
	if err != nil {
		return fmt.Errorf("commit state for list %d: %w", rec.ID, err)
	}
	return nil
}

// Stats returns the last completed cycle's summary
func (s *Scheduler) Stats() CycleStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Scheduler) recordStats(cs CycleStats) {
	s.mu.Lock()
	s.stats = cs
	s.mu.Unlock()
}
