// Package tracker maintains the client-local suggestion usage window: a
// calendar-day counter plus a 60-second sliding window over request
// timestamps. It is an advisory gate for instant feedback; the persisted
// per-user counter on the server is the authoritative one.
package tracker

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const minuteWindow = 60 * time.Second

// Reason identifies which sub-limit blocked a request.
type Reason string

const (
	ReasonNone        Reason = "none"
	ReasonDailyLimit  Reason = "daily_limit_exceeded"
	ReasonMinuteLimit Reason = "minute_limit_exceeded"
)

// UsageWindow is the persisted usage state for the current calendar day.
// RequestHistory holds epoch-millisecond timestamps and is pruned to the
// trailing minute on every RecordRequest.
type UsageWindow struct {
	Date           string  `json:"date"`
	DailyCount     int     `json:"daily_count"`
	RequestHistory []int64 `json:"request_history"`
}

// Decision is the outcome of a local quota check.
type Decision struct {
	CanRequest      bool
	Reason          Reason
	RemainingDaily  int
	RemainingMinute int
}

// WindowStats describes one sub-limit for display.
type WindowStats struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
	Percent   int `json:"percent"`
}

// Stats is the full usage snapshot for display.
type Stats struct {
	Daily           WindowStats `json:"daily"`
	Minute          WindowStats `json:"minute"`
	NextDailyReset  time.Time   `json:"next_daily_reset"`
	NextMinuteReset time.Time   `json:"next_minute_reset"`
}

// LimitNotice is a user-facing explanation for a denied request.
type LimitNotice struct {
	Title   string
	Message string
	ResetAt *time.Time
}

// Clock abstracts wall-clock reads so window logic is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Tracker answers "can a request be made right now?" without a network
// round trip.
type Tracker struct {
	store       Store
	clock       Clock
	dailyLimit  int
	minuteLimit int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source. Tests inject a fake clock here.
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLimits overrides the default daily and per-minute limits.
func WithLimits(daily, minute int) Option {
	return func(t *Tracker) {
		t.dailyLimit = daily
		t.minuteLimit = minute
	}
}

// New creates a Tracker backed by the given store.
func New(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:       store,
		clock:       systemClock{},
		dailyLimit:  15,
		minuteLimit: 15,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// DailyLimit returns the configured daily limit.
func (t *Tracker) DailyLimit() int { return t.dailyLimit }

// MinuteLimit returns the configured per-minute limit.
func (t *Tracker) MinuteLimit() int { return t.minuteLimit }

// Window returns the usage window for today, (re)initializing a zero window
// when the stored one is absent, corrupt, or stale from a previous day.
func (t *Tracker) Window() UsageWindow {
	today := t.clock.Now().Format("2006-01-02")

	data, err := t.store.Load()
	if err == nil && data != nil {
		var w UsageWindow
		if json.Unmarshal(data, &w) == nil && w.Date == today {
			return w
		}
	}

	// Absent, unparseable, or day rollover: start fresh and persist so
	// concurrent readers in the same session see one consistent window.
	w := UsageWindow{Date: today, DailyCount: 0, RequestHistory: []int64{}}
	t.persist(w)
	return w
}

// RecentRequestCount returns how many requests fall inside the trailing
// 60-second window. It is a read-only projection: pruning of stored history
// happens only in RecordRequest.
func (t *Tracker) RecentRequestCount() int {
	w := t.Window()
	cutoff := t.clock.Now().Add(-minuteWindow).UnixMilli()

	count := 0
	for _, ts := range w.RequestHistory {
		if ts > cutoff {
			count++
		}
	}
	return count
}

// CanMakeRequest checks both sub-limits. The daily limit takes precedence
// when both are exhausted.
func (t *Tracker) CanMakeRequest() Decision {
	w := t.Window()
	recent := t.RecentRequestCount()

	dailyOK := w.DailyCount < t.dailyLimit
	minuteOK := recent < t.minuteLimit

	d := Decision{
		CanRequest:      dailyOK && minuteOK,
		Reason:          ReasonNone,
		RemainingDaily:  clampZero(t.dailyLimit - w.DailyCount),
		RemainingMinute: clampZero(t.minuteLimit - recent),
	}
	if !dailyOK {
		d.Reason = ReasonDailyLimit
	} else if !minuteOK {
		d.Reason = ReasonMinuteLimit
	}
	return d
}

// RecordRequest counts one sent request: appends the current timestamp,
// bumps the daily counter, prunes history older than the minute window, and
// persists. Call it exactly once per request actually sent, not per attempt.
func (t *Tracker) RecordRequest() error {
	w := t.Window()
	now := t.clock.Now()

	w.RequestHistory = append(w.RequestHistory, now.UnixMilli())
	w.DailyCount++

	cutoff := now.Add(-minuteWindow).UnixMilli()
	pruned := w.RequestHistory[:0]
	for _, ts := range w.RequestHistory {
		if ts > cutoff {
			pruned = append(pruned, ts)
		}
	}
	w.RequestHistory = pruned

	return t.persistErr(w)
}

// Stats returns the usage snapshot with reset times for display.
func (t *Tracker) Stats() Stats {
	w := t.Window()
	recent := t.RecentRequestCount()
	now := t.clock.Now()

	return Stats{
		Daily:           windowStats(w.DailyCount, t.dailyLimit),
		Minute:          windowStats(recent, t.minuteLimit),
		NextDailyReset:  nextLocalMidnight(now),
		NextMinuteReset: now.Truncate(time.Minute).Add(time.Minute),
	}
}

// LimitMessage maps a denial reason to a user-facing notice with the
// relevant reset time.
func (t *Tracker) LimitMessage(reason Reason) LimitNotice {
	now := t.clock.Now()

	switch reason {
	case ReasonDailyLimit:
		reset := nextLocalMidnight(now)
		return LimitNotice{
			Title:   "Daily limit reached",
			Message: fmt.Sprintf("You have used all %d suggestions for today. The limit resets at midnight.", t.dailyLimit),
			ResetAt: &reset,
		}
	case ReasonMinuteLimit:
		reset := now.Truncate(time.Minute).Add(time.Minute)
		return LimitNotice{
			Title:   "Slow down",
			Message: fmt.Sprintf("You can make at most %d suggestions per minute. Try again shortly.", t.minuteLimit),
			ResetAt: &reset,
		}
	default:
		return LimitNotice{}
	}
}

// Reset clears all persisted usage state.
func (t *Tracker) Reset() error {
	return t.store.Clear()
}

func (t *Tracker) persist(w UsageWindow) {
	// Best effort; a failed write only costs local accuracy, the server
	// counter still enforces the cap.
	_ = t.persistErr(w)
}

func (t *Tracker) persistErr(w UsageWindow) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshaling usage window: %w", err)
	}
	if err := t.store.Save(data); err != nil {
		return fmt.Errorf("saving usage window: %w", err)
	}
	return nil
}

func windowStats(used, limit int) WindowStats {
	return WindowStats{
		Used:      used,
		Limit:     limit,
		Remaining: clampZero(limit - used),
		Percent:   int(math.Round(float64(used) / float64(limit) * 100)),
	}
}

func nextLocalMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
