package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tripweave-app/tripweave/internal/ai"
	"github.com/tripweave-app/tripweave/internal/events"
	"github.com/tripweave-app/tripweave/internal/metrics"
)

// ValidationError reports required request fields that were missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// QuotaExceededError reports that the caller's daily quota is spent.
type QuotaExceededError struct {
	Usage DailyUsage
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily quota exceeded: %d/%d used", e.Usage.Used, e.Usage.Limit)
}

// Result is a generated suggestion plus the usage snapshot after counting it.
type Result struct {
	Suggestion string
	Usage      DailyUsage
}

// Service generates trip suggestions behind the daily quota guard.
type Service struct {
	repo       Repository
	completer  ai.Completer
	publisher  *events.Publisher
	dailyLimit int
	now        func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithNow overrides the time source.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a suggestion service. publisher may be nil.
func NewService(repo Repository, completer ai.Completer, publisher *events.Publisher, dailyLimit int, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		completer:  completer,
		publisher:  publisher,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// today returns the current UTC date key. The server counts in UTC
// regardless of the caller's local day.
func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}

func (s *Service) snapshot(used int) DailyUsage {
	remaining := s.dailyLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return DailyUsage{Used: used, Limit: s.dailyLimit, Remaining: remaining}
}

// Usage returns the caller's current daily usage snapshot.
func (s *Service) Usage(ctx context.Context, userID string) (DailyUsage, error) {
	used, err := s.repo.DailyCount(ctx, userID, s.today())
	if err != nil {
		return DailyUsage{}, err
	}
	return s.snapshot(used), nil
}

// Generate validates the request, checks the daily quota, calls the
// completion provider, and counts the request. The counter is only bumped
// after a usable completion arrived; a failed increment is logged but does
// not fail the request, since the user already paid the provider latency.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	date := s.today()

	used, err := s.repo.DailyCount(ctx, req.UserID, date)
	if err != nil {
		metrics.SuggestionsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("checking daily quota: %w", err)
	}
	if used >= s.dailyLimit {
		metrics.QuotaDenialsTotal.WithLabelValues("server_daily").Inc()
		return nil, &QuotaExceededError{Usage: s.snapshot(used)}
	}

	text, err := s.completer.Complete(ctx, systemPrompt, BuildPrompt(req))
	if err != nil {
		metrics.SuggestionsTotal.WithLabelValues("provider_error").Inc()
		return nil, fmt.Errorf("generating suggestion: %w", err)
	}

	if err := s.repo.IncrementDaily(ctx, req.UserID, date); err != nil {
		// The suggestion was already produced. Swallowing the bookkeeping
		// failure under-counts this user by at most one request today.
		slog.Warn("usage increment failed after successful generation",
			"user_id", req.UserID, "date", date, "error", err)
	}
	used++

	metrics.SuggestionsTotal.WithLabelValues("success").Inc()

	if err := s.publisher.PublishSuggestionGenerated(ctx, events.SuggestionEvent{
		UserID:    req.UserID,
		PlanType:  req.PlanType,
		Location:  req.Location,
		DailyUsed: used,
		Timestamp: s.now().UTC(),
	}); err != nil {
		slog.Warn("publishing suggestion event", "error", err)
	}

	return &Result{Suggestion: text, Usage: s.snapshot(used)}, nil
}
