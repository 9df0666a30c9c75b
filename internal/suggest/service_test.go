package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	counts       map[string]int
	countErr     error
	incrementErr error
	increments   int
}

func newStubRepo() *stubRepo {
	return &stubRepo{counts: map[string]int{}}
}

func (r *stubRepo) key(userID, date string) string { return userID + "|" + date }

func (r *stubRepo) DailyCount(_ context.Context, userID, date string) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.counts[r.key(userID, date)], nil
}

func (r *stubRepo) IncrementDaily(_ context.Context, userID, date string) error {
	if r.incrementErr != nil {
		return r.incrementErr
	}
	r.increments++
	r.counts[r.key(userID, date)]++
	return nil
}

type stubCompleter struct {
	text  string
	err   error
	calls int
}

func (c *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.text, nil
}

func validRequest() Request {
	return Request{
		PlanType:     "BBQ",
		Participants: "6 friends",
		Duration:     "one afternoon",
		Location:     "Tokyo",
		UserID:       "u1",
	}
}

func newTestService(repo Repository, completer *stubCompleter) *Service {
	fixed := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	return NewService(repo, completer, nil, 15, WithNow(func() time.Time { return fixed }))
}

func TestGenerate_Success(t *testing.T) {
	repo := newStubRepo()
	completer := &stubCompleter{text: "Day plan: grill by the river."}
	svc := newTestService(repo, completer)

	result, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Day plan: grill by the river.", result.Suggestion)
	assert.Equal(t, DailyUsage{Used: 1, Limit: 15, Remaining: 14}, result.Usage)
	assert.Equal(t, 1, repo.counts["u1|2026-08-29"])
}

func TestGenerate_MissingFields(t *testing.T) {
	repo := newStubRepo()
	completer := &stubCompleter{text: "plan"}
	svc := newTestService(repo, completer)

	req := validRequest()
	req.Location = ""
	req.UserID = ""

	_, err := svc.Generate(context.Background(), req)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"location", "userId"}, ve.Missing)
	assert.Zero(t, completer.calls, "provider must not be called for invalid requests")
	assert.Zero(t, repo.increments)
}

func TestGenerate_QuotaExceeded(t *testing.T) {
	repo := newStubRepo()
	repo.counts["u1|2026-08-29"] = 15
	completer := &stubCompleter{text: "plan"}
	svc := newTestService(repo, completer)

	_, err := svc.Generate(context.Background(), validRequest())

	var qe *QuotaExceededError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, DailyUsage{Used: 15, Limit: 15, Remaining: 0}, qe.Usage)
	assert.Zero(t, completer.calls, "provider must not be called once quota is spent")
	assert.Zero(t, repo.increments)
}

func TestGenerate_LastSlotThenReject(t *testing.T) {
	repo := newStubRepo()
	repo.counts["u1|2026-08-29"] = 14
	completer := &stubCompleter{text: "plan"}
	svc := newTestService(repo, completer)

	result, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, DailyUsage{Used: 15, Limit: 15, Remaining: 0}, result.Usage)

	_, err = svc.Generate(context.Background(), validRequest())
	var qe *QuotaExceededError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, 1, completer.calls)
}

func TestGenerate_ProviderErrorDoesNotCount(t *testing.T) {
	repo := newStubRepo()
	completer := &stubCompleter{err: errors.New("upstream down")}
	svc := newTestService(repo, completer)

	_, err := svc.Generate(context.Background(), validRequest())
	require.Error(t, err)
	assert.Zero(t, repo.increments, "failed generations never consume quota")
}

func TestGenerate_IncrementFailureStillReturnsSuggestion(t *testing.T) {
	repo := newStubRepo()
	repo.incrementErr = errors.New("db gone")
	completer := &stubCompleter{text: "plan"}
	svc := newTestService(repo, completer)

	result, err := svc.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "plan", result.Suggestion)
	assert.Equal(t, DailyUsage{Used: 1, Limit: 15, Remaining: 14}, result.Usage)
}

func TestGenerate_CountErrorFailsRequest(t *testing.T) {
	repo := newStubRepo()
	repo.countErr = errors.New("db gone")
	completer := &stubCompleter{text: "plan"}
	svc := newTestService(repo, completer)

	_, err := svc.Generate(context.Background(), validRequest())
	require.Error(t, err)
	assert.Zero(t, completer.calls, "quota check failures must not reach the provider")
}

func TestUsage(t *testing.T) {
	repo := newStubRepo()
	repo.counts["u1|2026-08-29"] = 3
	svc := newTestService(repo, &stubCompleter{})

	usage, err := svc.Usage(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, DailyUsage{Used: 3, Limit: 15, Remaining: 12}, usage)
}

func TestUsage_FreshUser(t *testing.T) {
	svc := newTestService(newStubRepo(), &stubCompleter{})

	usage, err := svc.Usage(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, DailyUsage{Used: 0, Limit: 15, Remaining: 15}, usage)
}
