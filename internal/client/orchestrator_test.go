package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweave-app/tripweave/internal/suggest"
	"github.com/tripweave-app/tripweave/internal/tracker"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newLocalTracker(opts ...tracker.Option) *tracker.Tracker {
	base := []tracker.Option{
		tracker.WithClock(fixedClock{now: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)}),
	}
	return tracker.New(tracker.NewMemStore(), append(base, opts...)...)
}

func validRequest() suggest.Request {
	return suggest.Request{
		PlanType:     "BBQ",
		Participants: "6 friends",
		Duration:     "one afternoon",
		Location:     "Tokyo",
		UserID:       "u1",
	}
}

func TestGenerate_Success(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/api/v1/suggestions", r.URL.Path)

		var req suggest.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u1", req.UserID)

		json.NewEncoder(w).Encode(suggest.GenerateResponse{
			Success:    true,
			Suggestion: "Grill by the river.",
			Usage:      suggest.Usage{Daily: suggest.DailyUsage{Used: 1, Limit: 15, Remaining: 14}},
		})
	}))
	defer srv.Close()

	tr := newLocalTracker()
	o := New(srv.URL, tr)

	result, err := o.Generate(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Grill by the river.", result.Suggestion)
	assert.Equal(t, suggest.DailyUsage{Used: 1, Limit: 15, Remaining: 14}, result.Usage)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1, tr.Window().DailyCount, "sent request is recorded locally")
}

func TestGenerate_AuthRequired(t *testing.T) {
	o := New("http://unused", newLocalTracker())

	req := validRequest()
	req.UserID = ""

	_, err := o.Generate(context.Background(), req)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestGenerate_LocalValidation(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	tr := newLocalTracker()
	o := New(srv.URL, tr)

	req := validRequest()
	req.Location = ""

	_, err := o.Generate(context.Background(), req)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"location"}, ve.Missing)
	assert.Zero(t, hits.Load(), "invalid requests never reach the network")
	assert.Zero(t, tr.Window().DailyCount)
}

func TestGenerate_LocalGateBlocksBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	tr := newLocalTracker(tracker.WithLimits(2, 15))
	require.NoError(t, tr.RecordRequest())
	require.NoError(t, tr.RecordRequest())

	o := New(srv.URL, tr)

	_, err := o.Generate(context.Background(), validRequest())

	var qe *QuotaError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, tracker.ReasonDailyLimit, qe.Reason)
	assert.NotEmpty(t, qe.Message)
	require.NotNil(t, qe.ResetAt)
	assert.Zero(t, hits.Load(), "blocked requests never reach the network")
}

func TestGenerate_ServerQuotaMessagePassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		usage := suggest.Usage{Daily: suggest.DailyUsage{Used: 15, Limit: 15, Remaining: 0}}
		json.NewEncoder(w).Encode(suggest.ErrorResponse{
			Error:   "quota_exceeded",
			Message: "Daily limit of 15 suggestions reached. Quota resets at midnight UTC.",
			Usage:   &usage,
		})
	}))
	defer srv.Close()

	tr := newLocalTracker()
	o := New(srv.URL, tr)

	_, err := o.Generate(context.Background(), validRequest())

	var qe *QuotaError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, "Daily limit of 15 suggestions reached. Quota resets at midnight UTC.", qe.Message)
	assert.Equal(t, 1, tr.Window().DailyCount, "the request was sent, so it counts locally")
}

func TestGenerate_ServerValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(suggest.ErrorResponse{
			Error: "missing required fields: location",
			Received: map[string]bool{
				"planType": true, "participants": true, "duration": true,
				"location": false, "userId": true,
			},
		})
	}))
	defer srv.Close()

	o := New(srv.URL, newLocalTracker())

	_, err := o.Generate(context.Background(), validRequest())

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"location"}, ve.Missing)
}

func TestGenerate_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(suggest.ErrorResponse{
			Error:   "generation_failed",
			Details: "provider timeout",
		})
	}))
	defer srv.Close()

	o := New(srv.URL, newLocalTracker())

	_, err := o.Generate(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "provider timeout")
}

func TestQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/suggestions/quota", r.URL.Path)
		assert.Equal(t, "u1", r.URL.Query().Get("userId"))
		json.NewEncoder(w).Encode(suggest.QuotaResponse{
			Success: true,
			Usage:   suggest.Usage{Daily: suggest.DailyUsage{Used: 5, Limit: 15, Remaining: 10}},
		})
	}))
	defer srv.Close()

	o := New(srv.URL, newLocalTracker())

	usage, err := o.Quota(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, suggest.DailyUsage{Used: 5, Limit: 15, Remaining: 10}, usage)
}

func TestQuota_AuthRequired(t *testing.T) {
	o := New("http://unused", newLocalTracker())

	_, err := o.Quota(context.Background(), "")
	assert.ErrorIs(t, err, ErrAuthRequired)
}
