// Package client is the request side of the suggestion flow: it runs the
// local quota gate before spending a network round trip, records sent
// requests in the local tracker, and translates server responses into typed
// errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tripweave-app/tripweave/internal/suggest"
	"github.com/tripweave-app/tripweave/internal/tracker"
)

// Result is a generated suggestion plus the server's usage snapshot. The
// server snapshot wins over the local tracker's view.
type Result struct {
	Suggestion string
	Usage      suggest.DailyUsage
}

// Orchestrator coordinates the local tracker with the suggestion API.
type Orchestrator struct {
	baseURL    string
	tracker    *tracker.Tracker
	httpClient *http.Client
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Orchestrator) { o.httpClient = c }
}

// New creates an orchestrator talking to the API at baseURL.
func New(baseURL string, tr *tracker.Tracker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tracker:    tr,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Tracker exposes the local tracker for stats display.
func (o *Orchestrator) Tracker() *tracker.Tracker { return o.tracker }

// Generate runs the full request flow: local validation, local quota gate,
// HTTP call, local bookkeeping. The tracker records exactly one request per
// call that actually reached the network.
func (o *Orchestrator) Generate(ctx context.Context, req suggest.Request) (*Result, error) {
	if req.UserID == "" {
		return nil, ErrAuthRequired
	}
	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	if d := o.tracker.CanMakeRequest(); !d.CanRequest {
		notice := o.tracker.LimitMessage(d.Reason)
		return nil, &QuotaError{Reason: d.Reason, Message: notice.Message, ResetAt: notice.ResetAt}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling suggestion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.baseURL+"/api/v1/suggestions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building suggestion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling suggestion API: %w", err)
	}
	defer resp.Body.Close()

	// The request reached the server, so it counts locally whatever the
	// outcome. The server only charges its own counter on success.
	if err := o.tracker.RecordRequest(); err != nil {
		return nil, fmt.Errorf("recording local usage: %w", err)
	}

	return o.decodeGenerate(resp)
}

func (o *Orchestrator) decodeGenerate(resp *http.Response) (*Result, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading suggestion response: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		var ok suggest.GenerateResponse
		if err := json.Unmarshal(raw, &ok); err != nil {
			return nil, fmt.Errorf("decoding suggestion response: %w", err)
		}
		return &Result{Suggestion: ok.Suggestion, Usage: ok.Usage.Daily}, nil
	}

	var fail suggest.ErrorResponse
	if err := json.Unmarshal(raw, &fail); err != nil {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrGenerationFailed, resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		// Pass the server message through verbatim so the user sees the
		// authoritative reason, not the local tracker's guess.
		msg := fail.Message
		if msg == "" {
			msg = fail.Error
		}
		return nil, &QuotaError{Reason: tracker.ReasonDailyLimit, Message: msg}
	case http.StatusBadRequest:
		var missing []string
		for field, present := range fail.Received {
			if !present {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			return nil, &ValidationError{Missing: missing}
		}
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, fail.Error)
	default:
		detail := fail.Error
		if fail.Details != "" {
			detail += ": " + fail.Details
		}
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, detail)
	}
}

// Quota fetches the server-side usage snapshot for the given user.
func (o *Orchestrator) Quota(ctx context.Context, userID string) (suggest.DailyUsage, error) {
	if userID == "" {
		return suggest.DailyUsage{}, ErrAuthRequired
	}

	u := o.baseURL + "/api/v1/suggestions/quota?userId=" + url.QueryEscape(userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return suggest.DailyUsage{}, fmt.Errorf("building quota request: %w", err)
	}

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return suggest.DailyUsage{}, fmt.Errorf("calling quota API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return suggest.DailyUsage{}, fmt.Errorf("%w: quota lookup returned %d", ErrGenerationFailed, resp.StatusCode)
	}

	var qr suggest.QuotaResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return suggest.DailyUsage{}, fmt.Errorf("decoding quota response: %w", err)
	}
	return qr.Usage.Daily, nil
}
