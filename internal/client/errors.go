package client

import (
	"errors"
	"strings"
	"time"

	"github.com/tripweave-app/tripweave/internal/tracker"
)

// ErrAuthRequired means no user id is available yet; callers should prompt
// for sign-in before retrying.
var ErrAuthRequired = errors.New("client: sign in to request suggestions")

// ErrGenerationFailed wraps server-side failures that are not quota or
// validation problems.
var ErrGenerationFailed = errors.New("client: suggestion generation failed")

// ValidationError reports required fields missing from the request.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "client: missing required fields: " + strings.Join(e.Missing, ", ")
}

// QuotaError is returned when either the local gate or the server refused
// the request for quota reasons. Message is suitable for direct display.
type QuotaError struct {
	Reason  tracker.Reason
	Message string
	ResetAt *time.Time
}

func (e *QuotaError) Error() string {
	return "client: " + string(e.Reason) + ": " + e.Message
}
