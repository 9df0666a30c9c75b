package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tripweave-app/tripweave/internal/api"
)

// Handler exposes the suggestion endpoints. They take an explicit userId
// instead of a bearer token so the web client can call them before the
// account layer loads; the persisted server counter is the real gate.
type Handler struct {
	service *Service
}

// NewHandler creates a new suggestion handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Generate handles POST /api/v1/suggestions.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.JSONRaw(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid JSON body",
		})
		return
	}

	result, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.writeGenerateError(w, req, err)
		return
	}

	api.JSONRaw(w, http.StatusOK, GenerateResponse{
		Success:    true,
		Suggestion: result.Suggestion,
		Usage:      Usage{Daily: result.Usage},
	})
}

func (h *Handler) writeGenerateError(w http.ResponseWriter, req Request, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		api.JSONRaw(w, http.StatusBadRequest, ErrorResponse{
			Error:    ve.Error(),
			Received: req.Received(),
		})
		return
	}

	var qe *QuotaExceededError
	if errors.As(err, &qe) {
		usage := Usage{Daily: qe.Usage}
		api.JSONRaw(w, http.StatusTooManyRequests, ErrorResponse{
			Error: "quota_exceeded",
			Message: fmt.Sprintf("Daily limit of %d suggestions reached. Quota resets at midnight UTC.",
				qe.Usage.Limit),
			Usage: &usage,
		})
		return
	}

	slog.Error("suggestion generation failed", "user_id", req.UserID, "error", err)
	api.JSONRaw(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "generation_failed",
		Details: err.Error(),
	})
}

// Quota handles GET /api/v1/suggestions/quota.
func (h *Handler) Quota(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		api.JSONRaw(w, http.StatusBadRequest, ErrorResponse{
			Error: "userId is required",
		})
		return
	}

	usage, err := h.service.Usage(r.Context(), userID)
	if err != nil {
		slog.Error("quota lookup failed", "user_id", userID, "error", err)
		api.JSONRaw(w, http.StatusInternalServerError, ErrorResponse{
			Error: "quota_lookup_failed",
		})
		return
	}

	api.JSONRaw(w, http.StatusOK, QuotaResponse{
		Success: true,
		Usage:   Usage{Daily: usage},
	})
}
