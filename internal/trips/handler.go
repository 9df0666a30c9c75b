package trips

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tripweave-app/tripweave/internal/api"
	"github.com/tripweave-app/tripweave/internal/auth"
)

type Handler struct {
	service  *Service
	validate *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

// currentUserID pulls the authenticated user id from the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		return uuid.Nil, api.ErrUnauthorized
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, api.ErrUnauthorized
	}
	return id, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, api.NewBadRequestError("invalid " + name)
	}
	return id, nil
}

func (h *Handler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	var req CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	ws, err := h.service.CreateWorkspace(r.Context(), userID, req)
	if err != nil {
		slog.Error("creating workspace", "error", err)
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, ws)
}

func (h *Handler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	list, err := h.service.ListWorkspaces(r.Context(), userID)
	if err != nil {
		slog.Error("listing workspaces", "error", err)
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, list)
}

func (h *Handler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	workspaceID, err := pathUUID(r, "workspaceID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	ws, err := h.service.GetWorkspace(r.Context(), workspaceID, userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, ws)
}

func (h *Handler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	workspaceID, err := pathUUID(r, "workspaceID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	var req CreateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	idea, err := h.service.CreateIdea(r.Context(), workspaceID, userID, req)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, idea)
}

func (h *Handler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	workspaceID, err := pathUUID(r, "workspaceID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	list, err := h.service.ListIdeas(r.Context(), workspaceID, userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, list)
}

func (h *Handler) GetIdea(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	ideaID, err := pathUUID(r, "ideaID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	idea, err := h.service.GetIdea(r.Context(), ideaID, userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, idea)
}

func (h *Handler) PromoteIdea(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	ideaID, err := pathUUID(r, "ideaID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	var req PromoteIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	idea, err := h.service.PromoteIdea(r.Context(), ideaID, userID, req.Status)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, idea)
}

func (h *Handler) DeleteIdea(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	ideaID, err := pathUUID(r, "ideaID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.service.DeleteIdea(r.Context(), ideaID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSONMessage(w, http.StatusOK, "idea deleted")
}

func (h *Handler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	ideaID, err := pathUUID(r, "ideaID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	var req CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	p, err := h.service.CreateProposal(r.Context(), ideaID, userID, req)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, p)
}

func (h *Handler) ListProposals(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	ideaID, err := pathUUID(r, "ideaID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	list, err := h.service.ListProposals(r.Context(), ideaID, userID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, list)
}

func (h *Handler) LikeIdea(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	ideaID, err := pathUUID(r, "ideaID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.service.LikeIdea(r.Context(), ideaID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSONMessage(w, http.StatusOK, "liked")
}

func (h *Handler) UnlikeIdea(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	ideaID, err := pathUUID(r, "ideaID")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	if err := h.service.UnlikeIdea(r.Context(), ideaID, userID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSONMessage(w, http.StatusOK, "unliked")
}
