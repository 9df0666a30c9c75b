package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tripweave-app/tripweave/internal/api"
	"github.com/tripweave-app/tripweave/internal/events"
)

// Service implements workspace and idea operations with membership checks.
type Service struct {
	repo      Repository
	publisher *events.Publisher
}

// NewService creates a trips service. publisher may be nil.
func NewService(repo Repository, publisher *events.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

func (s *Service) requireMember(ctx context.Context, workspaceID, userID uuid.UUID) error {
	ok, err := s.repo.IsMember(ctx, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("checking workspace membership: %w", err)
	}
	if !ok {
		return api.ErrNotWorkspaceMember
	}
	return nil
}

// CreateWorkspace creates a workspace owned by userID.
func (s *Service) CreateWorkspace(ctx context.Context, userID uuid.UUID, req CreateWorkspaceRequest) (*Workspace, error) {
	ws := &Workspace{ID: uuid.New(), Name: req.Name, OwnerID: userID}
	if err := s.repo.CreateWorkspace(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// ListWorkspaces returns the workspaces userID belongs to.
func (s *Service) ListWorkspaces(ctx context.Context, userID uuid.UUID) ([]Workspace, error) {
	return s.repo.ListWorkspaces(ctx, userID)
}

// GetWorkspace returns a workspace the user is a member of.
func (s *Service) GetWorkspace(ctx context.Context, workspaceID, userID uuid.UUID) (*Workspace, error) {
	if err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	ws, err := s.repo.GetWorkspace(ctx, workspaceID)
	if errors.Is(err, ErrNotFound) {
		return nil, api.ErrNotFound
	}
	return ws, err
}

// CreateIdea adds a new idea to a workspace in the proposed stage.
func (s *Service) CreateIdea(ctx context.Context, workspaceID, userID uuid.UUID, req CreateIdeaRequest) (*Idea, error) {
	if err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	idea := &Idea{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      StatusProposed,
	}
	if err := s.repo.CreateIdea(ctx, idea); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishIdeaCreated(ctx, events.IdeaEvent{
		IdeaID:      idea.ID,
		WorkspaceID: workspaceID,
		ActorUserID: userID,
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		slog.Warn("publishing idea created event", "error", err)
	}

	return idea, nil
}

// ListIdeas returns the ideas in a workspace.
func (s *Service) ListIdeas(ctx context.Context, workspaceID, userID uuid.UUID) ([]Idea, error) {
	if err := s.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListIdeas(ctx, workspaceID)
}

// GetIdea returns one idea, enforcing workspace membership.
func (s *Service) GetIdea(ctx context.Context, ideaID, userID uuid.UUID) (*Idea, error) {
	idea, err := s.repo.GetIdea(ctx, ideaID)
	if errors.Is(err, ErrNotFound) {
		return nil, api.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, idea.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return idea, nil
}

// PromoteIdea moves an idea to a later pipeline stage. Moving backwards or
// staying in place is rejected.
func (s *Service) PromoteIdea(ctx context.Context, ideaID, userID uuid.UUID, target IdeaStatus) (*Idea, error) {
	if !ValidStatus(target) {
		return nil, api.NewValidationError(fmt.Sprintf("unknown status %q", target))
	}

	idea, err := s.GetIdea(ctx, ideaID, userID)
	if err != nil {
		return nil, err
	}

	if statusOrder[target] <= statusOrder[idea.Status] {
		return nil, api.NewConflictError(
			fmt.Sprintf("cannot move idea from %s to %s", idea.Status, target))
	}

	if err := s.repo.UpdateIdeaStatus(ctx, ideaID, target); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, api.ErrNotFound
		}
		return nil, err
	}
	idea.Status = target

	if err := s.publisher.PublishIdeaStatusChanged(ctx, events.IdeaEvent{
		IdeaID:      idea.ID,
		WorkspaceID: idea.WorkspaceID,
		ActorUserID: userID,
		Status:      string(target),
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		slog.Warn("publishing idea status event", "error", err)
	}

	return idea, nil
}

// DeleteIdea removes an idea. Only its creator or the workspace owner may
// delete it.
func (s *Service) DeleteIdea(ctx context.Context, ideaID, userID uuid.UUID) error {
	idea, err := s.GetIdea(ctx, ideaID, userID)
	if err != nil {
		return err
	}

	if idea.CreatorID != userID {
		ws, err := s.repo.GetWorkspace(ctx, idea.WorkspaceID)
		if err != nil {
			return err
		}
		if ws.OwnerID != userID {
			return api.ErrForbidden
		}
	}

	if err := s.repo.DeleteIdea(ctx, ideaID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return api.ErrNotFound
		}
		return err
	}
	return nil
}

// CreateProposal attaches a proposal to an idea.
func (s *Service) CreateProposal(ctx context.Context, ideaID, userID uuid.UUID, req CreateProposalRequest) (*Proposal, error) {
	if _, err := s.GetIdea(ctx, ideaID, userID); err != nil {
		return nil, err
	}

	p := &Proposal{
		ID:       uuid.New(),
		IdeaID:   ideaID,
		AuthorID: userID,
		Kind:     req.Kind,
		Content:  req.Content,
	}
	if err := s.repo.CreateProposal(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListProposals returns an idea's proposals.
func (s *Service) ListProposals(ctx context.Context, ideaID, userID uuid.UUID) ([]Proposal, error) {
	if _, err := s.GetIdea(ctx, ideaID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListProposals(ctx, ideaID)
}

// LikeIdea records a like. Liking twice is a no-op.
func (s *Service) LikeIdea(ctx context.Context, ideaID, userID uuid.UUID) error {
	if _, err := s.GetIdea(ctx, ideaID, userID); err != nil {
		return err
	}
	return s.repo.AddLike(ctx, ideaID, userID)
}

// UnlikeIdea removes a like. Removing a nonexistent like is a no-op.
func (s *Service) UnlikeIdea(ctx context.Context, ideaID, userID uuid.UUID) error {
	if _, err := s.GetIdea(ctx, ideaID, userID); err != nil {
		return err
	}
	return s.repo.RemoveLike(ctx, ideaID, userID)
}
