package trips

import (
	"time"

	"github.com/google/uuid"
)

// IdeaStatus is the pipeline stage of a trip idea. Transitions only move
// forward; skipping stages is allowed, going back is not.
type IdeaStatus string

const (
	StatusProposed   IdeaStatus = "proposed"
	StatusDiscussing IdeaStatus = "discussing"
	StatusPlanned    IdeaStatus = "planned"
	StatusConfirmed  IdeaStatus = "confirmed"
)

var statusOrder = map[IdeaStatus]int{
	StatusProposed:   0,
	StatusDiscussing: 1,
	StatusPlanned:    2,
	StatusConfirmed:  3,
}

// ValidStatus reports whether s is a known pipeline stage.
func ValidStatus(s IdeaStatus) bool {
	_, ok := statusOrder[s]
	return ok
}

// ProposalKind classifies a proposal attached to an idea.
type ProposalKind string

const (
	ProposalPeriod  ProposalKind = "period"
	ProposalTodo    ProposalKind = "todo"
	ProposalNotTodo ProposalKind = "not_todo"
	ProposalBudget  ProposalKind = "budget"
)

// Workspace is a shared planning space for a group of travelers.
type Workspace struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Idea is a trip idea inside a workspace.
type Idea struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	CreatorID   uuid.UUID  `json:"creator_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      IdeaStatus `json:"status"`
	LikeCount   int        `json:"like_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Proposal is a concrete detail attached to an idea.
type Proposal struct {
	ID        uuid.UUID    `json:"id"`
	IdeaID    uuid.UUID    `json:"idea_id"`
	AuthorID  uuid.UUID    `json:"author_id"`
	Kind      ProposalKind `json:"kind"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}

// CreateWorkspaceRequest is the payload for creating a workspace.
type CreateWorkspaceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// CreateIdeaRequest is the payload for creating an idea.
type CreateIdeaRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=4000"`
}

// PromoteIdeaRequest moves an idea to a later pipeline stage.
type PromoteIdeaRequest struct {
	Status IdeaStatus `json:"status" validate:"required,oneof=proposed discussing planned confirmed"`
}

// CreateProposalRequest is the payload for attaching a proposal.
type CreateProposalRequest struct {
	Kind    ProposalKind `json:"kind" validate:"required,oneof=period todo not_todo budget"`
	Content string       `json:"content" validate:"required,min=1,max=2000"`
}
