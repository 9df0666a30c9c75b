package events

import (
	"time"

	"github.com/google/uuid"
)

// Stream name.
const StreamEvents = "TRIPWEAVE_EVENTS"

// Subject constants.
const (
	SubjectIdeaCreated         = "tripweave.events.idea.created"
	SubjectIdeaStatusChanged   = "tripweave.events.idea.status"
	SubjectSuggestionGenerated = "tripweave.events.suggestion.generated"
)

// IdeaEvent is published on idea lifecycle changes so connected clients can
// refresh their workspace views.
type IdeaEvent struct {
	IdeaID      uuid.UUID `json:"idea_id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	ActorUserID uuid.UUID `json:"actor_user_id"`
	Status      string    `json:"status,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// SuggestionEvent is published after a suggestion was generated.
type SuggestionEvent struct {
	UserID    string    `json:"user_id"`
	PlanType  string    `json:"plan_type"`
	Location  string    `json:"location"`
	DailyUsed int       `json:"daily_used"`
	Timestamp time.Time `json:"timestamp"`
}
