package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher provides typed methods for publishing events to NATS JetStream.
// A nil Publisher is safe to call; publishes become no-ops so the API keeps
// working when NATS is not configured.
type Publisher struct {
	js jetstream.JetStream
}

// NewPublisher creates a new Publisher.
func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishIdeaCreated publishes an idea creation event.
func (p *Publisher) PublishIdeaCreated(ctx context.Context, event IdeaEvent) error {
	return p.publish(ctx, SubjectIdeaCreated, event)
}

// PublishIdeaStatusChanged publishes an idea status transition.
func (p *Publisher) PublishIdeaStatusChanged(ctx context.Context, event IdeaEvent) error {
	return p.publish(ctx, SubjectIdeaStatusChanged, event)
}

// PublishSuggestionGenerated publishes a completed suggestion generation.
func (p *Publisher) PublishSuggestionGenerated(ctx context.Context, event SuggestionEvent) error {
	return p.publish(ctx, SubjectSuggestionGenerated, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	_, err = p.js.Publish(ctx, subject, payload)
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
