package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
)

const (
	// StreamName is the name of the gateway events stream.
	StreamName = "COACH_EVENTS"

	// SubjectPrefix is the prefix for all gateway event subjects.
	SubjectPrefix = "coach"
)

// Publisher publishes gateway events to JetStream. A nil Publisher is
// valid and drops everything, so callers need no configuration checks.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher over an established client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// EnsureStream ensures the events stream exists.
func (p *Publisher) EnsureStream(ctx context.Context) error {
	if p == nil {
		return nil
	}

	js := p.client.JetStream()
	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Gateway activity: turns, fallbacks, failures",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// Subject returns the subject for an event.
func Subject(userID, operation string, eventType model.EventType) string {
	if userID == "" {
		userID = "anonymous"
	}
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, userID, operation, eventType)
}

// Record publishes a gateway event, assigning its id and timestamp.
// Publish failures are logged and swallowed: the mirror never breaks a
// user-facing operation.
func (p *Publisher) Record(ctx context.Context, event model.GatewayEvent) {
	if p == nil {
		return
	}

	event.ID = uuid.Must(uuid.NewV7()).String()
	event.CreatedAt = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		p.client.logger.Warn("failed to marshal gateway event", zap.Error(err))
		return
	}

	subject := Subject(event.UserID, event.Operation, event.Type)
	if _, err := p.client.JetStream().Publish(ctx, subject, data); err != nil {
		p.client.logger.Warn("failed to publish gateway event",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
