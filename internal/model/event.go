package model

import (
	"time"
)

// EventType represents the type of gateway event.
type EventType string

const (
	EventTypeTurn     EventType = "turn"
	EventTypeFallback EventType = "fallback"
	EventTypeFailure  EventType = "failure"
)

// GatewayEvent is an audit record of gateway activity. Events mirror what
// happened; the RAG backend remains the durable owner of conversations.
type GatewayEvent struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id,omitempty"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Operation      string    `json:"operation"`
	Type           EventType `json:"type"`
	Source         Source    `json:"source,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
