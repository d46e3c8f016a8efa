// Package model defines data structures for the career coach gateway.
package model

import (
	"time"
)

// Role represents the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single conversation turn. Messages are immutable
// once created; display order is timestamp order within a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChatRequest is the request to send a chat turn.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResult is a completed chat turn with its provenance.
type ChatResult struct {
	Message        Message    `json:"message"`
	ConversationID string     `json:"conversation_id,omitempty"`
	Provenance     Provenance `json:"provenance"`
}
