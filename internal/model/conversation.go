package model

import (
	"time"
)

// Conversation represents a conversation summary. The backend assigns the
// identifier on the first successful turn; a conversation with an empty ID
// is the "new conversation" state.
type Conversation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LastUpdated time.Time `json:"last_updated"`
}

// Bound reports whether the conversation has a durable backend identifier.
func (c Conversation) Bound() bool {
	return c.ID != ""
}

// ListConversationsResponse is the response for listing conversation history.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}

// ListMessagesResponse is the ordered message list for one conversation.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}
