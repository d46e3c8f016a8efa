// Package state owns the in-memory conversation state for the active chat.
// The backend is the durable owner of conversation records; after a round
// trip the manager reconciles to what the backend returned.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/metrics"
)

// Manager tracks one conversation: its identifier, the in-memory message
// list, and the optimistic-update bookkeeping. A conversation starts
// unbound (no identifier) and is bound by the first successful turn that
// returns one; a bound conversation is never re-unbound. Switching
// conversations replaces the Manager instance (see Registry).
type Manager struct {
	mu sync.Mutex

	userID         string
	conversationID string
	messages       []model.Message
	window         int

	loadEpoch uint64
	sending   bool

	failed      bool
	failedInput string
}

// NewManager creates a manager. conversationID may be empty for the
// new-conversation state.
func NewManager(userID, conversationID string, window int) *Manager {
	return &Manager{
		userID:         userID,
		conversationID: conversationID,
		window:         window,
	}
}

// UserID returns the owning user, empty when anonymous.
func (m *Manager) UserID() string {
	return m.userID
}

// ConversationID returns the bound identifier, empty while unbound.
func (m *Manager) ConversationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conversationID
}

// Bound reports whether the conversation has a backend identifier.
func (m *Manager) Bound() bool {
	return m.ConversationID() != ""
}

// Window returns the bounded trailing context to send upstream: at most the
// configured number of most recent messages.
func (m *Manager) Window() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := 0
	if len(m.messages) > m.window {
		start = len(m.messages) - m.window
	}
	out := make([]model.Message, len(m.messages)-start)
	copy(out, m.messages[start:])
	return out
}

// Messages returns a copy of the full in-memory list.
func (m *Manager) Messages() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// AppendOptimistic appends a user-authored message before the network call
// resolves and clears any prior failure marker.
func (m *Manager) AppendOptimistic(content string) model.Message {
	msg := model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      model.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	msg.ConversationID = m.conversationID
	m.messages = append(m.messages, msg)
	m.failed = false
	m.failedInput = ""
	m.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()
	return msg
}

// Commit appends the assistant reply and, if this was the first successful
// turn, upgrades the conversation to its backend identifier. A bound
// conversation keeps its identifier regardless of what a later reply claims.
func (m *Manager) Commit(reply model.Message, conversationID string) {
	m.mu.Lock()
	if m.conversationID == "" && conversationID != "" {
		m.conversationID = conversationID
	}
	reply.ConversationID = m.conversationID
	m.messages = append(m.messages, reply)
	m.failed = false
	m.failedInput = ""
	m.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()
}

// MarkFailed records a failed round trip. The optimistic message is
// retained, and the user's text is preserved so the input field can be
// restored for resubmission.
func (m *Manager) MarkFailed(input string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = true
	m.failedInput = input
}

// Failure returns the retained input text and whether the last turn failed.
func (m *Manager) Failure() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failedInput, m.failed
}

// BeginLoad starts a history load and returns its epoch token. A later
// load invalidates earlier tokens.
func (m *Manager) BeginLoad() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadEpoch++
	return m.loadEpoch
}

// ApplyLoad replaces the in-memory list wholesale with the fetched history,
// but only if the epoch is still current and the data belongs to this
// conversation. Stale or misdirected loads are dropped.
func (m *Manager) ApplyLoad(epoch uint64, conversationID string, messages []model.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.loadEpoch {
		return false
	}
	if m.conversationID == "" || conversationID != m.conversationID {
		return false
	}

	m.messages = make([]model.Message, len(messages))
	copy(m.messages, messages)
	return true
}

// TryBeginSend claims the single in-flight send slot for this conversation.
// The surface serializes same-kind operations; the core needs no further
// locking around the round trip itself.
func (m *Manager) TryBeginSend() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sending {
		return false
	}
	m.sending = true
	return true
}

// EndSend releases the in-flight send slot.
func (m *Manager) EndSend() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sending = false
}
