package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
)

func reply(content, conversationID string) model.Message {
	return model.Message{
		ID:             "reply-" + content,
		ConversationID: conversationID,
		Role:           model.RoleAssistant,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

func TestFirstSuccessfulTurnBindsConversation(t *testing.T) {
	m := NewManager("u1", "", 8)
	require.False(t, m.Bound())

	m.AppendOptimistic("hi")
	m.Commit(reply("hello", "conv-1"), "conv-1")

	require.True(t, m.Bound())
	require.Equal(t, "conv-1", m.ConversationID())

	messages := m.Messages()
	require.Len(t, messages, 2)
	require.Equal(t, model.RoleUser, messages[0].Role)
	require.Equal(t, model.RoleAssistant, messages[1].Role)
	require.Equal(t, "conv-1", messages[1].ConversationID)
}

func TestBoundConversationKeepsItsIdentifier(t *testing.T) {
	m := NewManager("u1", "", 8)
	m.AppendOptimistic("hi")
	m.Commit(reply("hello", "conv-1"), "conv-1")

	m.AppendOptimistic("more")
	m.Commit(reply("sure", "conv-2"), "conv-2")

	require.Equal(t, "conv-1", m.ConversationID())
	last := m.Messages()[3]
	require.Equal(t, "conv-1", last.ConversationID)
}

func TestFailedTurnRetainsOptimisticMessageAndInput(t *testing.T) {
	m := NewManager("u1", "conv-1", 8)

	m.AppendOptimistic("does this work")
	m.MarkFailed("does this work")

	require.Len(t, m.Messages(), 1)
	input, failed := m.Failure()
	require.True(t, failed)
	require.Equal(t, "does this work", input)

	// The next attempt clears the failure marker.
	m.AppendOptimistic("retry")
	_, failed = m.Failure()
	require.False(t, failed)
}

func TestWindowBoundsTrailingContext(t *testing.T) {
	m := NewManager("u1", "conv-1", 3)
	for i := 0; i < 5; i++ {
		m.AppendOptimistic(fmt.Sprintf("msg-%d", i))
	}

	window := m.Window()
	require.Len(t, window, 3)
	require.Equal(t, "msg-2", window[0].Content)
	require.Equal(t, "msg-4", window[2].Content)
	require.Len(t, m.Messages(), 5)
}

func TestApplyLoadReplacesWholesale(t *testing.T) {
	m := NewManager("u1", "conv-1", 8)
	m.AppendOptimistic("stale local copy")

	epoch := m.BeginLoad()
	loaded := []model.Message{
		{ID: "1", ConversationID: "conv-1", Role: model.RoleUser, Content: "hi"},
		{ID: "2", ConversationID: "conv-1", Role: model.RoleAssistant, Content: "hello"},
	}
	require.True(t, m.ApplyLoad(epoch, "conv-1", loaded))

	messages := m.Messages()
	require.Len(t, messages, 2)
	require.Equal(t, "hi", messages[0].Content)
}

func TestApplyLoadRejectsStaleEpoch(t *testing.T) {
	m := NewManager("u1", "conv-1", 8)

	stale := m.BeginLoad()
	current := m.BeginLoad()

	require.False(t, m.ApplyLoad(stale, "conv-1", []model.Message{{ID: "old"}}))
	require.Empty(t, m.Messages())

	require.True(t, m.ApplyLoad(current, "conv-1", []model.Message{{ID: "new"}}))
	require.Len(t, m.Messages(), 1)
}

func TestApplyLoadRejectsWrongConversation(t *testing.T) {
	m := NewManager("u1", "conv-1", 8)

	epoch := m.BeginLoad()
	require.False(t, m.ApplyLoad(epoch, "conv-2", []model.Message{{ID: "x"}}))
	require.Empty(t, m.Messages())
}

func TestApplyLoadRejectsUnboundConversation(t *testing.T) {
	m := NewManager("u1", "", 8)

	epoch := m.BeginLoad()
	require.False(t, m.ApplyLoad(epoch, "conv-1", []model.Message{{ID: "x"}}))
}

func TestSendSlotIsExclusive(t *testing.T) {
	m := NewManager("u1", "conv-1", 8)

	require.True(t, m.TryBeginSend())
	require.False(t, m.TryBeginSend())
	m.EndSend()
	require.True(t, m.TryBeginSend())
}

func TestRegistryActivateReplacesManager(t *testing.T) {
	r := NewRegistry(8)

	first := r.Active("u1")
	require.Same(t, first, r.Active("u1"))
	first.AppendOptimistic("in-memory only")

	// Switching conversations discards the previous instance; a stale load
	// applied to it never reaches the new one.
	staleEpoch := first.BeginLoad()
	second := r.Activate("u1", "conv-2")
	require.NotSame(t, first, second)
	require.Equal(t, "conv-2", second.ConversationID())
	require.Empty(t, second.Messages())

	first.ApplyLoad(staleEpoch, "conv-1", []model.Message{{ID: "late"}})
	require.Empty(t, second.Messages())
	require.Same(t, second, r.Active("u1"))
}
