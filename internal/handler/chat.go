// Package handler provides HTTP handlers for the gateway API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/WaghmarePravinn/ai-career-coach/internal/apperr"
	"github.com/WaghmarePravinn/ai-career-coach/internal/gateway"
	"github.com/WaghmarePravinn/ai-career-coach/internal/identity"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
	"github.com/WaghmarePravinn/ai-career-coach/internal/state"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/logger"
)

// ChatHandler handles chat turn and conversation switching endpoints.
type ChatHandler struct {
	gateway  *gateway.Gateway
	registry *state.Registry
	resolver identity.Resolver
	logger   *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(gw *gateway.Gateway, reg *state.Registry, res identity.Resolver, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		gateway:  gw,
		registry: reg,
		resolver: res,
		logger:   log,
	}
}

// Send handles POST /api/v1/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := h.resolver.Resolve(ctx)

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mgr := h.registry.Active(user.ID)
	if req.ConversationID != "" && req.ConversationID != mgr.ConversationID() {
		mgr = h.registry.Activate(user.ID, req.ConversationID)
	}

	// The surface serializes same-kind operations: one in-flight send per
	// conversation.
	if !mgr.TryBeginSend() {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "a message is already in flight for this conversation",
		})
		return
	}
	defer mgr.EndSend()

	result, err := h.gateway.SendChatTurn(ctx, user, mgr, req.Message)
	if err != nil {
		h.logger.Warn("chat turn failed", zap.String("user_id", user.ID), zap.Error(err))
		h.writeChatError(w, mgr, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Activate handles POST /api/v1/conversations/{id}/activate. It switches
// the active conversation to a fresh state instance and loads its history;
// the epoch guard drops the result if another switch wins the race.
func (h *ChatHandler) Activate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := h.resolver.Resolve(ctx)
	conversationID := chi.URLParam(r, "id")

	mgr := h.registry.Activate(user.ID, conversationID)
	epoch := mgr.BeginLoad()

	messages, err := h.gateway.GetMessages(ctx, conversationID)
	if err != nil {
		writeTypedError(w, err)
		return
	}

	if !mgr.ApplyLoad(epoch, conversationID, messages) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "conversation changed while loading history",
		})
		return
	}

	writeJSON(w, http.StatusOK, model.ListMessagesResponse{Messages: mgr.Messages()})
}

// New handles POST /api/v1/conversations/new, discarding the current
// in-memory conversation and starting an unbound one.
func (h *ChatHandler) New(w http.ResponseWriter, r *http.Request) {
	user := h.resolver.Resolve(r.Context())
	h.registry.Activate(user.ID, "")
	writeJSON(w, http.StatusOK, map[string]string{"status": "new conversation"})
}

// writeChatError emits the typed error plus the retained input so the UI
// can restore the text field for resubmission.
func (h *ChatHandler) writeChatError(w http.ResponseWriter, mgr *state.Manager, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusBadGateway
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNetwork:
		status = http.StatusServiceUnavailable
	}

	body := map[string]string{
		"error": apperr.UserMessage(err),
		"kind":  string(kind),
	}
	if input, failed := mgr.Failure(); failed {
		body["input"] = input
	}
	writeJSON(w, status, body)
}
