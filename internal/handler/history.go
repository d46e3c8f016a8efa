package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/WaghmarePravinn/ai-career-coach/internal/gateway"
	"github.com/WaghmarePravinn/ai-career-coach/internal/identity"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/logger"
)

// HistoryHandler handles conversation history endpoints.
type HistoryHandler struct {
	gateway  *gateway.Gateway
	resolver identity.Resolver
	logger   *logger.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(gw *gateway.Gateway, res identity.Resolver, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		gateway:  gw,
		resolver: res,
		logger:   log,
	}
}

// List handles GET /api/v1/history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := h.resolver.Resolve(ctx)

	if user.Anonymous() {
		writeJSON(w, http.StatusOK, model.ListConversationsResponse{Conversations: []model.Conversation{}})
		return
	}

	conversations, err := h.gateway.GetHistory(ctx, user)
	if err != nil {
		writeTypedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ListConversationsResponse{
		Conversations: conversations,
		Total:         len(conversations),
	})
}

// Messages handles GET /api/v1/conversations/{id}/messages
func (h *HistoryHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")

	messages, err := h.gateway.GetMessages(ctx, conversationID)
	if err != nil {
		writeTypedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ListMessagesResponse{Messages: messages})
}
