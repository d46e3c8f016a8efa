// Package gateway is the decision core: for each logical operation it picks
// a transport (local RAG backend vs cloud inference), applies the fallback
// policy, and returns a normalized result tagged with its provenance.
package gateway

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/WaghmarePravinn/ai-career-coach/internal/apperr"
	"github.com/WaghmarePravinn/ai-career-coach/internal/backend"
	"github.com/WaghmarePravinn/ai-career-coach/internal/events"
	"github.com/WaghmarePravinn/ai-career-coach/internal/llm"
	"github.com/WaghmarePravinn/ai-career-coach/internal/middleware"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
	"github.com/WaghmarePravinn/ai-career-coach/internal/normalize"
	"github.com/WaghmarePravinn/ai-career-coach/internal/state"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/logger"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/metrics"
)

// Operation names used in logs, metrics, and events.
const (
	OpChat     = "chat"
	OpUpload   = "resume_upload"
	OpRoadmap  = "roadmap"
	OpCritique = "critique"
	OpHistory  = "history"
	OpMessages = "messages"
)

// Backend is the local RAG backend surface the gateway consumes.
type Backend interface {
	Health(ctx context.Context) error
	Chat(ctx context.Context, payload backend.ChatPayload) ([]byte, error)
	Roadmap(ctx context.Context, payload backend.RoadmapPayload) ([]byte, error)
	UploadResume(ctx context.Context, userID, filename string, content io.Reader) ([]byte, error)
	History(ctx context.Context, userID string) ([]byte, error)
	Messages(ctx context.Context, conversationID string) ([]byte, error)
}

// HealthReader exposes the monitor's cached backend availability. The
// gateway reads the cached status; it never probes per call, so staleness
// is bounded by the monitor's polling interval.
type HealthReader interface {
	Status() model.HealthStatus
	Check(ctx context.Context) bool
}

// Gateway orchestrates the transports. It is stateless between calls apart
// from reading the health monitor.
type Gateway struct {
	backend Backend
	cloud   llm.Client // nil when no provider key is configured
	health  HealthReader
	events  *events.Publisher
	logger  *logger.Logger
}

// New creates a gateway. cloud may be nil, in which case cloud-fallback
// operations fail with the local path's error and critique is unavailable.
func New(b Backend, cloud llm.Client, health HealthReader, pub *events.Publisher, log *logger.Logger) *Gateway {
	return &Gateway{
		backend: b,
		cloud:   cloud,
		health:  health,
		events:  pub,
		logger:  log,
	}
}

// SendChatTurn runs one chat turn against the selected transport and
// commits the outcome to the conversation manager.
func (g *Gateway) SendChatTurn(ctx context.Context, user model.User, mgr *state.Manager, text string) (model.ChatResult, error) {
	if err := middleware.ValidateMessageContent(text); err != nil {
		return model.ChatResult{}, apperr.Validation("chat_input", err.Error())
	}

	start := time.Now()
	window := mgr.Window()
	mgr.AppendOptimistic(text)

	// Local attempt unless the cached reading says offline.
	var localErr error
	if g.health.Status() != model.HealthOffline {
		reply, convID, err := g.chatLocal(ctx, user, mgr, window, text)
		if err == nil {
			mgr.Commit(reply, convID)
			g.recordTurn(ctx, user, mgr.ConversationID(), OpChat, model.SourceLocal)
			metrics.RecordOperation(OpChat, string(model.SourceLocal), "success", time.Since(start).Seconds())
			return model.ChatResult{
				Message:        reply,
				ConversationID: mgr.ConversationID(),
				Provenance:     model.Local(),
			}, nil
		}
		localErr = err
		g.logger.Warn("local chat failed, attempting cloud fallback", zap.Error(err))
	}

	if g.cloud == nil {
		mgr.MarkFailed(text)
		g.recordFailure(ctx, user, OpChat, localErr)
		metrics.RecordOperation(OpChat, string(model.SourceLocal), "error", time.Since(start).Seconds())
		return model.ChatResult{}, finalError(localErr, "chat_unavailable", "The career assistant is unavailable right now.")
	}

	metrics.FallbacksTotal.WithLabelValues(OpChat).Inc()
	g.events.Record(ctx, model.GatewayEvent{
		UserID:         user.ID,
		ConversationID: mgr.ConversationID(),
		Operation:      OpChat,
		Type:           model.EventTypeFallback,
	})

	reply, err := g.chatCloud(ctx, window, text)
	if err != nil {
		mgr.MarkFailed(text)
		g.recordFailure(ctx, user, OpChat, err)
		metrics.RecordOperation(OpChat, string(model.SourceCloud), "error", time.Since(start).Seconds())
		return model.ChatResult{}, err
	}

	mgr.Commit(reply, "")
	g.recordTurn(ctx, user, mgr.ConversationID(), OpChat, model.SourceCloud)
	metrics.RecordOperation(OpChat, string(model.SourceCloud), "success", time.Since(start).Seconds())
	return model.ChatResult{
		Message:        reply,
		ConversationID: mgr.ConversationID(),
		Provenance:     model.Cloud(),
	}, nil
}

func (g *Gateway) chatLocal(ctx context.Context, user model.User, mgr *state.Manager, window []model.Message, text string) (model.Message, string, error) {
	payload := backend.ChatPayload{
		Message:        text,
		History:        historyItems(window),
		UserID:         user.ID,
		ConversationID: mgr.ConversationID(),
	}

	raw, err := g.backend.Chat(ctx, payload)
	if err != nil {
		return model.Message{}, "", err
	}
	return normalize.ChatFromLocal(raw)
}

func (g *Gateway) chatCloud(ctx context.Context, window []model.Message, text string) (model.Message, error) {
	messages := make([]llm.ChatMessage, 0, len(window)+1)
	for _, m := range window {
		messages = append(messages, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: string(model.RoleUser), Content: text})

	start := time.Now()
	resp, err := g.cloud.Complete(ctx, &llm.CompletionRequest{Messages: messages})
	if err != nil {
		metrics.RecordLLMRequest(g.cloud.Name(), OpChat, "error", time.Since(start).Seconds(), 0, 0)
		return model.Message{}, classifyUpstream("cloud_chat", "The career assistant is unavailable right now.", err)
	}
	metrics.RecordLLMRequest(g.cloud.Name(), OpChat, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	return normalize.ChatFromCloud(resp.Content, ""), nil
}

// GetHistory returns conversation summaries for the user. Local-only; the
// error of the single attempted path propagates typed.
func (g *Gateway) GetHistory(ctx context.Context, user model.User) ([]model.Conversation, error) {
	raw, err := g.backend.History(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return normalize.HistoryFromLocal(raw)
}

// GetMessages returns the ordered message list for a conversation.
func (g *Gateway) GetMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		return nil, apperr.Validation("conversation_id", err.Error())
	}

	raw, err := g.backend.Messages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return normalize.MessagesFromLocal(raw)
}

// CheckBackendHealth forces a probe and returns the refreshed reading.
func (g *Gateway) CheckBackendHealth(ctx context.Context) model.HealthStatus {
	g.health.Check(ctx)
	return g.health.Status()
}

func (g *Gateway) recordTurn(ctx context.Context, user model.User, conversationID, operation string, source model.Source) {
	g.events.Record(ctx, model.GatewayEvent{
		UserID:         user.ID,
		ConversationID: conversationID,
		Operation:      operation,
		Type:           model.EventTypeTurn,
		Source:         source,
	})
}

func (g *Gateway) recordFailure(ctx context.Context, user model.User, operation string, err error) {
	reason := "unknown"
	var e *apperr.Error
	if errors.As(err, &e) {
		reason = e.Reason
	}
	g.events.Record(ctx, model.GatewayEvent{
		UserID:    user.ID,
		Operation: operation,
		Type:      model.EventTypeFailure,
		Reason:    reason,
	})
}

func historyItems(window []model.Message) []backend.HistoryItem {
	items := make([]backend.HistoryItem, len(window))
	for i, m := range window {
		items[i] = backend.HistoryItem{Role: string(m.Role), Content: m.Content}
	}
	return items
}

// classifyUpstream wraps a raw upstream error as network or server flavored
// depending on whether a response was plausibly received.
func classifyUpstream(reason, message string, err error) *apperr.Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return apperr.Network(reason, message, err)
	}
	var statusErr *apperr.HTTPStatusError
	if errors.As(err, &statusErr) {
		return apperr.Server(reason+"_"+strconv.Itoa(statusErr.StatusCode), message, err)
	}
	return apperr.Server(reason, message, err)
}

// finalError returns err if already typed, otherwise wraps it so callers
// always see the taxonomy.
func finalError(err error, reason, message string) error {
	if err == nil {
		return apperr.Network(reason, message, nil)
	}
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return classifyUpstream(reason, message, err)
}
