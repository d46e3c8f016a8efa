package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/WaghmarePravinn/ai-career-coach/internal/apperr"
	"github.com/WaghmarePravinn/ai-career-coach/internal/backend"
	"github.com/WaghmarePravinn/ai-career-coach/internal/gateway"
	"github.com/WaghmarePravinn/ai-career-coach/internal/identity"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
	"github.com/WaghmarePravinn/ai-career-coach/internal/state"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/logger"
)

// scriptedBackend satisfies gateway.Backend with fixed responses.
type scriptedBackend struct {
	chatBody []byte
	chatErr  error
	msgBody  []byte
	msgErr   error
}

func (b *scriptedBackend) Health(ctx context.Context) error { return nil }

func (b *scriptedBackend) Chat(ctx context.Context, payload backend.ChatPayload) ([]byte, error) {
	return b.chatBody, b.chatErr
}

func (b *scriptedBackend) Roadmap(ctx context.Context, payload backend.RoadmapPayload) ([]byte, error) {
	return nil, nil
}

func (b *scriptedBackend) UploadResume(ctx context.Context, userID, filename string, content io.Reader) ([]byte, error) {
	return nil, nil
}

func (b *scriptedBackend) History(ctx context.Context, userID string) ([]byte, error) {
	return []byte(`[]`), nil
}

func (b *scriptedBackend) Messages(ctx context.Context, conversationID string) ([]byte, error) {
	return b.msgBody, b.msgErr
}

type onlineHealth struct{}

func (onlineHealth) Status() model.HealthStatus     { return model.HealthOnline }
func (onlineHealth) Check(ctx context.Context) bool { return true }

func newChatTestStack(b *scriptedBackend) (*ChatHandler, *state.Registry) {
	log := logger.NewNop()
	gw := gateway.New(b, nil, onlineHealth{}, nil, log)
	reg := state.NewRegistry(8)
	res := &identity.StaticResolver{User: model.User{ID: "u1"}}
	return NewChatHandler(gw, reg, res, log), reg
}

func TestSendReturnsNormalizedResult(t *testing.T) {
	b := &scriptedBackend{chatBody: []byte(`{"response":"Focus on Go.","conversation_id":"conv-1"}`)}
	h, reg := newChatTestStack(b)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.ChatResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.Equal(t, "conv-1", result.ConversationID)
	require.Equal(t, model.SourceLocal, result.Provenance.Source)
	require.True(t, reg.Active("u1").Bound())
}

func TestSendRejectsMalformedBody(t *testing.T) {
	h, _ := newChatTestStack(&scriptedBackend{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendConflictWhileInFlight(t *testing.T) {
	h, reg := newChatTestStack(&scriptedBackend{})
	require.True(t, reg.Active("u1").TryBeginSend())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hi"}`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSendFailureRestoresInput(t *testing.T) {
	b := &scriptedBackend{chatErr: apperr.Network("backend_unreachable", "The local career service is unreachable.", nil)}
	h, _ := newChatTestStack(b)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"does this work"}`))
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, string(apperr.KindNetwork), body["kind"])
	require.Equal(t, "does this work", body["input"])
}

func TestActivateLoadsHistory(t *testing.T) {
	b := &scriptedBackend{msgBody: []byte(`[
		{"id":"1","conversation_id":"conv-1","sender":"user","message":"hi","created_at":"2024-03-01T10:00:00Z"},
		{"id":"2","conversation_id":"conv-1","sender":"bot","message":"hello","created_at":"2024-03-01T10:00:05Z"}
	]`)}
	h, reg := newChatTestStack(b)

	r := chi.NewRouter()
	r.Post("/api/v1/conversations/{id}/activate", h.Activate)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/conv-1/activate", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.ListMessagesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Messages, 2)

	mgr := reg.Active("u1")
	require.Equal(t, "conv-1", mgr.ConversationID())
	require.Len(t, mgr.Messages(), 2)
}

func TestActivateBackendErrorIsTyped(t *testing.T) {
	b := &scriptedBackend{msgErr: apperr.Server("backend_status", "The local career service failed to process the request.", nil)}
	h, _ := newChatTestStack(b)

	r := chi.NewRouter()
	r.Post("/api/v1/conversations/{id}/activate", h.Activate)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/conv-1/activate", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, string(apperr.KindServer), body["kind"])
}

func TestNewDiscardsCurrentConversation(t *testing.T) {
	b := &scriptedBackend{chatBody: []byte(`{"response":"hello","conversation_id":"conv-1"}`)}
	h, reg := newChatTestStack(b)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hi"}`))
	h.Send(httptest.NewRecorder(), req)
	require.True(t, reg.Active("u1").Bound())

	rec := httptest.NewRecorder()
	h.New(rec, httptest.NewRequest(http.MethodPost, "/api/v1/conversations/new", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, reg.Active("u1").Bound())
	require.Empty(t, reg.Active("u1").Messages())
}
