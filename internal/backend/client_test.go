package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/WaghmarePravinn/ai-career-coach/internal/apperr"
)

func TestChatSendsPayloadAndReturnsBody(t *testing.T) {
	var received ChatPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"response":"hi","conversation_id":"c1"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	body, err := client.Chat(context.Background(), ChatPayload{
		Message:        "hello",
		History:        []HistoryItem{{Role: "user", Content: "earlier"}},
		UserID:         "u1",
		ConversationID: "c1",
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"response":"hi","conversation_id":"c1"}`, string(body))
	require.Equal(t, "hello", received.Message)
	require.Equal(t, "c1", received.ConversationID)
	require.Len(t, received.History, 1)
}

func TestServerErrorCarriesStatusDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "vector store unavailable", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	_, err := client.Chat(context.Background(), ChatPayload{Message: "hello"})
	require.Error(t, err)
	require.True(t, apperr.IsKind(err, apperr.KindServer))

	var statusErr *apperr.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.Contains(t, statusErr.Detail, "vector store unavailable")
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.Chat(context.Background(), ChatPayload{Message: "hello"})
	require.Error(t, err)
	require.True(t, apperr.IsKind(err, apperr.KindNetwork))
}

func TestHealthReturnsRawErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	err := client.Health(context.Background())
	require.Error(t, err)

	var statusErr *apperr.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestHealthOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	require.NoError(t, client.Health(context.Background()))
}

func TestUploadResumeBuildsMultipartForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload_resume", r.URL.Path)
		require.Equal(t, "u1", r.Header.Get("user-id"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "resume.pdf", header.Filename)

		w.Write([]byte(`{"status":"success","chunks_processed":7}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	body, err := client.UploadResume(context.Background(), "u1", "resume.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.Contains(t, string(body), "chunks_processed")
}

func TestHistoryAndMessagesEscapePathSegments(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.History(context.Background(), "user/with slash")
	require.NoError(t, err)
	_, err = client.Messages(context.Background(), "conv-1")
	require.NoError(t, err)

	require.Len(t, paths, 2)
	require.Equal(t, "/api/history/user%2Fwith%20slash", paths[0])
	require.Equal(t, "/api/messages/conv-1", paths[1])
}
