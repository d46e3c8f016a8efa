// Package backend provides the HTTP client for the local RAG backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/WaghmarePravinn/ai-career-coach/internal/apperr"
)

const maxErrorBody = 4 * 1024

// HistoryItem is one prior turn sent as conversational context.
type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatPayload is the request body for the chat endpoint.
type ChatPayload struct {
	Message        string        `json:"message"`
	History        []HistoryItem `json:"history"`
	UserID         string        `json:"user_id,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
}

// RoadmapPayload is the request body for the roadmap endpoint.
type RoadmapPayload struct {
	TargetRole string `json:"target_role"`
	UserID     string `json:"user_id,omitempty"`
}

// Client talks to the local RAG backend. Successful responses are returned
// as raw bodies; the normalizer owns decoding so both transports share one
// parse path.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a backend client. timeout bounds every non-probe request.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Health probes the liveness endpoint. Any error or non-2xx status is
// returned as-is; callers that must fail soft wrap this.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperr.HTTPStatusError{StatusCode: resp.StatusCode, URL: c.baseURL + "/api/health"}
	}
	return nil
}

// Chat sends a chat turn with bounded trailing history.
func (c *Client) Chat(ctx context.Context, payload ChatPayload) ([]byte, error) {
	return c.postJSON(ctx, "/api/chat", payload)
}

// Roadmap requests a retrieval-grounded roadmap.
func (c *Client) Roadmap(ctx context.Context, payload RoadmapPayload) ([]byte, error) {
	return c.postJSON(ctx, "/api/roadmap", payload)
}

// UploadResume uploads a resume PDF for indexing.
func (c *Client) UploadResume(ctx context.Context, userID, filename string, content io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, apperr.Network("multipart_build", "Could not prepare the upload.", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, apperr.Network("multipart_copy", "Could not read the uploaded file.", err)
	}
	if err := mw.Close(); err != nil {
		return nil, apperr.Network("multipart_close", "Could not prepare the upload.", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload_resume", &buf)
	if err != nil {
		return nil, apperr.Network("request_build", "Could not reach the resume service.", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if userID != "" {
		req.Header.Set("user-id", userID)
	}

	return c.do(req)
}

// History fetches conversation summaries for a user.
func (c *Client) History(ctx context.Context, userID string) ([]byte, error) {
	return c.get(ctx, "/api/history/"+url.PathEscape(userID))
}

// Messages fetches the ordered message list for a conversation.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]byte, error) {
	return c.get(ctx, "/api/messages/"+url.PathEscape(conversationID))
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Network("request_encode", "Could not prepare the request.", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Network("request_build", "Could not reach the career service.", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, apperr.Network("request_build", "Could not reach the career service.", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Network("backend_unreachable", "The local career service is unreachable.", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Network("response_read", "The local career service dropped the connection.", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := string(body)
		if len(detail) > maxErrorBody {
			detail = detail[:maxErrorBody]
		}
		statusErr := &apperr.HTTPStatusError{
			StatusCode: resp.StatusCode,
			URL:        req.URL.String(),
			Detail:     detail,
		}
		return nil, apperr.Server("backend_status", backendErrorMessage(resp.StatusCode), statusErr)
	}

	return body, nil
}

func backendErrorMessage(status int) string {
	if status >= 500 {
		return "The local career service failed to process the request."
	}
	return fmt.Sprintf("The local career service rejected the request (%d).", status)
}
