// Package normalize converts heterogeneous backend and cloud payloads into
// the canonical shapes the gateway returns. The local backend and the cloud
// providers disagree on field names (sender/message vs role/content); every
// call site goes through this package instead of probing optional fields.
package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/WaghmarePravinn/ai-career-coach/internal/apperr"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
)

// localChatResponse is the local backend's chat reply shape.
type localChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
}

// localMessage is the local backend's stored message shape.
type localMessage struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Sender         string `json:"sender"`
	Message        string `json:"message"`
	CreatedAt      string `json:"created_at"`
}

// localConversation is the local backend's history summary shape.
type localConversation struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// localUploadResponse is the local backend's upload acknowledgement shape.
type localUploadResponse struct {
	ChunksProcessed *int `json:"chunks_processed"`
}

// wireRoadmap is the roadmap shape shared by both transports.
type wireRoadmap struct {
	MissingSkills []string `json:"missing_skills"`
	Steps         []struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		Difficulty    string `json:"difficulty"`
		EstimatedTime string `json:"estimated_time"`
	} `json:"steps"`
}

// wireReview is one persona entry in a cloud critique response.
type wireReview struct {
	Persona   string   `json:"persona"`
	Feedback  string   `json:"feedback"`
	Score     float64  `json:"score"`
	KeyPoints []string `json:"keyPoints"`
}

// ChatFromLocal maps a local chat reply to a canonical assistant message and
// the conversation identifier the backend assigned, if any.
func ChatFromLocal(raw []byte) (model.Message, string, error) {
	var wire localChatResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return model.Message{}, "", apperr.Parse("chat_malformed", "The career service returned an unreadable reply.", err)
	}
	if wire.Response == "" {
		return model.Message{}, "", apperr.Parse("chat_empty", "The career service returned an empty reply.", nil)
	}

	return assistantMessage(wire.Response, wire.ConversationID), wire.ConversationID, nil
}

// ChatFromCloud wraps a cloud completion as a canonical assistant message.
func ChatFromCloud(content, conversationID string) model.Message {
	return assistantMessage(content, conversationID)
}

// MessagesFromLocal maps the backend's stored message list, translating its
// sender field to the canonical role.
func MessagesFromLocal(raw []byte) ([]model.Message, error) {
	var wire []localMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, apperr.Parse("messages_malformed", "Conversation history could not be read.", err)
	}

	messages := make([]model.Message, 0, len(wire))
	for _, m := range wire {
		role := model.RoleAssistant
		if m.Sender == "user" {
			role = model.RoleUser
		}
		messages = append(messages, model.Message{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			Role:           role,
			Content:        m.Message,
			CreatedAt:      parseTimestamp(m.CreatedAt),
		})
	}
	return messages, nil
}

// HistoryFromLocal maps the backend's conversation summaries.
func HistoryFromLocal(raw []byte) ([]model.Conversation, error) {
	var wire []localConversation
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, apperr.Parse("history_malformed", "Conversation list could not be read.", err)
	}

	conversations := make([]model.Conversation, 0, len(wire))
	for _, c := range wire {
		title := c.Title
		if title == "" {
			title = "Conversation"
		}
		conversations = append(conversations, model.Conversation{
			ID:          c.ID,
			Title:       title,
			LastUpdated: parseTimestamp(c.CreatedAt),
		})
	}
	return conversations, nil
}

// UploadFromLocal maps the backend's upload acknowledgement.
func UploadFromLocal(raw []byte) (model.UploadResult, error) {
	var wire localUploadResponse
	if err := json.Unmarshal(raw, &wire); err != nil {
		return model.UploadResult{}, apperr.Parse("upload_malformed", "The indexing service returned an unreadable reply.", err)
	}

	return model.UploadResult{Status: model.UploadStatusVector, Chunks: wire.ChunksProcessed}, nil
}

// RoadmapFromLocal maps a backend roadmap payload.
func RoadmapFromLocal(raw []byte) (model.RoadmapResult, error) {
	return roadmap(raw, model.Local())
}

// RoadmapFromCloud maps a cloud completion that should contain a roadmap
// JSON document, tolerating markdown code fences around it.
func RoadmapFromCloud(content string) (model.RoadmapResult, error) {
	return roadmap([]byte(stripFences(content)), model.Cloud())
}

func roadmap(raw []byte, prov model.Provenance) (model.RoadmapResult, error) {
	var wire wireRoadmap
	if err := json.Unmarshal(raw, &wire); err != nil {
		return model.RoadmapResult{}, apperr.Parse("roadmap_malformed", "The roadmap could not be read.", err)
	}

	result := model.RoadmapResult{
		MissingSkills: wire.MissingSkills,
		Steps:         make([]model.Step, 0, len(wire.Steps)),
		Provenance:    prov,
	}
	if result.MissingSkills == nil {
		result.MissingSkills = []string{}
	}
	for _, s := range wire.Steps {
		result.Steps = append(result.Steps, model.Step{
			Title:         s.Title,
			Description:   s.Description,
			Difficulty:    normalizeDifficulty(s.Difficulty),
			EstimatedTime: s.EstimatedTime,
		})
	}
	return result, nil
}

// CritiqueFromCloud maps a cloud completion into exactly one review per
// fixed persona. Accepts a top-level array or an object wrapping it in a
// "reviews" field, since providers differ on whether JSON mode can emit a
// bare array.
func CritiqueFromCloud(content string) (model.CritiqueResult, error) {
	trimmed := stripFences(content)

	var reviews []wireReview
	if err := json.Unmarshal([]byte(trimmed), &reviews); err != nil {
		var wrapped struct {
			Reviews []wireReview `json:"reviews"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil {
			return model.CritiqueResult{}, apperr.Parse("critique_malformed", "The resume analysis could not be read.", err)
		}
		reviews = wrapped.Reviews
	}

	var result model.CritiqueResult
	var haveRecruiter, haveTechLead bool
	for _, r := range reviews {
		review := model.PersonaReview{
			Feedback:  r.Feedback,
			Score:     ClampScore(int(r.Score)),
			KeyPoints: r.KeyPoints,
		}
		if review.KeyPoints == nil {
			review.KeyPoints = []string{}
		}
		switch model.Persona(r.Persona) {
		case model.PersonaRecruiter:
			if !haveRecruiter {
				review.Persona = model.PersonaRecruiter
				result.Recruiter = review
				haveRecruiter = true
			}
		case model.PersonaTechLead:
			if !haveTechLead {
				review.Persona = model.PersonaTechLead
				result.TechLead = review
				haveTechLead = true
			}
		}
	}

	if !haveRecruiter || !haveTechLead {
		return model.CritiqueResult{}, apperr.Parse("critique_personas", "The resume analysis was incomplete.", nil)
	}
	return result, nil
}

// ClampScore bounds a critique score to [0, 100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func normalizeDifficulty(s string) model.Difficulty {
	switch model.Difficulty(s) {
	case model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced:
		return model.Difficulty(s)
	}
	return model.DifficultyIntermediate
}

func assistantMessage(content, conversationID string) model.Message {
	return model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		Role:           model.RoleAssistant,
		Content:        content,
		CreatedAt:      time.Now(),
	}
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
