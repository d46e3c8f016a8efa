package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/WaghmarePravinn/ai-career-coach/internal/apperr"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
)

func TestChatFromLocal(t *testing.T) {
	msg, convID, err := ChatFromLocal([]byte(`{"response":"Learn Go.","conversation_id":"abc"}`))
	require.NoError(t, err)
	require.Equal(t, "abc", convID)
	require.Equal(t, model.RoleAssistant, msg.Role)
	require.Equal(t, "Learn Go.", msg.Content)
	require.NotEmpty(t, msg.ID)
}

func TestChatFromLocalMalformed(t *testing.T) {
	_, _, err := ChatFromLocal([]byte(`{"response":`))
	require.Error(t, err)
	require.True(t, apperr.IsKind(err, apperr.KindParse))
}

func TestChatFromLocalEmptyReply(t *testing.T) {
	_, _, err := ChatFromLocal([]byte(`{"conversation_id":"abc"}`))
	require.Error(t, err)
	require.True(t, apperr.IsKind(err, apperr.KindParse))
}

func TestMessagesFromLocalSenderMapping(t *testing.T) {
	raw := []byte(`[
		{"id":"1","sender":"user","message":"hi","created_at":"2024-03-01T10:00:00Z"},
		{"id":"2","sender":"bot","message":"hello","created_at":"2024-03-01T10:00:05Z"}
	]`)

	messages, err := MessagesFromLocal(raw)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, model.RoleUser, messages[0].Role)
	require.Equal(t, model.RoleAssistant, messages[1].Role)
	require.Equal(t, "hi", messages[0].Content)
	require.True(t, messages[0].CreatedAt.Before(messages[1].CreatedAt))
}

func TestMessagesFromLocalMalformed(t *testing.T) {
	_, err := MessagesFromLocal([]byte(`not json`))
	require.True(t, apperr.IsKind(err, apperr.KindParse))
}

func TestHistoryFromLocalDefaultTitle(t *testing.T) {
	raw := []byte(`[{"id":"c1","created_at":"2024-03-01T10:00:00Z"},{"id":"c2","title":"Roadmap chat"}]`)

	conversations, err := HistoryFromLocal(raw)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	require.Equal(t, "Conversation", conversations[0].Title)
	require.Equal(t, "Roadmap chat", conversations[1].Title)
}

func TestUploadFromLocal(t *testing.T) {
	result, err := UploadFromLocal([]byte(`{"status":"success","chunks_processed":12}`))
	require.NoError(t, err)
	require.Equal(t, model.UploadStatusVector, result.Status)
	require.NotNil(t, result.Chunks)
	require.Equal(t, 12, *result.Chunks)
}

func TestRoadmapFromLocal(t *testing.T) {
	raw := []byte(`{
		"missing_skills":["kubernetes","system design"],
		"steps":[
			{"title":"Learn Kubernetes","description":"Operate a cluster","difficulty":"Intermediate","estimated_time":"6 weeks"},
			{"title":"Mentor","description":"Lead a project","difficulty":"expert","estimated_time":"ongoing"}
		]
	}`)

	result, err := RoadmapFromLocal(raw)
	require.NoError(t, err)
	require.Equal(t, model.SourceLocal, result.Provenance.Source)
	require.False(t, result.Provenance.IsFallback)
	require.Equal(t, []string{"kubernetes", "system design"}, result.MissingSkills)
	require.Len(t, result.Steps, 2)
	require.Equal(t, model.DifficultyIntermediate, result.Steps[0].Difficulty)
	// Unknown difficulty levels fall back to Intermediate.
	require.Equal(t, model.DifficultyIntermediate, result.Steps[1].Difficulty)
}

func TestRoadmapFromCloudStripsFences(t *testing.T) {
	content := "```json\n{\"missing_skills\":[],\"steps\":[{\"title\":\"Read\",\"description\":\"d\",\"difficulty\":\"Beginner\",\"estimated_time\":\"1 week\"}]}\n```"

	result, err := RoadmapFromCloud(content)
	require.NoError(t, err)
	require.Equal(t, model.SourceCloud, result.Provenance.Source)
	require.True(t, result.Provenance.IsFallback)
	require.Len(t, result.Steps, 1)
	require.Equal(t, model.DifficultyBeginner, result.Steps[0].Difficulty)
}

func TestRoadmapFromCloudMissingListsDefaultEmpty(t *testing.T) {
	result, err := RoadmapFromCloud(`{}`)
	require.NoError(t, err)
	require.NotNil(t, result.MissingSkills)
	require.Empty(t, result.MissingSkills)
	require.Empty(t, result.Steps)
}

func TestCritiqueFromCloud(t *testing.T) {
	content := `[
		{"persona":"Recruiter","feedback":"Strong summary.","score":82,"keyPoints":["clear formatting"]},
		{"persona":"Tech Lead","feedback":"Needs depth.","score":74,"keyPoints":["add system design details"]}
	]`

	result, err := CritiqueFromCloud(content)
	require.NoError(t, err)
	require.Equal(t, model.PersonaRecruiter, result.Recruiter.Persona)
	require.Equal(t, 82, result.Recruiter.Score)
	require.Equal(t, model.PersonaTechLead, result.TechLead.Persona)
	require.Equal(t, []string{"add system design details"}, result.TechLead.KeyPoints)
}

func TestCritiqueFromCloudWrappedObject(t *testing.T) {
	content := `{"reviews":[
		{"persona":"Recruiter","feedback":"ok","score":50,"keyPoints":[]},
		{"persona":"Tech Lead","feedback":"ok","score":60,"keyPoints":[]}
	]}`

	result, err := CritiqueFromCloud(content)
	require.NoError(t, err)
	require.Equal(t, 50, result.Recruiter.Score)
	require.Equal(t, 60, result.TechLead.Score)
}

func TestCritiqueFromCloudClampsScores(t *testing.T) {
	content := `[
		{"persona":"Recruiter","feedback":"f","score":140,"keyPoints":[]},
		{"persona":"Tech Lead","feedback":"f","score":-5,"keyPoints":[]}
	]`

	result, err := CritiqueFromCloud(content)
	require.NoError(t, err)
	require.Equal(t, 100, result.Recruiter.Score)
	require.Equal(t, 0, result.TechLead.Score)
}

func TestCritiqueFromCloudMissingPersona(t *testing.T) {
	content := `[{"persona":"Recruiter","feedback":"f","score":80,"keyPoints":[]}]`

	_, err := CritiqueFromCloud(content)
	require.Error(t, err)
	require.True(t, apperr.IsKind(err, apperr.KindParse))
}

func TestCritiqueFromCloudMalformed(t *testing.T) {
	_, err := CritiqueFromCloud("I think the resume is fine.")
	require.True(t, apperr.IsKind(err, apperr.KindParse))
}

func TestClampScore(t *testing.T) {
	cases := []struct {
		in, out int
	}{
		{-5, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{140, 100},
	}
	for _, tc := range cases {
		require.Equal(t, tc.out, ClampScore(tc.in))
	}
}
