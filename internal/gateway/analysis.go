package gateway

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/WaghmarePravinn/ai-career-coach/internal/apperr"
	"github.com/WaghmarePravinn/ai-career-coach/internal/backend"
	"github.com/WaghmarePravinn/ai-career-coach/internal/llm"
	"github.com/WaghmarePravinn/ai-career-coach/internal/middleware"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
	"github.com/WaghmarePravinn/ai-career-coach/internal/normalize"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/metrics"
)

const roadmapPromptTemplate = `You are a career coach. Generate a learning roadmap for reaching the role of %s given this resume:

%s

Return a JSON object with a "missing_skills" array of strings and a "steps" array; each step has "title", "description", "difficulty" (one of "Beginner", "Intermediate", "Advanced") and "estimated_time".`

const critiquePromptTemplate = `Critically analyze this resume from two perspectives: a specialized Tech Recruiter and a technical Tech Lead. Provide detailed feedback, a score (0-100), and key points for each persona.

Return a JSON object with a "reviews" array of exactly two entries. Each entry has "persona" (exactly "Recruiter" or "Tech Lead"), "feedback", "score" and "keyPoints" (array of strings).

Resume content:

%s`

// UploadResume sends a resume PDF to the local backend for indexing. There
// is no cloud equivalent: when the backend is down or fails, the upload
// degrades to local-text mode and reports no chunk count.
func (g *Gateway) UploadResume(ctx context.Context, user model.User, filename string, content io.Reader) (model.UploadResult, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return model.UploadResult{}, apperr.Validation("resume_not_pdf", "Please upload a PDF resume.")
	}

	if g.health.Status() == model.HealthOffline {
		return model.UploadResult{Status: model.UploadStatusLocal}, nil
	}

	start := time.Now()
	raw, err := g.backend.UploadResume(ctx, user.ID, filename, content)
	if err == nil {
		result, nerr := normalize.UploadFromLocal(raw)
		if nerr == nil {
			if result.Chunks != nil {
				metrics.ResumeChunksProcessed.Observe(float64(*result.Chunks))
			}
			metrics.RecordOperation(OpUpload, string(model.SourceLocal), "success", time.Since(start).Seconds())
			return result, nil
		}
		err = nerr
	}

	g.logger.Warn("resume indexing unavailable, degrading to local-text mode", zap.Error(err))
	metrics.RecordOperation(OpUpload, string(model.SourceLocal), "degraded", time.Since(start).Seconds())
	return model.UploadResult{Status: model.UploadStatusLocal}, nil
}

// GenerateRoadmap builds a career roadmap, preferring the retrieval-grounded
// local path and falling back to cloud inference.
func (g *Gateway) GenerateRoadmap(ctx context.Context, user model.User, targetRole, resumeText string) (model.RoadmapResult, error) {
	if err := middleware.ValidateTargetRole(targetRole); err != nil {
		return model.RoadmapResult{}, apperr.Validation("target_role", err.Error())
	}

	start := time.Now()

	var localErr error
	if g.health.Status() != model.HealthOffline {
		raw, err := g.backend.Roadmap(ctx, backend.RoadmapPayload{TargetRole: targetRole, UserID: user.ID})
		if err == nil {
			result, nerr := normalize.RoadmapFromLocal(raw)
			if nerr == nil {
				metrics.RecordOperation(OpRoadmap, string(model.SourceLocal), "success", time.Since(start).Seconds())
				return result, nil
			}
			err = nerr
		}
		localErr = err
		g.logger.Warn("local roadmap failed, attempting cloud fallback", zap.Error(err))
	}

	if g.cloud == nil {
		g.recordFailure(ctx, user, OpRoadmap, localErr)
		return model.RoadmapResult{}, finalError(localErr, "roadmap_unavailable", "Roadmap generation is unavailable right now.")
	}

	metrics.FallbacksTotal.WithLabelValues(OpRoadmap).Inc()
	g.events.Record(ctx, model.GatewayEvent{
		UserID:    user.ID,
		Operation: OpRoadmap,
		Type:      model.EventTypeFallback,
	})

	llmStart := time.Now()
	resp, err := g.cloud.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.ChatMessage{{
			Role:    string(model.RoleUser),
			Content: fmt.Sprintf(roadmapPromptTemplate, targetRole, resumeText),
		}},
		JSONOnly: true,
	})
	if err != nil {
		metrics.RecordLLMRequest(g.cloud.Name(), OpRoadmap, "error", time.Since(llmStart).Seconds(), 0, 0)
		g.recordFailure(ctx, user, OpRoadmap, err)
		return model.RoadmapResult{}, classifyUpstream("cloud_roadmap", "Roadmap generation is unavailable right now.", err)
	}
	metrics.RecordLLMRequest(g.cloud.Name(), OpRoadmap, "success", time.Since(llmStart).Seconds(), resp.TokensIn, resp.TokensOut)

	result, err := normalize.RoadmapFromCloud(resp.Content)
	if err != nil {
		g.recordFailure(ctx, user, OpRoadmap, err)
		metrics.RecordOperation(OpRoadmap, string(model.SourceCloud), "error", time.Since(start).Seconds())
		return model.RoadmapResult{}, err
	}

	metrics.RecordOperation(OpRoadmap, string(model.SourceCloud), "success", time.Since(start).Seconds())
	return result, nil
}

// AnalyzeResume critiques a resume from the two fixed personas. No local
// variant exists; this is always served by cloud inference.
func (g *Gateway) AnalyzeResume(ctx context.Context, user model.User, resumeText string) (model.CritiqueResult, error) {
	if err := middleware.ValidateResumeText(resumeText); err != nil {
		return model.CritiqueResult{}, apperr.Validation("resume_text", err.Error())
	}

	if g.cloud == nil {
		return model.CritiqueResult{}, apperr.Network("cloud_unconfigured", "Resume analysis is not available.", nil)
	}

	start := time.Now()
	resp, err := g.cloud.Complete(ctx, &llm.CompletionRequest{
		Messages: []llm.ChatMessage{{
			Role:    string(model.RoleUser),
			Content: fmt.Sprintf(critiquePromptTemplate, resumeText),
		}},
		JSONOnly: true,
	})
	if err != nil {
		metrics.RecordLLMRequest(g.cloud.Name(), OpCritique, "error", time.Since(start).Seconds(), 0, 0)
		g.recordFailure(ctx, user, OpCritique, err)
		return model.CritiqueResult{}, classifyUpstream("cloud_critique", "Resume analysis is unavailable right now.", err)
	}
	metrics.RecordLLMRequest(g.cloud.Name(), OpCritique, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	result, err := normalize.CritiqueFromCloud(resp.Content)
	if err != nil {
		g.recordFailure(ctx, user, OpCritique, err)
		return model.CritiqueResult{}, err
	}

	metrics.RecordOperation(OpCritique, string(model.SourceCloud), "success", time.Since(start).Seconds())
	return result, nil
}
