package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/WaghmarePravinn/ai-career-coach/internal/gateway"
	"github.com/WaghmarePravinn/ai-career-coach/internal/identity"
	"github.com/WaghmarePravinn/ai-career-coach/internal/model"
	"github.com/WaghmarePravinn/ai-career-coach/pkg/logger"
)

// maxUploadBytes bounds resume uploads (multipart memory + body).
const maxUploadBytes = 10 << 20 // 10MB

// AnalysisHandler handles resume upload, roadmap, and critique endpoints.
type AnalysisHandler struct {
	gateway  *gateway.Gateway
	resolver identity.Resolver
	logger   *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(gw *gateway.Gateway, res identity.Resolver, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		gateway:  gw,
		resolver: res,
		logger:   log,
	}
}

// Upload handles POST /api/v1/resume
func (h *AnalysisHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := h.resolver.Resolve(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	result, err := h.gateway.UploadResume(ctx, user, header.Filename, file)
	if err != nil {
		writeTypedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Roadmap handles POST /api/v1/roadmap
func (h *AnalysisHandler) Roadmap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := h.resolver.Resolve(ctx)

	var req model.RoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.gateway.GenerateRoadmap(ctx, user, req.TargetRole, req.ResumeText)
	if err != nil {
		h.logger.Warn("roadmap generation failed", zap.String("user_id", user.ID), zap.Error(err))
		writeTypedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Critique handles POST /api/v1/critique
func (h *AnalysisHandler) Critique(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := h.resolver.Resolve(ctx)

	var req model.CritiqueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.gateway.AnalyzeResume(ctx, user, req.ResumeText)
	if err != nil {
		h.logger.Warn("resume critique failed", zap.String("user_id", user.ID), zap.Error(err))
		writeTypedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
