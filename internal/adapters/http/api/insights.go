package api

import (
	"context"
	"net/http"

	service "github.com/smarrtifai/github-optimizer/internal/app"
	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

// InsightDependencies defines the narrative generation and status operations.
type InsightDependencies interface {
	Insight(ctx context.Context, login string) (*model.Insight, error)
	InsightsEnabled() bool
	Status() map[string]any
}

// InsightHandler serves generated insights and the configuration status.
type InsightHandler struct {
	deps   InsightDependencies
	logger logger.Logger
}

// NewInsightHandler creates a new insight handler.
func NewInsightHandler(deps InsightDependencies, l logger.Logger) *InsightHandler {
	return &InsightHandler{deps: deps, logger: l}
}

// HandleInsights handles GET /api/insights/{username} requests.
func (h *InsightHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_insights"
	if !h.deps.InsightsEnabled() {
		writeError(w, http.StatusServiceUnavailable, "insights_unavailable", NewKind(op, service.ErrInsightsUnavailable))
		return
	}
	login, ok := pathValue(r, "username")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	in, err := h.deps.Insight(r.Context(), login)
	if err != nil {
		fail(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// HandleStatus handles GET /api/status requests.
func (h *InsightHandler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Status())
}
