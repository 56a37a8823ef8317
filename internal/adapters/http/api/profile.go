package api

import (
	"context"
	"net/http"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

// ProfileDependencies defines the aggregation operations behind the
// profile, activity and commit routes.
type ProfileDependencies interface {
	Profile(ctx context.Context, login, token string) (*model.ProfileSummary, error)
	Activity(ctx context.Context, login, token string) (model.Activity, []string, error)
}

// ProfileHandler serves aggregated views of a single developer.
type ProfileHandler struct {
	deps   ProfileDependencies
	logger logger.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies, l logger.Logger) *ProfileHandler {
	return &ProfileHandler{deps: deps, logger: l}
}

// HandleProfile handles GET /api/profile/{username}?timeRange= requests.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_profile"
	login, ok := pathValue(r, "username")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	summary, err := h.deps.Profile(r.Context(), login, rangeToken(r))
	if err != nil {
		fail(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleActivity handles GET /api/activity/{username}?timeRange= requests.
func (h *ProfileHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_activity"
	login, ok := pathValue(r, "username")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	act, degraded, err := h.deps.Activity(r.Context(), login, rangeToken(r))
	if err != nil {
		fail(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newActivityResponse(act, degraded))
}

// HandleCommits handles GET /api/commits/{username}?timeRange= requests.
func (h *ProfileHandler) HandleCommits(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_commits"
	login, ok := pathValue(r, "username")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	act, _, err := h.deps.Activity(r.Context(), login, rangeToken(r))
	if err != nil {
		fail(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, seriesResponse{Dates: act.Commits.Dates(), Counts: act.Commits.Counts()})
}

// rangeToken reads timeRange; the service folds unknown tokens to the default.
func rangeToken(r *http.Request) string {
	return r.URL.Query().Get("timeRange")
}
