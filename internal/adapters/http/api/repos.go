package api

import (
	"context"
	"net/http"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

// RepoDependencies defines the repository listing and language lookups.
type RepoDependencies interface {
	Repositories(ctx context.Context, login string) ([]model.RemoteRepository, error)
	Languages(ctx context.Context, owner, repo string) (map[string]int, error)
	UserLanguages(ctx context.Context, login string) (map[string]int, error)
}

// RepoHandler serves repository data.
type RepoHandler struct {
	deps   RepoDependencies
	logger logger.Logger
}

// NewRepoHandler creates a new repository handler.
func NewRepoHandler(deps RepoDependencies, l logger.Logger) *RepoHandler {
	return &RepoHandler{deps: deps, logger: l}
}

// HandleRepositories handles GET /api/repos/{username} requests.
func (h *RepoHandler) HandleRepositories(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_repos"
	login, ok := pathValue(r, "username")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	repos, err := h.deps.Repositories(r.Context(), login)
	if err != nil {
		fail(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	if repos == nil {
		repos = []model.RemoteRepository{}
	}
	writeJSON(w, http.StatusOK, repos)
}

// HandleLanguages handles GET /api/languages/{owner}/{repo} requests.
func (h *RepoHandler) HandleLanguages(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_languages"
	owner, ok := pathValue(r, "owner")
	repo, ok2 := pathValue(r, "repo")
	if !ok || !ok2 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	langs, err := h.deps.Languages(r.Context(), owner, repo)
	if err != nil {
		fail(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(langs))
}

// HandleUserLanguages handles GET /api/user-languages/{username} requests.
func (h *RepoHandler) HandleUserLanguages(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_user_languages"
	login, ok := pathValue(r, "username")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	langs, err := h.deps.UserLanguages(r.Context(), login)
	if err != nil {
		fail(r.Context(), h.logger, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(langs))
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
