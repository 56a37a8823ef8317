// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/internal/domain/types"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

const (
	defaultMaxLeaderboardLimit = 100
	defaultRequestTimeout      = 60 * time.Second
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ProfileDependencies
	RepoDependencies
	InsightDependencies
	LeaderboardDependencies
	RankDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Option configures a Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps the limit accepted by /leaderboard.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithRequestTimeout bounds how long one API request may take.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used by the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	profileHandler     *ProfileHandler
	repoHandler        *RepoHandler
	insightHandler     *InsightHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler

	maxLimit int
	timeout  time.Duration
	logger   logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		maxLimit: defaultMaxLeaderboardLimit,
		timeout:  defaultRequestTimeout,
		logger:   logger.Get().Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.profileHandler = NewProfileHandler(deps, s.logger)
	s.repoHandler = NewRepoHandler(deps, s.logger)
	s.insightHandler = NewInsightHandler(deps, s.logger)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLimit)
	s.rankHandler = NewRankHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", s.wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /leaderboard", s.wrap(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /rank/{login}", s.wrap(s.rankHandler.HandleGetRank, "rank"))

	mux.HandleFunc("GET /api/status", s.wrap(s.insightHandler.HandleStatus, "status"))
	mux.HandleFunc("GET /api/profile/{username}", s.wrap(s.profileHandler.HandleProfile, "profile"))
	mux.HandleFunc("GET /api/activity/{username}", s.wrap(s.profileHandler.HandleActivity, "activity"))
	mux.HandleFunc("GET /api/commits/{username}", s.wrap(s.profileHandler.HandleCommits, "commits"))
	mux.HandleFunc("GET /api/repos/{username}", s.wrap(s.repoHandler.HandleRepositories, "repos"))
	mux.HandleFunc("GET /api/languages/{owner}/{repo}", s.wrap(s.repoHandler.HandleLanguages, "languages"))
	mux.HandleFunc("GET /api/user-languages/{username}", s.wrap(s.repoHandler.HandleUserLanguages, "user_languages"))
	mux.HandleFunc("GET /api/insights/{username}", s.wrap(s.insightHandler.HandleInsights, "insights"))
}

func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(TimeoutMiddleware(h, s.timeout), endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes the envelope classify picks for err. Server-side failures are
// logged with the request id the middleware put on ctx.
func fail(ctx context.Context, l logger.Logger, w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError && l != nil {
		l.Error(ctx, "request failed", logger.String("code", code), logger.Error(err))
	}
	writeError(w, status, code, err)
}

// pathValue returns a trimmed path segment, rejecting blanks.
func pathValue(r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(r.PathValue(name))
	return v, v != ""
}

// seriesResponse is the chart shape of a single daily series.
type seriesResponse struct {
	Dates  []string `json:"dates"`
	Counts []int    `json:"counts"`
}

// activityResponse is the chart shape of the three activity series.
type activityResponse struct {
	Dates      []string       `json:"dates"`
	Activities activitySeries `json:"activities"`
	Degraded   []string       `json:"degraded,omitempty"`
}

type activitySeries struct {
	PullRequests []int `json:"pullRequests"`
	Issues       []int `json:"issues"`
	Commits      []int `json:"commits"`
}

func newActivityResponse(a model.Activity, degraded []string) activityResponse {
	return activityResponse{
		Dates: a.Commits.Dates(),
		Activities: activitySeries{
			PullRequests: a.PullRequests.Counts(),
			Issues:       a.Issues.Counts(),
			Commits:      a.Commits.Counts(),
		},
		Degraded: degraded,
	}
}
