package service_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smarrtifai/github-optimizer/internal/adapters/githubapi"
)

// now is the fixed clock used by every test in this package.
var now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	Name     string `json:"name"`
	Stars    int    `json:"stargazers_count"`
	Forks    int    `json:"forks_count"`
	Size     int    `json:"size"`
	Language string `json:"language,omitempty"`
	Fork     bool   `json:"fork"`
}

// fakeGitHub serves the handful of REST endpoints the service reads.
type fakeGitHub struct {
	mu           sync.Mutex
	publicRepos  int
	createdAt    time.Time
	repos        []fakeRepo
	events       []string
	prs, issues  int
	failPRs      bool
	failRepos    bool
	failLangsFor map[string]bool
	languages    map[string]map[string]int

	userCalls atomic.Int32
}

func newFakeGitHub() *fakeGitHub {
	f := &fakeGitHub{
		publicRepos: 20,
		createdAt:   now.AddDate(0, 0, -730),
		repos: []fakeRepo{
			{Name: "alpha", Stars: 20, Forks: 2, Size: 100, Language: "Go"},
			{Name: "beta", Stars: 20, Forks: 1, Size: 50, Language: "Python"},
			{Name: "gamma", Stars: 10, Size: 10, Language: "Go"},
			{Name: "forked", Fork: true, Language: "C"},
		},
		prs:          10,
		issues:       5,
		failLangsFor: map[string]bool{},
		languages: map[string]map[string]int{
			"alpha":  {"Go": 1000, "Shell": 10},
			"beta":   {"Python": 500},
			"gamma":  {"Go": 200},
			"forked": {"C": 9999},
		},
	}
	// 20 pushes of 10 commits, one hour apart, across three repositories:
	// 200 commits this year and 3 contributed repositories.
	repoNames := []string{"octocat/alpha", "octocat/beta", "octocat/gamma"}
	at := now
	for i := 0; i < 20; i++ {
		f.events = append(f.events, pushEvent(at, repoNames[i%3], 10))
		at = at.Add(-time.Hour)
	}
	return f
}

func pushEvent(at time.Time, repo string, commits int) string {
	cs := make([]string, commits)
	for i := range cs {
		cs[i] = fmt.Sprintf(`{"sha":"%d"}`, i)
	}
	return fmt.Sprintf(`{"type":"PushEvent","created_at":%q,"repo":{"name":%q},"payload":{"commits":[%s]}}`,
		at.UTC().Format(time.RFC3339), repo, strings.Join(cs, ","))
}

func (f *fakeGitHub) set(fn func(f *fakeGitHub)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeGitHub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/{login}", func(w http.ResponseWriter, r *http.Request) {
		f.userCalls.Add(1)
		login := r.PathValue("login")
		if login == "ghost" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, map[string]any{
			"login":        login,
			"id":           583231,
			"name":         "The Octocat",
			"public_repos": f.publicRepos,
			"followers":    42,
			"created_at":   f.createdAt.Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /users/{login}/repos", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failRepos {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if r.URL.Query().Get("page") != "1" {
			writeJSON(w, []fakeRepo{})
			return
		}
		writeJSON(w, f.repos)
	})
	mux.HandleFunc("GET /users/{login}/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		size, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		from, to := (page-1)*size, page*size
		if page < 1 || size < 1 || from >= len(f.events) {
			_, _ = w.Write([]byte("[]"))
			return
		}
		_, _ = w.Write([]byte("[" + strings.Join(f.events[from:min(to, len(f.events))], ",") + "]"))
	})
	mux.HandleFunc("GET /search/issues", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		q := r.URL.Query().Get("q")
		if strings.Contains(q, "type:pr") {
			if f.failPRs {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			writeJSON(w, map[string]any{"total_count": f.prs, "items": []any{}})
			return
		}
		writeJSON(w, map[string]any{"total_count": f.issues, "items": []any{}})
	})
	mux.HandleFunc("GET /repos/{owner}/{repo}/languages", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		repo := r.PathValue("repo")
		if f.failLangsFor[repo] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		langs, ok := f.languages[repo]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, langs)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeGitHub) client(t *testing.T, opts ...githubapi.Option) *githubapi.Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	opts = append([]githubapi.Option{githubapi.WithBaseURL(srv.URL), githubapi.WithToken("t0k3n")}, opts...)
	c, err := githubapi.New(opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}
