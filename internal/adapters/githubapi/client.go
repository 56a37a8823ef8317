// Package githubapi reads user, repository, search and event data from the
// GitHub REST API.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
	"github.com/smarrtifai/github-optimizer/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL      = "https://api.github.com/"
	defaultTimeout      = 15 * time.Second
	defaultPageSize     = 100
	defaultRepoMaxPages = 50
	maxPageSize         = 100
)

// Endpoint labels used in metrics and logs.
const (
	endpointUser      = "user"
	endpointRepos     = "repos"
	endpointEvents    = "events"
	endpointSearch    = "search"
	endpointLanguages = "languages"
)

// Client is a thin, metric-instrumented wrapper over go-github.
// It never retries: every upstream call is attempted at most once.
type Client struct {
	gh           *github.Client
	token        string
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	pageSize     int
	repoMaxPages int
	logger       logger.Logger
}

// New creates a GitHub client with configuration options.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:      defaultBaseURL,
		httpClient:   &http.Client{},
		timeout:      defaultTimeout,
		pageSize:     defaultPageSize,
		repoMaxPages: defaultRepoMaxPages,
		logger:       logger.Get().Named("github"),
	}
	for _, opt := range opts {
		opt(c)
	}

	gh := github.NewClient(c.httpClient)
	if c.token != "" {
		gh = gh.WithAuthToken(c.token)
	}
	base := c.baseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse github base url %q: %w", c.baseURL, err)
	}
	gh.BaseURL = u
	c.gh = gh
	return c, nil
}

// Authenticated reports whether a token was configured.
func (c *Client) Authenticated() bool { return c.token != "" }

// PageSize is the per_page value used for listings.
func (c *Client) PageSize() int { return c.pageSize }

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Client) observe(endpoint string, start time.Time, err error) {
	metrics.RecordUpstreamRequest(endpoint, outcomeLabel(err), metrics.Since(start))
}

// User fetches a profile by login.
func (c *Client) User(ctx context.Context, login string) (model.Profile, error) {
	const op = "github.user"
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	start := time.Now()
	u, _, err := c.gh.Users.Get(ctx, login)
	err = translate(op, err)
	c.observe(endpointUser, start, err)
	if err != nil {
		return model.Profile{}, err
	}
	return toProfile(u), nil
}

// Languages returns bytes of code per language for one repository.
func (c *Client) Languages(ctx context.Context, owner, repo string) (map[string]int, error) {
	const op = "github.languages"
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	start := time.Now()
	langs, _, err := c.gh.Repositories.ListLanguages(ctx, owner, repo)
	err = translate(op, err)
	c.observe(endpointLanguages, start, err)
	if err != nil {
		return nil, err
	}
	if langs == nil {
		langs = map[string]int{}
	}
	return langs, nil
}

// getPage requests one page of a list endpoint and returns its records
// undecoded, so one bad record cannot spoil the page.
func (c *Client) getPage(ctx context.Context, endpoint, path string, page int) ([]json.RawMessage, *github.Response, error) {
	op := "github." + endpoint
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	u := fmt.Sprintf("%s?per_page=%d&page=%d", path, c.pageSize, page)
	req, err := c.gh.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: build request: %w", op, err)
	}

	start := time.Now()
	var records []json.RawMessage
	resp, err := c.gh.Do(ctx, req, &records)
	err = translate(op, err)
	c.observe(endpoint, start, err)
	if err != nil {
		return nil, resp, err
	}
	metrics.RecordPageFetched(endpoint)
	if resp != nil {
		c.logger.Debug(ctx, "fetched page",
			logger.String("endpoint", endpoint),
			logger.Int("page", page),
			logger.Int("records", len(records)),
			logger.Int("rate_remaining", resp.Rate.Remaining),
		)
	}
	return records, resp, nil
}

// isLastPage reports whether a response carried pagination links without a
// next page.
func isLastPage(resp *github.Response) bool {
	return resp != nil && resp.Header.Get("Link") != "" && resp.NextPage == 0
}

func toProfile(u *github.User) model.Profile {
	return model.Profile{
		Login:       u.GetLogin(),
		ID:          u.GetID(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		Email:       u.GetEmail(),
		Blog:        u.GetBlog(),
		Company:     u.GetCompany(),
		Location:    u.GetLocation(),
		HTMLURL:     u.GetHTMLURL(),
		AvatarURL:   u.GetAvatarURL(),
		PublicRepos: u.GetPublicRepos(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		CreatedAt:   u.GetCreatedAt().UTC(),
	}
}
