package githubapi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v68/github"
)

// CountPullRequests returns the total number of pull requests authored by login.
func (c *Client) CountPullRequests(ctx context.Context, login string) (int, error) {
	return c.count(ctx, fmt.Sprintf("author:%s type:pr", login))
}

// CountIssues returns the total number of issues authored by login.
func (c *Client) CountIssues(ctx context.Context, login string) (int, error) {
	return c.count(ctx, fmt.Sprintf("author:%s type:issue", login))
}

// count runs an issue search and reads only total_count.
func (c *Client) count(ctx context.Context, query string) (int, error) {
	const op = "github.search"
	ctx, cancel := c.callContext(ctx)
	defer cancel()

	start := time.Now()
	res, _, err := c.gh.Search.Issues(ctx, query, &github.SearchOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	err = translate(op, err)
	c.observe(endpointSearch, start, err)
	if err != nil {
		return 0, err
	}
	return res.GetTotal(), nil
}
