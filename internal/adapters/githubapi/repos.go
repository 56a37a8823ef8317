package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/go-github/v68/github"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
	"github.com/smarrtifai/github-optimizer/pkg/metrics"
)

// Repositories lists every public repository of login, page by page, until an
// empty or short page, the last linked page, or the page ceiling. Records that
// fail to decode are skipped. Any upstream failure is returned.
func (c *Client) Repositories(ctx context.Context, login string) ([]model.RemoteRepository, error) {
	path := fmt.Sprintf("users/%s/repos", url.PathEscape(login))
	var out []model.RemoteRepository
	for page := 1; page <= c.repoMaxPages; page++ {
		records, resp, err := c.getPage(ctx, endpointRepos, path, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}
		for _, raw := range records {
			var r github.Repository
			if err := json.Unmarshal(raw, &r); err != nil {
				metrics.RecordMalformedRecord("repository")
				c.logger.Warn(ctx, "skipping malformed repository record",
					logger.String("login", login),
					logger.Int("page", page),
					logger.Error(err),
				)
				continue
			}
			out = append(out, toRepository(&r))
		}
		if len(records) < c.pageSize || isLastPage(resp) {
			break
		}
	}
	if out == nil {
		out = []model.RemoteRepository{}
	}
	return out, nil
}

func toRepository(r *github.Repository) model.RemoteRepository {
	return model.RemoteRepository{
		Name:            r.GetName(),
		FullName:        r.GetFullName(),
		Description:     r.GetDescription(),
		HTMLURL:         r.GetHTMLURL(),
		Stars:           r.GetStargazersCount(),
		Forks:           r.GetForksCount(),
		SizeKB:          r.GetSize(),
		PrimaryLanguage: r.GetLanguage(),
		IsFork:          r.GetFork(),
		UpdatedAt:       r.GetUpdatedAt().UTC(),
		LanguagesURL:    r.GetLanguagesURL(),
	}
}
