package activity

import (
	"slices"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

// Totals sums stars, forks and size over every repository.
func Totals(repos []model.RemoteRepository) model.RepoTotals {
	t := model.RepoTotals{Repositories: len(repos)}
	for _, r := range repos {
		t.Stars += r.Stars
		t.Forks += r.Forks
		t.SizeKB += r.SizeKB
	}
	return t
}

// TopLanguages counts repositories per primary language and returns the n
// most common. Ties keep the order in which a language first appeared in the
// listing. n <= 0 returns every language.
func TopLanguages(repos []model.RemoteRepository, n int) []model.LanguageCount {
	index := make(map[string]int)
	var counts []model.LanguageCount
	for _, r := range repos {
		if r.PrimaryLanguage == "" {
			continue
		}
		i, ok := index[r.PrimaryLanguage]
		if !ok {
			i = len(counts)
			index[r.PrimaryLanguage] = i
			counts = append(counts, model.LanguageCount{Language: r.PrimaryLanguage})
		}
		counts[i].Repos++
	}
	slices.SortStableFunc(counts, func(a, b model.LanguageCount) int {
		return b.Repos - a.Repos
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	if counts == nil {
		counts = []model.LanguageCount{}
	}
	return counts
}
