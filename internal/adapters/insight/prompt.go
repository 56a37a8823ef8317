// Package insight turns a profile summary into a narrative career report
// using a generative text model.
package insight

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

// PromptLanguages is how many languages the prompt and context mention.
const PromptLanguages = 3

// NewContext derives what the generator is told about a profile.
// langs must already be ordered by repository count.
func NewContext(p model.Profile, totals model.RepoTotals, langs []model.LanguageCount, now time.Time) model.InsightContext {
	if len(langs) > PromptLanguages {
		langs = langs[:PromptLanguages]
	}
	top := make([]model.LanguageCount, len(langs))
	copy(top, langs)
	return model.InsightContext{
		Username:        p.Login,
		Name:            p.Name,
		PublicRepos:     p.PublicRepos,
		TotalStars:      totals.Stars,
		AccountAgeYears: math.Round(float64(p.AccountAgeDays(now))/365*10) / 10,
		TopLanguages:    top,
		GeneratedAt:     now.UTC(),
	}
}

// Prompt renders the fixed report template for c. The output depends only on c.
func Prompt(c model.InsightContext) string {
	name := c.Name
	if name == "" {
		name = c.Username
	}
	langs := "None"
	if len(c.TopLanguages) > 0 {
		names := make([]string, 0, len(c.TopLanguages))
		for _, l := range c.TopLanguages {
			names = append(names, l.Language)
		}
		langs = strings.Join(names, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze GitHub developer %s:\n\n", c.Username)
	fmt.Fprintf(&b, "**PROFILE:** %s | %d repos | %d stars | %.1fy old\n", name, c.PublicRepos, c.TotalStars, c.AccountAgeYears)
	fmt.Fprintf(&b, "**LANGUAGES:** %s\n\n", langs)
	b.WriteString(reportSections)
	return b.String()
}

const reportSections = `Provide concise insights in 4 sections:

**1. TECHNICAL ASSESSMENT**
- Rate skills based on languages and repo complexity
- Identify primary tech stack

**2. CAREER RECOMMENDATIONS**
- Suggest 3 specific roles matching their profile
- Base on actual repo activity

**3. STRENGTHS**
- Key technical and project strengths

**4. Suggestions**
- 2-3 specific improvement suggestions

Keep response under 500 words. Be specific and actionable.
`
