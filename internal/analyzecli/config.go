package analyzecli

import (
	"strings"
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

// Config holds the options of one analysis run.
type Config struct {
	User     string        // GitHub login to analyze
	Range    string        // range token, unknown values fall back to the default
	Insights bool          // also generate an insight
	Output   string        // output file; empty or "-" writes to stdout
	Timeout  time.Duration // bound on the whole run
	Verbose  bool          // debug logging
}

// Validate checks the options that have no usable default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.User) == "" {
		return ErrMissingUser
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Report is what a run writes out.
type Report struct {
	Summary      *model.ProfileSummary `json:"summary"`
	Insight      *model.Insight        `json:"insight,omitempty"`
	InsightError string                `json:"insight_error,omitempty"`
}
