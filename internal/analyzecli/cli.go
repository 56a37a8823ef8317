// Package analyzecli runs a single profile analysis from the command line.
package analyzecli

import (
	"flag"
	"io"
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/activity"
)

// DefaultTimeout bounds a run when -timeout is not given.
const DefaultTimeout = 2 * time.Minute

// ParseFlags reads the command line. help reports whether -help was given.
func ParseFlags(args []string, stderr io.Writer) (cfg *Config, help bool, err error) {
	cfg = &Config{}
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.User, "user", "", "GitHub login to analyze (required)")
	fs.StringVar(&cfg.Range, "range", activity.DefaultToken, "Time range token")
	fs.BoolVar(&cfg.Insights, "insights", false, "Also generate a career insight (needs GEMINI_API_KEY)")
	fs.StringVar(&cfg.Output, "out", "", "Output file (default: stdout)")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Bound on the whole run")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&help, "help", false, "Show help")
	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}
	if help {
		return cfg, true, nil
	}
	return cfg, false, cfg.Validate()
}

// ShowHelp prints usage information for the analyze tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `GitHub Profile Analyzer
=======================

Aggregates one GitHub user's profile, repositories and recent events into a
rated summary and prints it as JSON.

Usage:
  go run ./cmd/analyze -user <login> [options]

Options:
  -user string
        GitHub login to analyze (required)
  -range string
        One of 15days, 1month, 3months, 6months, 1year, all (default "1month")
  -insights
        Also generate a career insight (needs GEMINI_API_KEY)
  -out string
        Output file (default: stdout)
  -timeout duration
        Bound on the whole run (default 2m0s)
  -verbose
        Enable debug logging
  -help
        Show this help message

Configuration is read the same way as the server: .env, GHOPT_CONFIG,
GITHUB_TOKEN / MONGO_URI / GEMINI_API_KEY and GHOPT_* variables.

Examples:
  go run ./cmd/analyze -user octocat
  go run ./cmd/analyze -user octocat -range 1year -insights -out reports/octocat.json
`)
}
