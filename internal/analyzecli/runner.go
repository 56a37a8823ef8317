package analyzecli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0640
)

// Analyzer is the part of the service a run needs.
type Analyzer interface {
	Profile(ctx context.Context, login, token string) (*model.ProfileSummary, error)
	Insight(ctx context.Context, login string) (*model.Insight, error)
	InsightsEnabled() bool
}

// Run analyzes cfg.User and writes the report to cfg.Output, or to stdout
// when no output file is set. An insight failure is recorded in the report
// and does not fail the run.
func Run(ctx context.Context, cfg *Config, a Analyzer, stdout io.Writer) error {
	start := time.Now()
	log := logger.Get().Named("analyze")
	log.Info(ctx, "starting analysis",
		logger.String("user", cfg.User),
		logger.String("range", cfg.Range),
		logger.Bool("insights", cfg.Insights))

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	summary, err := a.Profile(ctx, cfg.User, cfg.Range)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", cfg.User, err)
	}
	report := Report{Summary: summary}

	if cfg.Insights {
		report.Insight, report.InsightError = insight(ctx, log, a, cfg.User)
	}

	if err := writeReport(ctx, cfg.Output, report, stdout); err != nil {
		return err
	}
	log.Info(ctx, "analysis completed",
		logger.Int("rating", summary.Stats.Rating),
		logger.Any("degraded", summary.Degraded),
		logger.Duration("duration", time.Since(start)))
	return nil
}

func writeReport(ctx context.Context, filename string, report Report, stdout io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if filename == "" || filename == "-" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Get().Info(ctx, "report saved to file", logger.String("filename", filename))
	return nil
}

func insight(ctx context.Context, log logger.Logger, a Analyzer, login string) (*model.Insight, string) {
	if !a.InsightsEnabled() {
		log.Warn(ctx, "insights requested but no generator is configured")
		return nil, "insights are not configured"
	}
	in, err := a.Insight(ctx, login)
	if err != nil {
		log.Warn(ctx, "insight generation failed", logger.Error(err))
		return nil, err.Error()
	}
	return in, ""
}
