package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/smarrtifai/github-optimizer/internal/analyzecli"
	"github.com/smarrtifai/github-optimizer/internal/bootstrap"
	"github.com/smarrtifai/github-optimizer/internal/config"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		os.Stderr.WriteString("analyze failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, help, err := analyzecli.ParseFlags(args, os.Stderr)
	if help {
		analyzecli.ShowHelp(os.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dotenvErr := godotenv.Load()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	// Logs go to stderr so stdout carries only the report.
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)); err != nil {
		return err
	}
	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)
	log := logger.Get()
	if dotenvErr != nil && !errors.Is(dotenvErr, fs.ErrNotExist) {
		log.Warn(ctx, "could not read .env", logger.Error(dotenvErr))
	}

	svc, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	return analyzecli.Run(ctx, opts, svc, os.Stdout)
}
