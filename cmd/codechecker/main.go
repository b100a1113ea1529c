package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"
	"golang.org/x/sys/unix"

	"github.com/seekshiva/codechecker/internal/checker"
	"github.com/seekshiva/codechecker/internal/config"
	"github.com/seekshiva/codechecker/internal/logger"
	"github.com/seekshiva/codechecker/internal/sandbox"
	"github.com/seekshiva/codechecker/internal/scratch"
	"github.com/seekshiva/codechecker/internal/tester"
	"github.com/seekshiva/codechecker/internal/xdg"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "codechecker",
		Usage: "run submissions against testcases and judge their output",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config.toml (defaults to the XDG config file)",
			},
		},
		Commands: []*cli.Command{
			gradeCommand(),
			workerCommand(),
			healthCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type runtime struct {
	cfg    *config.Config
	log    *slog.Logger
	closer io.Closer
}

func loadRuntime(cmd *cli.Command) (*runtime, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log, closer, err := logger.New(cfg.SlogLevel(), cfg.LogFile)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, log: log, closer: closer}, nil
}

func (r *runtime) Close() {
	_ = r.closer.Close()
}

func (r *runtime) newTester(writer tester.ResultWriter) (*tester.Tester, error) {
	if err := xdg.EnsureScratchDir(r.cfg.ScratchDir); err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	helper := sandbox.NewHelper(r.cfg.HelperPath, r.cfg.JailRoot, r.cfg.HelperDebug, r.log)
	return tester.NewTester(
		scratch.New(r.cfg.ScratchDir, r.log),
		helper,
		writer,
		tester.WithLogger(r.log),
		tester.WithEvaluators(checker.NewSelector(r.log, r.cfg.EvaluatorTimeoutDuration())),
		tester.WithDefaultOutputLimit(r.cfg.OutputLimitMiB),
	), nil
}
