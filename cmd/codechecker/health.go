package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/seekshiva/codechecker/internal/config"
	"github.com/seekshiva/codechecker/internal/database"
	"github.com/seekshiva/codechecker/internal/xdg"
)

type health int

const (
	healthOk health = iota
	healthWarn
	healthError
)

func (h health) String() string {
	switch h {
	case healthOk:
		return "OKAY"
	case healthWarn:
		return "WARN"
	}
	return "ERROR"
}

type feedbackRow struct {
	unit    string
	health  health
	message string
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check the setuid helper, scratch directory and configured services",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			feedback := []feedbackRow{
				configRow(cfg),
				helperRow(cfg.HelperPath),
				dirRow("Jail root", cfg.JailRoot),
				scratchRow(cfg.ScratchDir),
				postgresRow(ctx, cfg.Postgres.DSN),
				natsRow(cfg.NATS.URL),
			}
			outputFeedback(feedback)

			for _, row := range feedback {
				if row.health == healthError {
					return errors.New("codechecker is not healthy")
				}
			}
			return nil
		},
	}
}

func configRow(cfg *config.Config) feedbackRow {
	if err := cfg.Validate(); err != nil {
		return feedbackRow{"Config", healthError, err.Error()}
	}
	return feedbackRow{"Config", healthOk, "valid"}
}

func helperRow(path string) feedbackRow {
	info, err := os.Stat(path)
	if err != nil {
		return feedbackRow{"Setuid helper", healthError, err.Error()}
	}
	if info.Mode().Perm()&0111 == 0 {
		return feedbackRow{"Setuid helper", healthError, path + " is not executable"}
	}
	if info.Mode()&os.ModeSetuid == 0 {
		return feedbackRow{"Setuid helper", healthWarn, path + " does not have the setuid bit"}
	}
	return feedbackRow{"Setuid helper", healthOk, path}
}

func dirRow(unit string, dir string) feedbackRow {
	info, err := os.Stat(dir)
	if err != nil {
		return feedbackRow{unit, healthError, err.Error()}
	}
	if !info.IsDir() {
		return feedbackRow{unit, healthError, dir + " is not a directory"}
	}
	return feedbackRow{unit, healthOk, dir}
}

func scratchRow(dir string) feedbackRow {
	if err := xdg.EnsureScratchDir(dir); err != nil {
		return feedbackRow{"Scratch dir", healthError, err.Error()}
	}
	tmp, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return feedbackRow{"Scratch dir", healthError, err.Error()}
	}
	tmp.Close()
	os.Remove(tmp.Name())
	return feedbackRow{"Scratch dir", healthOk, filepath.Clean(dir)}
}

func postgresRow(ctx context.Context, dsn string) feedbackRow {
	if dsn == "" {
		return feedbackRow{"Postgres", healthWarn, "not configured"}
	}
	store, err := database.ConnectPostgres(ctx, dsn)
	if err != nil {
		return feedbackRow{"Postgres", healthError, err.Error()}
	}
	store.Close()
	return feedbackRow{"Postgres", healthOk, "connected"}
}

func natsRow(url string) feedbackRow {
	if url == "" {
		return feedbackRow{"NATS", healthWarn, "not configured"}
	}
	nc, err := nats.Connect(url, nats.Name("codechecker-health"))
	if err != nil {
		return feedbackRow{"NATS", healthError, err.Error()}
	}
	nc.Close()
	return feedbackRow{"NATS", healthOk, "connected to " + url}
}

func outputFeedback(feedback []feedbackRow) {
	t := prettytable.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(prettytable.Row{"Unit", "Health", "Message"})
	for _, row := range feedback {
		t.AppendRow(prettytable.Row{row.unit, row.health.String(), row.message})
	}
	t.SetStyle(prettytable.StyleColoredDark)
	t.SetColumnConfigs([]prettytable.ColumnConfig{
		{
			Name:        "Health",
			Transformer: text.Transformer(func(s any) string {
				switch fmt.Sprint(s) {
				case "OKAY":
					return color.HiGreenString("OKAY")
				case "WARN":
					return color.HiYellowString("WARN")
				case "ERROR":
					return color.HiRedString("ERROR")
				}
				return fmt.Sprint(s)
			}),
			Align: text.AlignCenter,
		},
	})
	t.Render()
}
