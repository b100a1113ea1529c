package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/seekshiva/codechecker/internal"
	"github.com/seekshiva/codechecker/internal/database"
	"github.com/seekshiva/codechecker/internal/gatherer/respbuilder"
	"github.com/seekshiva/codechecker/internal/gatherer/termgath"
	"github.com/seekshiva/codechecker/internal/problem"
)

func gradeCommand() *cli.Command {
	return &cli.Command{
		Name:  "grade",
		Usage: "grade a compiled submission against a problem definition file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "problem", Aliases: []string{"p"}, Required: true, Usage: "problem definition TOML"},
			&cli.StringFlag{Name: "exec", Aliases: []string{"e"}, Required: true, Usage: "compiled submission"},
			&cli.IntFlag{Name: "id", Value: 1, Usage: "submission id, seeds scratch file names"},
			&cli.BoolFlag{Name: "json", Usage: "print a JSON report instead of progress"},
		},
		Action: grade,
	}
}

func grade(ctx context.Context, cmd *cli.Command) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	prob, err := problem.Parse(cmd.String("problem"))
	if err != nil {
		return err
	}
	execPath, err := filepath.Abs(cmd.String("exec"))
	if err != nil {
		return err
	}
	subm := internal.Submission{
		ID:        cmd.Int("id"),
		ProblemID: prob.ID,
		ExecPath:  execPath,
	}

	store := database.NewMemory()
	store.AddProblem(prob)
	store.AddSubmission(subm)

	t, err := rt.newTester(store)
	if err != nil {
		return err
	}

	if !cmd.Bool("json") {
		_, err = t.RunTests(ctx, subm, prob, termgath.New())
		return err
	}

	builder := respbuilder.New(uuid.NewString())
	_, runErr := t.RunTests(ctx, subm, prob, builder)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(builder.Response()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return runErr
}
