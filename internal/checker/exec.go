package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/seekshiva/codechecker/internal"
)

// Rejecting exit codes of a custom evaluator, following the testlib
// convention. Exit 0 accepts; anything else is an evaluator failure.
const (
	evalWrongAnswer       = 1
	evalPresentationError = 2
)

// Exec delegates judging to a problem specific evaluator program, invoked
// as `<path> <input> <output> <reference>`.
type Exec struct {
	Path    string
	Timeout time.Duration
	log     *slog.Logger
}

func NewExec(path string, timeout time.Duration, log *slog.Logger) *Exec {
	return &Exec{
		Path:    path,
		Timeout: timeout,
		log:     log,
	}
}

func (e *Exec) Evaluate(ctx context.Context, attempt Attempt) (internal.Verdict, error) {
	refPath, err := writeReference(attempt)
	if err != nil {
		return "", err
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	paths := attempt.Set.Paths()
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Path, paths.Input, paths.Output, refPath)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err = cmd.Run()
	if err == nil {
		e.log.DebugContext(ctx, "custom evaluator accepted output",
			"testcase", attempt.TestcaseID, "evaluator", e.Path)
		return internal.Passed, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		switch exitErr.ExitCode() {
		case evalWrongAnswer, evalPresentationError:
			e.log.DebugContext(ctx, "custom evaluator rejected output",
				"testcase", attempt.TestcaseID, "evaluator", e.Path, "message", out.String())
			return internal.Failed, nil
		}
	}
	return "", fmt.Errorf("custom evaluator %s failed: %w: %s", e.Path, err, out.String())
}
