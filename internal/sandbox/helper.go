// Package sandbox drives the privileged setuid helper that runs a
// submission with its stdio redirected to scratch files and with CPU,
// memory and file size limits applied.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/seekshiva/codechecker/internal/scratch"
)

// LaunchError reports that the helper could not be run or waited for. It is
// never caused by the submission.
type LaunchError struct {
	Args   []string
	Output string
	Err    error
}

func (e *LaunchError) Error() string {
	msg := fmt.Sprintf("setuid helper %s failed: %v", strings.Join(e.Args, " "), e.Err)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

type Helper struct {
	Path     string
	JailRoot string
	Debug    int
	log      *slog.Logger
}

func NewHelper(path string, jailRoot string, debug int, log *slog.Logger) *Helper {
	return &Helper{
		Path:     path,
		JailRoot: jailRoot,
		Debug:    debug,
		log:      log,
	}
}

// Args builds the helper argument vector. The executable and the jail come
// last, matching the order the helper expects.
func (h *Helper) Args(paths scratch.Paths, executable string, constraints Constraints) []string {
	args := []string{
		fmt.Sprintf("--debug=%d", h.Debug),
		"--infile=" + paths.Input,
		"--outfile=" + paths.Output,
		"--errfile=" + paths.Error,
	}
	args = append(args, constraints.ToArgs()...)
	args = append(args,
		"--executable="+executable,
		"--jail="+h.JailRoot,
	)
	return args
}

// Run starts the helper and blocks until it exits, returning its raw exit
// status. Limits are enforced by the helper itself, so the run is not tied
// to ctx and cannot be cancelled midway.
func (h *Helper) Run(ctx context.Context, paths scratch.Paths, executable string, constraints Constraints) (int, error) {
	args := h.Args(paths, executable, constraints)
	h.log.DebugContext(ctx, "running executable",
		"executable", executable, "infile", paths.Input)

	var out bytes.Buffer
	cmd := exec.Command(h.Path, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 0, &LaunchError{Args: cmd.Args, Output: out.String(), Err: err}
	}

	status := exitErr.ExitCode()
	if status < 0 {
		// the helper itself was terminated by a signal
		return 0, &LaunchError{Args: cmd.Args, Output: out.String(), Err: err}
	}
	return status, nil
}
