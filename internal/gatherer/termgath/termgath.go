// Package termgath prints grading progress for a human at a terminal.
package termgath

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/seekshiva/codechecker/internal"
	"github.com/seekshiva/codechecker/internal/verdict"
)

type TerminalGatherer struct {
	StartedAt time.Time
	out       io.Writer

	passed *color.Color
	failed *color.Color
	errc   *color.Color
}

func New() *TerminalGatherer { return NewWriter(os.Stdout) }

func NewWriter(out io.Writer) *TerminalGatherer {
	return &TerminalGatherer{
		StartedAt: time.Now(),
		out:       out,
		passed:    color.New(color.FgGreen),
		failed:    color.New(color.FgRed),
		errc:      color.New(color.FgHiRed, color.Bold),
	}
}

func (t *TerminalGatherer) StartJob(submissionId int64, testCount int) {
	t.StartedAt = time.Now()
	fmt.Fprintf(t.out, "== Grading submission %d (%d tests) ==\n", submissionId, testCount)
}

func (t *TerminalGatherer) ReachTest(testcaseId int64, input []byte, answer []byte) {
	fmt.Fprintf(t.out, "-> Test %d reached\n", testcaseId)
}

func (t *TerminalGatherer) FinishTest(testcaseId int64, v internal.Verdict, run *internal.RunData) {
	fmt.Fprintf(t.out, "<- Test %d finished: %s\n", testcaseId, t.paint(v))
	if run != nil {
		fmt.Fprintf(t.out, "  subm: exit=%d wall=%dms\n", run.ExitStatus, run.WallMillis)
		if len(run.Stderr) > 0 {
			fmt.Fprintf(t.out, "  stderr:\n%s\n", run.Stderr)
		}
	}
}

func (t *TerminalGatherer) InternalError(msg string) {
	t.errc.Fprintf(t.out, "== Internal error: %s ==\n", msg)
}

func (t *TerminalGatherer) FinishNoError(result internal.Verdict) {
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	fmt.Fprintf(t.out, "== Grading finished in %s: %s ==\n", dur, t.paint(result))
}

func (t *TerminalGatherer) paint(v internal.Verdict) string {
	switch {
	case v == internal.Passed:
		return t.passed.Sprint(v)
	case verdict.IsFailure(v):
		return t.failed.Sprint(v)
	}
	return string(v)
}
