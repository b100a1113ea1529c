//go:generate mockgen -destination=mocks/mock_gatherer.go -package=mocks github.com/seekshiva/codechecker/internal ResultGatherer

package tester

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seekshiva/codechecker/internal"
	"github.com/seekshiva/codechecker/internal/checker"
	"github.com/seekshiva/codechecker/internal/sandbox"
	"github.com/seekshiva/codechecker/internal/scratch"
)

// Runner executes a submission under resource limits and returns the raw
// exit status of the isolation helper.
type Runner interface {
	Run(ctx context.Context, paths scratch.Paths, executable string, constraints sandbox.Constraints) (int, error)
}

// ResultWriter persists grading results.
type ResultWriter interface {
	SetSubmissionResult(ctx context.Context, submissionId int64, result internal.Verdict) error
	SaveTestcaseEval(ctx context.Context, eval internal.TestcaseEval) error
}

type EvaluatorSelector interface {
	For(problem internal.Problem) checker.Evaluator
}

// InfraError aborts a grading run. It is caused by the judging environment,
// never by the submission. ExitStatus is -1 when the helper produced none.
type InfraError struct {
	SubmissionID int64
	TestcaseID   int64
	ExitStatus   int
	Err          error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("submission %d, testcase %d, exit status %d: %v",
		e.SubmissionID, e.TestcaseID, e.ExitStatus, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

type Tester struct {
	scratch    *scratch.Manager
	runner     Runner
	writer     ResultWriter
	evaluators EvaluatorSelector
	log        *slog.Logger

	defaultOutputLimitMiB int
}

type Option func(*Tester)

func WithLogger(log *slog.Logger) Option {
	return func(t *Tester) { t.log = log }
}

func WithEvaluators(sel EvaluatorSelector) Option {
	return func(t *Tester) { t.evaluators = sel }
}

// WithDefaultOutputLimit sets the output limit used for problems that do
// not define one.
func WithDefaultOutputLimit(mib int) Option {
	return func(t *Tester) { t.defaultOutputLimitMiB = mib }
}

func NewTester(scratch *scratch.Manager, runner Runner, writer ResultWriter, opts ...Option) *Tester {
	t := &Tester{
		scratch:               scratch,
		runner:                runner,
		writer:                writer,
		log:                   slog.Default(),
		defaultOutputLimitMiB: sandbox.DefaultConstraints().MaxFileSizeMiB,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.evaluators == nil {
		t.evaluators = checker.NewSelector(t.log, 0)
	}
	return t
}

func (t *Tester) constraintsFor(problem internal.Problem) sandbox.Constraints {
	outputLimit := problem.OutputLimitMiB
	if outputLimit <= 0 {
		outputLimit = t.defaultOutputLimitMiB
	}
	return sandbox.Constraints{
		MemLimitMiB:    problem.MemLimitMiB,
		TimeLimitSec:   problem.TimeLimitSec,
		MaxFileSizeMiB: outputLimit,
	}
}
