// Package checker decides whether the output of a run that completed within
// its limits is correct.
package checker

import (
	"context"
	"log/slog"
	"time"

	"github.com/seekshiva/codechecker/internal"
	"github.com/seekshiva/codechecker/internal/scratch"
)

// Attempt is the material an evaluator judges. The run's output lives in
// the output file of Set.
type Attempt struct {
	SubmissionID int64
	TestcaseID   int64
	Set          *scratch.Set
	Input        []byte
	Expected     []byte
}

// Evaluator returns internal.Passed or internal.Failed. An error means the
// evaluator itself could not judge the attempt.
type Evaluator interface {
	Evaluate(ctx context.Context, attempt Attempt) (internal.Verdict, error)
}

// Selector picks the evaluator configured for a problem.
type Selector struct {
	log         *slog.Logger
	evalTimeout time.Duration
	diff        *Diff
}

func NewSelector(log *slog.Logger, evalTimeout time.Duration) *Selector {
	return &Selector{
		log:         log,
		evalTimeout: evalTimeout,
		diff:        NewDiff(log),
	}
}

func (s *Selector) For(problem internal.Problem) Evaluator {
	if problem.CustomEval != "" {
		return NewExec(problem.CustomEval, s.evalTimeout, s.log)
	}
	return s.diff
}
