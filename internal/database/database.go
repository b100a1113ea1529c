// Package database gives the judging core access to submissions, problems
// and testcases, and stores the evaluation of each testcase.
package database

import (
	"context"
	"errors"

	"github.com/seekshiva/codechecker/internal"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	SelectProblem(ctx context.Context, problemId int64) (internal.Problem, error)
	SelectSubmission(ctx context.Context, submissionId int64) (internal.Submission, error)
	SetSubmissionResult(ctx context.Context, submissionId int64, result internal.Verdict) error
	SaveTestcaseEval(ctx context.Context, eval internal.TestcaseEval) error
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Postgres)(nil)
)
