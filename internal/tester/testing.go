package tester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/seekshiva/codechecker/internal"
	"github.com/seekshiva/codechecker/internal/checker"
	"github.com/seekshiva/codechecker/internal/sandbox"
	"github.com/seekshiva/codechecker/internal/verdict"
)

// maxReportedOutput bounds how much of stdout and stderr is passed to the
// gatherer.
const maxReportedOutput = 64 << 10

// RunTests grades subm against every testcase of problem, one at a time and
// in order, persisting one evaluation per testcase. Every testcase is run;
// the submission result is internal.Passed when all of them pass and the
// first non-passing verdict otherwise.
//
// A failure of the judging environment stops the run at once, marks the
// submission internal.InternalError and returns an *InfraError.
//
// A started run is not cancellable: ctx only carries values, so its
// writes and evaluations complete after the caller gives up.
func (t *Tester) RunTests(
	ctx context.Context,
	subm internal.Submission,
	problem internal.Problem,
	gath internal.ResultGatherer,
) (internal.Verdict, error) {
	ctx = context.WithoutCancel(ctx)
	if gath == nil {
		gath = internal.NopGatherer{}
	}
	log := t.log.With("submission", subm.ID, "problem", problem.ID)

	if err := t.writer.SetSubmissionResult(ctx, subm.ID, internal.Running); err != nil {
		return t.abort(ctx, log, subm, gath, &InfraError{
			SubmissionID: subm.ID,
			ExitStatus:   -1,
			Err:          fmt.Errorf("failed to mark submission as running: %w", err),
		})
	}
	gath.StartJob(subm.ID, problem.TestcaseCount())

	constraints := t.constraintsFor(problem)
	evaluator := t.evaluators.For(problem)

	result := internal.Passed
	for _, testSet := range problem.TestSets {
		for _, testcase := range testSet.Testcases {
			v, err := t.runTestcase(ctx, log, subm, testcase, constraints, evaluator, gath)
			if err != nil {
				return t.abort(ctx, log, subm, gath, err)
			}
			if v != internal.Passed && result == internal.Passed {
				result = v
			}
		}
	}

	if err := t.writer.SetSubmissionResult(ctx, subm.ID, result); err != nil {
		return t.abort(ctx, log, subm, gath, &InfraError{
			SubmissionID: subm.ID,
			ExitStatus:   -1,
			Err:          fmt.Errorf("failed to store submission result: %w", err),
		})
	}
	log.InfoContext(ctx, "submission graded", "result", result)
	gath.FinishNoError(result)
	return result, nil
}

func (t *Tester) runTestcase(
	ctx context.Context,
	log *slog.Logger,
	subm internal.Submission,
	testcase internal.Testcase,
	constraints sandbox.Constraints,
	evaluator checker.Evaluator,
	gath internal.ResultGatherer,
) (internal.Verdict, error) {
	log = log.With("testcase", testcase.ID)
	infraErr := func(status int, err error) *InfraError {
		return &InfraError{
			SubmissionID: subm.ID,
			TestcaseID:   testcase.ID,
			ExitStatus:   status,
			Err:          err,
		}
	}

	gath.ReachTest(testcase.ID, testcase.Input, testcase.Output)

	set, err := t.scratch.Acquire(subm.ID, testcase.Input)
	if err != nil {
		return "", infraErr(-1, err)
	}
	defer func() {
		if err := set.Release(); err != nil {
			log.WarnContext(ctx, "failed to clean up scratch files", "error", err)
		}
	}()

	start := time.Now()
	status, err := t.runner.Run(ctx, set.Paths(), subm.ExecPath, constraints)
	if err != nil {
		return "", infraErr(-1, err)
	}
	wall := time.Since(start)

	log.DebugContext(ctx, "setuid helper finished", "exit_status", status, "wall", wall)
	v, err := verdict.Classify(status)
	if err != nil {
		return "", infraErr(status, err)
	}

	if v == internal.Running {
		v, err = evaluator.Evaluate(ctx, checker.Attempt{
			SubmissionID: subm.ID,
			TestcaseID:   testcase.ID,
			Set:          set,
			Input:        testcase.Input,
			Expected:     testcase.Output,
		})
		if err != nil {
			return "", infraErr(status, err)
		}
	} else {
		log.DebugContext(ctx, "code execution failed", "verdict", v)
	}

	err = t.writer.SaveTestcaseEval(ctx, internal.TestcaseEval{
		SubmissionID: subm.ID,
		TestcaseID:   testcase.ID,
		PassStatus:   v,
	})
	if err != nil {
		return "", infraErr(status, fmt.Errorf("failed to store testcase evaluation: %w", err))
	}

	gath.FinishTest(testcase.ID, v, &internal.RunData{
		ExitStatus: status,
		WallMillis: wall.Milliseconds(),
		Stdout:     readHead(log, set.Paths().Output),
		Stderr:     readHead(log, set.Paths().Error),
	})
	return v, nil
}

func (t *Tester) abort(
	ctx context.Context,
	log *slog.Logger,
	subm internal.Submission,
	gath internal.ResultGatherer,
	err error,
) (internal.Verdict, error) {
	var ie *InfraError
	if errors.As(err, &ie) {
		log = log.With("testcase", ie.TestcaseID, "exit_status", ie.ExitStatus)
	}
	log.ErrorContext(ctx, "judging environment failed, aborting run", "error", err)

	if werr := t.writer.SetSubmissionResult(ctx, subm.ID, internal.InternalError); werr != nil {
		log.ErrorContext(ctx, "failed to mark submission as internal error", "error", werr)
	}
	gath.InternalError(err.Error())
	return internal.InternalError, err
}

func readHead(log *slog.Logger, path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		log.Warn("failed to open run output", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	head, err := io.ReadAll(io.LimitReader(f, maxReportedOutput))
	if err != nil {
		log.Warn("failed to read run output", "path", path, "error", err)
	}
	return head
}
