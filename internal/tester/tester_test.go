package tester_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sys/unix"

	"github.com/seekshiva/codechecker/internal"
	"github.com/seekshiva/codechecker/internal/checker"
	"github.com/seekshiva/codechecker/internal/database"
	"github.com/seekshiva/codechecker/internal/sandbox"
	"github.com/seekshiva/codechecker/internal/scratch"
	"github.com/seekshiva/codechecker/internal/tester"
	"github.com/seekshiva/codechecker/internal/tester/mocks"
	"github.com/seekshiva/codechecker/internal/verdict"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeRunner stands in for the setuid helper. Each call runs the next
// behaviour in line, the last one repeating.
type fakeRunner struct {
	behaviours []func(paths scratch.Paths) (int, error)
	calls      int
	seen       []sandbox.Constraints
}

func (r *fakeRunner) Run(ctx context.Context, paths scratch.Paths, executable string, c sandbox.Constraints) (int, error) {
	r.seen = append(r.seen, c)
	i := r.calls
	if i >= len(r.behaviours) {
		i = len(r.behaviours) - 1
	}
	r.calls++
	return r.behaviours[i](paths)
}

// echo copies the input file to the output file and exits cleanly.
func echo(t *testing.T) func(scratch.Paths) (int, error) {
	return func(paths scratch.Paths) (int, error) {
		in, err := os.ReadFile(paths.Input)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(paths.Output, in, 0606))
		return 0, nil
	}
}

func writes(t *testing.T, output string) func(scratch.Paths) (int, error) {
	return func(paths scratch.Paths) (int, error) {
		require.NoError(t, os.WriteFile(paths.Output, []byte(output), 0606))
		return 0, nil
	}
}

func exits(status int) func(scratch.Paths) (int, error) {
	return func(scratch.Paths) (int, error) { return status, nil }
}

// failingSelector fails the test when evaluation is reached.
type failingSelector struct{ t *testing.T }

func (s failingSelector) For(internal.Problem) checker.Evaluator { return s }

func (s failingSelector) Evaluate(context.Context, checker.Attempt) (internal.Verdict, error) {
	s.t.Fatal("evaluator must not be called")
	return "", nil
}

type fixture struct {
	dir    string
	store  *database.Memory
	runner *fakeRunner
	tester *tester.Tester
}

func newFixture(t *testing.T, opts []tester.Option, behaviours ...func(scratch.Paths) (int, error)) *fixture {
	dir := t.TempDir()
	store := database.NewMemory()
	store.AddSubmission(internal.Submission{ID: 7, ProblemID: 1, ExecPath: "/subm/7.exe"})
	runner := &fakeRunner{behaviours: behaviours}
	opts = append([]tester.Option{tester.WithLogger(discard)}, opts...)
	return &fixture{
		dir:    dir,
		store:  store,
		runner: runner,
		tester: tester.NewTester(scratch.New(dir, discard), runner, store, opts...),
	}
}

func (f *fixture) assertNoScratchFiles(t *testing.T) {
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func problem(testSets ...internal.TestSet) internal.Problem {
	return internal.Problem{ID: 1, Name: "sum", TimeLimitSec: 1, MemLimitMiB: 64, TestSets: testSets}
}

func testSet(id int64, testcases ...internal.Testcase) internal.TestSet {
	return internal.TestSet{ID: id, ProblemID: 1, Testcases: testcases}
}

func testcase(id int64, input, output string) internal.Testcase {
	return internal.Testcase{ID: id, Input: []byte(input), Output: []byte(output)}
}

func submission() internal.Submission {
	return internal.Submission{ID: 7, ProblemID: 1, ExecPath: "/subm/7.exe"}
}

func TestRunTestsPassed(t *testing.T) {
	f := newFixture(t, nil, echo(t))
	prob := problem(
		testSet(1, testcase(10, "1 2\n", "1  2\n"), testcase(11, "3\n", "3\r\n")),
		testSet(2, testcase(20, "x\n", "x\n")),
	)

	ctrl := gomock.NewController(t)
	gath := mocks.NewMockResultGatherer(ctrl)
	gomock.InOrder(
		gath.EXPECT().StartJob(int64(7), 3),
		gath.EXPECT().ReachTest(int64(10), gomock.Any(), gomock.Any()),
		gath.EXPECT().FinishTest(int64(10), internal.Passed, gomock.Any()),
		gath.EXPECT().ReachTest(int64(11), gomock.Any(), gomock.Any()),
		gath.EXPECT().FinishTest(int64(11), internal.Passed, gomock.Any()),
		gath.EXPECT().ReachTest(int64(20), gomock.Any(), gomock.Any()),
		gath.EXPECT().FinishTest(int64(20), internal.Passed, gomock.Any()),
		gath.EXPECT().FinishNoError(internal.Passed),
	)

	result, err := f.tester.RunTests(context.Background(), submission(), prob, gath)
	require.NoError(t, err)
	assert.Equal(t, internal.Passed, result)

	assert.Equal(t, []internal.TestcaseEval{
		{SubmissionID: 7, TestcaseID: 10, PassStatus: internal.Passed},
		{SubmissionID: 7, TestcaseID: 11, PassStatus: internal.Passed},
		{SubmissionID: 7, TestcaseID: 20, PassStatus: internal.Passed},
	}, f.store.Evals(7))
	assert.Equal(t, []internal.Verdict{internal.Running, internal.Passed}, f.store.ResultHistory(7))
	f.assertNoScratchFiles(t)
}

func TestRunTestsWrongAnswer(t *testing.T) {
	f := newFixture(t, nil, writes(t, "4\n"))
	prob := problem(testSet(1, testcase(10, "2 2\n", "5\n")))

	result, err := f.tester.RunTests(context.Background(), submission(), prob, nil)
	require.NoError(t, err)
	assert.Equal(t, internal.Failed, result)
	assert.Equal(t, []internal.TestcaseEval{
		{SubmissionID: 7, TestcaseID: 10, PassStatus: internal.Failed},
	}, f.store.Evals(7))
	f.assertNoScratchFiles(t)
}

func TestRunTestsKilledSkipsEvaluation(t *testing.T) {
	f := newFixture(t,
		[]tester.Option{tester.WithEvaluators(failingSelector{t})},
		exits(int(unix.SIGKILL)),
	)
	prob := problem(testSet(1, testcase(10, "1\n", "1\n")))

	ctrl := gomock.NewController(t)
	gath := mocks.NewMockResultGatherer(ctrl)
	gath.EXPECT().StartJob(int64(7), 1)
	gath.EXPECT().ReachTest(int64(10), gomock.Any(), gomock.Any())
	gath.EXPECT().FinishTest(int64(10), internal.Killed, gomock.Any()).Do(
		func(_ int64, _ internal.Verdict, run *internal.RunData) {
			assert.Equal(t, int(unix.SIGKILL), run.ExitStatus)
		})
	gath.EXPECT().FinishNoError(internal.Killed)

	result, err := f.tester.RunTests(context.Background(), submission(), prob, gath)
	require.NoError(t, err)
	assert.Equal(t, internal.Killed, result)
	assert.Equal(t, []internal.TestcaseEval{
		{SubmissionID: 7, TestcaseID: 10, PassStatus: internal.Killed},
	}, f.store.Evals(7))
	f.assertNoScratchFiles(t)
}

func TestRunTestsRecordsFirstFailure(t *testing.T) {
	f := newFixture(t, nil,
		exits(int(unix.SIGXCPU)),
		echo(t),
		exits(int(unix.SIGSEGV)),
	)
	prob := problem(
		testSet(1, testcase(10, "a\n", "a\n"), testcase(11, "b\n", "b\n")),
		testSet(2, testcase(20, "c\n", "c\n")),
	)

	result, err := f.tester.RunTests(context.Background(), submission(), prob, nil)
	require.NoError(t, err)
	assert.Equal(t, internal.TimeLimitExceeded, result)
	assert.Equal(t, 3, f.runner.calls)
	assert.Equal(t, []internal.TestcaseEval{
		{SubmissionID: 7, TestcaseID: 10, PassStatus: internal.TimeLimitExceeded},
		{SubmissionID: 7, TestcaseID: 11, PassStatus: internal.Passed},
		{SubmissionID: 7, TestcaseID: 20, PassStatus: internal.SegmentationFault},
	}, f.store.Evals(7))
	assert.Equal(t, []internal.Verdict{internal.Running, internal.TimeLimitExceeded}, f.store.ResultHistory(7))
}

func TestRunTestsHelperExecFailureAborts(t *testing.T) {
	f := newFixture(t, nil, echo(t), exits(verdict.HelperExecFailed))
	prob := problem(testSet(1,
		testcase(10, "a\n", "a\n"),
		testcase(11, "b\n", "b\n"),
		testcase(12, "c\n", "c\n"),
	))

	ctrl := gomock.NewController(t)
	gath := mocks.NewMockResultGatherer(ctrl)
	gath.EXPECT().StartJob(int64(7), 3)
	gath.EXPECT().ReachTest(gomock.Any(), gomock.Any(), gomock.Any()).Times(2)
	gath.EXPECT().FinishTest(int64(10), internal.Passed, gomock.Any())
	gath.EXPECT().InternalError(gomock.Any())

	result, err := f.tester.RunTests(context.Background(), submission(), prob, gath)
	assert.Equal(t, internal.InternalError, result)

	var infraErr *tester.InfraError
	require.ErrorAs(t, err, &infraErr)
	assert.Equal(t, int64(7), infraErr.SubmissionID)
	assert.Equal(t, int64(11), infraErr.TestcaseID)
	assert.Equal(t, verdict.HelperExecFailed, infraErr.ExitStatus)
	assert.ErrorIs(t, err, verdict.ErrHelperExec)

	assert.Equal(t, 2, f.runner.calls)
	assert.Equal(t, []internal.TestcaseEval{
		{SubmissionID: 7, TestcaseID: 10, PassStatus: internal.Passed},
	}, f.store.Evals(7))
	assert.Equal(t, []internal.Verdict{internal.Running, internal.InternalError}, f.store.ResultHistory(7))
	f.assertNoScratchFiles(t)
}

func TestRunTestsLaunchFailureAborts(t *testing.T) {
	launchErr := &sandbox.LaunchError{Err: errors.New("no such file or directory")}
	f := newFixture(t, nil, func(scratch.Paths) (int, error) { return 0, launchErr })
	prob := problem(testSet(1, testcase(10, "a\n", "a\n")))

	result, err := f.tester.RunTests(context.Background(), submission(), prob, nil)
	assert.Equal(t, internal.InternalError, result)

	var infraErr *tester.InfraError
	require.ErrorAs(t, err, &infraErr)
	assert.Equal(t, -1, infraErr.ExitStatus)
	assert.Equal(t, int64(10), infraErr.TestcaseID)

	var gotLaunch *sandbox.LaunchError
	assert.ErrorAs(t, err, &gotLaunch)
	assert.Empty(t, f.store.Evals(7))
	assert.Equal(t, []internal.Verdict{internal.Running, internal.InternalError}, f.store.ResultHistory(7))
	f.assertNoScratchFiles(t)
}

func TestRunTestsNoTestcases(t *testing.T) {
	f := newFixture(t, nil, echo(t))

	result, err := f.tester.RunTests(context.Background(), submission(), problem(), nil)
	require.NoError(t, err)
	assert.Equal(t, internal.Passed, result)
	assert.Zero(t, f.runner.calls)
	assert.Equal(t, []internal.Verdict{internal.Running, internal.Passed}, f.store.ResultHistory(7))
}

func TestRunTestsConstraints(t *testing.T) {
	f := newFixture(t, []tester.Option{tester.WithDefaultOutputLimit(32)}, echo(t))

	prob := problem(testSet(1, testcase(10, "a\n", "a\n")))
	_, err := f.tester.RunTests(context.Background(), submission(), prob, nil)
	require.NoError(t, err)

	prob.OutputLimitMiB = 4
	_, err = f.tester.RunTests(context.Background(), submission(), prob, nil)
	require.NoError(t, err)

	assert.Equal(t, []sandbox.Constraints{
		{MemLimitMiB: 64, TimeLimitSec: 1, MaxFileSizeMiB: 32},
		{MemLimitMiB: 64, TimeLimitSec: 1, MaxFileSizeMiB: 4},
	}, f.runner.seen)
}

func TestRunTestsCustomEvaluatorFailureAborts(t *testing.T) {
	f := newFixture(t,
		[]tester.Option{tester.WithEvaluators(checker.NewSelector(discard, 0))},
		echo(t),
	)
	prob := problem(testSet(1, testcase(10, "a\n", "a\n")))
	prob.CustomEval = "/nonexistent/evaluator"

	result, err := f.tester.RunTests(context.Background(), submission(), prob, nil)
	assert.Equal(t, internal.InternalError, result)

	var infraErr *tester.InfraError
	require.ErrorAs(t, err, &infraErr)
	assert.Equal(t, 0, infraErr.ExitStatus)
	assert.Empty(t, f.store.Evals(7))
	f.assertNoScratchFiles(t)
}

// ctxWriter fails writes once their context is done, as database/sql does.
type ctxWriter struct {
	*database.Memory
}

func (w ctxWriter) SetSubmissionResult(ctx context.Context, submissionId int64, result internal.Verdict) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.Memory.SetSubmissionResult(ctx, submissionId, result)
}

func (w ctxWriter) SaveTestcaseEval(ctx context.Context, eval internal.TestcaseEval) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.Memory.SaveTestcaseEval(ctx, eval)
}

func TestRunTestsFinishesAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	store := database.NewMemory()
	runner := &fakeRunner{behaviours: []func(scratch.Paths) (int, error){
		func(scratch.Paths) (int, error) {
			cancel()
			return int(unix.SIGKILL), nil
		},
		echo(t),
	}}
	tst := tester.NewTester(scratch.New(dir, discard), runner, ctxWriter{store},
		tester.WithLogger(discard))
	prob := problem(testSet(1, testcase(10, "1\n", "1\n"), testcase(11, "2\n", "2\n")))

	result, err := tst.RunTests(ctx, submission(), prob, nil)
	require.NoError(t, err)
	assert.Equal(t, internal.Killed, result)
	assert.Equal(t, []internal.TestcaseEval{
		{SubmissionID: 7, TestcaseID: 10, PassStatus: internal.Killed},
		{SubmissionID: 7, TestcaseID: 11, PassStatus: internal.Passed},
	}, store.Evals(7))
	assert.Equal(t, []internal.Verdict{internal.Running, internal.Killed}, store.ResultHistory(7))
}

func TestRunTestsCustomEvaluatorIgnoresCancel(t *testing.T) {
	eval := t.TempDir() + "/accept.sh"
	require.NoError(t, os.WriteFile(eval, []byte("#!/bin/sh\nexit 0\n"), 0755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newFixture(t,
		[]tester.Option{tester.WithEvaluators(checker.NewSelector(discard, time.Minute))},
		echo(t),
	)
	prob := problem(testSet(1, testcase(10, "a\n", "a\n")))
	prob.CustomEval = eval

	result, err := f.tester.RunTests(ctx, submission(), prob, nil)
	require.NoError(t, err)
	assert.Equal(t, internal.Passed, result)
	f.assertNoScratchFiles(t)
}
