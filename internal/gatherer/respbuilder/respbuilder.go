package respbuilder

import (
	"time"

	"github.com/seekshiva/codechecker/api"
	"github.com/seekshiva/codechecker/internal"
)

// Builder gathers grading events and builds a complete api.GradeResponse.
type Builder struct {
	evalUuid     string
	submissionId int64

	started  time.Time
	finished *time.Time

	testResults []api.TestResult

	status       api.ExecStatus
	result       internal.Verdict
	errorMessage *string
}

func New(evalUuid string) *Builder {
	return &Builder{
		evalUuid: evalUuid,
		started:  time.Now(),
		status:   api.Success,
	}
}

// StartJob implements internal.ResultGatherer.
func (b *Builder) StartJob(submissionId int64, testCount int) {
	b.submissionId = submissionId
	b.testResults = make([]api.TestResult, 0, testCount)
}

// ReachTest implements internal.ResultGatherer.
func (b *Builder) ReachTest(testcaseId int64, input []byte, answer []byte) {}

// FinishTest implements internal.ResultGatherer.
func (b *Builder) FinishTest(testcaseId int64, verdict internal.Verdict, run *internal.RunData) {
	tr := api.TestResult{TestId: testcaseId, Verdict: verdict}
	if run != nil {
		status := run.ExitStatus
		wall := run.WallMillis
		tr.ExitStatus = &status
		tr.WallMillis = &wall
		if len(run.Stdout) > 0 {
			out := string(run.Stdout)
			tr.Stdout = &out
		}
		if len(run.Stderr) > 0 {
			err := string(run.Stderr)
			tr.Stderr = &err
		}
	}
	b.testResults = append(b.testResults, tr)
}

// InternalError implements internal.ResultGatherer.
func (b *Builder) InternalError(msg string) {
	b.status = api.InternalError
	b.result = internal.InternalError
	b.errorMessage = &msg
	b.finish()
}

// FinishNoError implements internal.ResultGatherer.
func (b *Builder) FinishNoError(result internal.Verdict) {
	b.result = result
	b.finish()
}

func (b *Builder) finish() {
	now := time.Now()
	b.finished = &now
}

// Response builds the api.GradeResponse from gathered data.
func (b *Builder) Response() api.GradeResponse {
	start := b.started.Format(time.RFC3339)
	finish := start
	total := int64(0)
	if b.finished != nil {
		finish = b.finished.Format(time.RFC3339)
		total = b.finished.Sub(b.started).Milliseconds()
	}
	return api.GradeResponse{
		EvalUuid:     b.evalUuid,
		SubmissionID: b.submissionId,
		Status:       b.status,
		Result:       b.result,
		TestResults:  b.testResults,
		ErrorMessage: func() *string {
			if b.errorMessage == nil {
				return nil
			}
			v := *b.errorMessage
			return &v
		}(),
		StartTime:   start,
		FinishTime:  finish,
		TotalTimeMs: total,
	}
}
