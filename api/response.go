package api

import "github.com/seekshiva/codechecker/internal"

// TestResult represents the result of a single testcase
type TestResult struct {
	TestId  int64            `json:"test_id"`
	Verdict internal.Verdict `json:"verdict"`

	ExitStatus *int   `json:"exit_status,omitempty"`
	WallMillis *int64 `json:"wall_ms,omitempty"`

	// Output (truncated for simple response)
	Stdout *string `json:"stdout,omitempty"`
	Stderr *string `json:"stderr,omitempty"`
}

type ExecStatus string

const (
	Success       ExecStatus = "success"
	InternalError ExecStatus = "internal_error"
)

// GradeResponse is a complete, non-streaming grading report
type GradeResponse struct {
	EvalUuid     string `json:"eval_uuid"`
	SubmissionID int64  `json:"submission_id"`

	Status ExecStatus       `json:"status"`
	Result internal.Verdict `json:"result"`

	TestResults []TestResult `json:"test_results"`

	// Overall error message (for internal errors)
	ErrorMessage *string `json:"error_message,omitempty"`

	StartTime   string `json:"start_time"`
	FinishTime  string `json:"finish_time"`
	TotalTimeMs int64  `json:"total_time_ms"`
}
