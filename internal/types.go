package internal

// Verdict tags the outcome of one testcase attempt or of a whole submission.
type Verdict string

const (
	// Running marks a submission that is being graded. For a single
	// testcase it means the program ran to completion within all limits.
	Running Verdict = "RUN"

	Passed Verdict = "PASSED"
	Failed Verdict = "FAILED"

	TimeLimitExceeded   Verdict = "TLE"
	OutputLimitExceeded Verdict = "OUTE"
	SegmentationFault   Verdict = "SEG"
	FloatingPointError  Verdict = "FPE"
	Killed              Verdict = "KILL"
	Aborted             Verdict = "ABRT"
	RuntimeError        Verdict = "RTE"

	// InternalError marks a submission whose grading was aborted because
	// the judging environment failed.
	InternalError Verdict = "IE"
)

type Submission struct {
	ID        int64   `json:"id" db:"id"`
	ProblemID int64   `json:"problem_id" db:"problem_id"`
	ExecPath  string  `json:"exec_path" db:"exec_path"`
	Result    Verdict `json:"result" db:"result"`
}

// Problem is the read-only grading configuration of a task. Test sets and
// their testcases are kept in creation order.
type Problem struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	TimeLimitSec   int       `json:"tlimit" db:"tlimit"`
	MemLimitMiB    int       `json:"mlimit" db:"mlimit"`
	OutputLimitMiB int       `json:"olimit" db:"olimit"`
	CustomEval     string    `json:"cust_eval" db:"cust_eval"`
	TestSets       []TestSet `json:"test_sets" db:"-"`
}

func (p *Problem) TestcaseCount() int {
	n := 0
	for _, ts := range p.TestSets {
		n += len(ts.Testcases)
	}
	return n
}

type TestSet struct {
	ID        int64      `json:"id" db:"id"`
	ProblemID int64      `json:"problem_id" db:"problem_id"`
	Name      string     `json:"name" db:"name"`
	Testcases []Testcase `json:"testcases" db:"-"`
}

type Testcase struct {
	ID        int64  `json:"id" db:"id"`
	TestSetID int64  `json:"test_set_id" db:"test_set_id"`
	Input     []byte `json:"input" db:"input"`
	Output    []byte `json:"output" db:"output"`
}

type TestcaseEval struct {
	SubmissionID int64   `json:"submission_id" db:"submission_id"`
	TestcaseID   int64   `json:"testcase_id" db:"testcase_id"`
	PassStatus   Verdict `json:"pass_status" db:"pass_status"`
}

// RunData describes one execution of the submission under the helper.
type RunData struct {
	ExitStatus int    `json:"exit_status"`
	WallMillis int64  `json:"wall_ms"`
	Stdout     []byte `json:"stdout"`
	Stderr     []byte `json:"stderr"`
}
