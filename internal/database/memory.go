package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekshiva/codechecker/internal"
)

// Memory keeps problems, submissions and evaluations in process. It serves
// one-off local grading and tests.
type Memory struct {
	mu          sync.Mutex
	problems    map[int64]internal.Problem
	submissions map[int64]internal.Submission
	evals       []internal.TestcaseEval
	history     map[int64][]internal.Verdict
}

func NewMemory() *Memory {
	return &Memory{
		problems:    make(map[int64]internal.Problem),
		submissions: make(map[int64]internal.Submission),
		history:     make(map[int64][]internal.Verdict),
	}
}

func (m *Memory) AddProblem(p internal.Problem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems[p.ID] = p
}

func (m *Memory) AddSubmission(s internal.Submission) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions[s.ID] = s
}

func (m *Memory) SelectProblem(ctx context.Context, problemId int64) (internal.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[problemId]
	if !ok {
		return internal.Problem{}, fmt.Errorf("problem %d: %w", problemId, ErrNotFound)
	}
	return p, nil
}

func (m *Memory) SelectSubmission(ctx context.Context, submissionId int64) (internal.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[submissionId]
	if !ok {
		return internal.Submission{}, fmt.Errorf("submission %d: %w", submissionId, ErrNotFound)
	}
	return s, nil
}

func (m *Memory) SetSubmissionResult(ctx context.Context, submissionId int64, result internal.Verdict) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[submissionId]
	if !ok {
		s = internal.Submission{ID: submissionId}
	}
	s.Result = result
	m.submissions[submissionId] = s
	m.history[submissionId] = append(m.history[submissionId], result)
	return nil
}

func (m *Memory) SaveTestcaseEval(ctx context.Context, eval internal.TestcaseEval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.evals {
		if e.SubmissionID == eval.SubmissionID && e.TestcaseID == eval.TestcaseID {
			m.evals[i] = eval
			return nil
		}
	}
	m.evals = append(m.evals, eval)
	return nil
}

// Evals returns the evaluations of a submission in the order they were first
// saved. Saving a testcase again replaces its evaluation.
func (m *Memory) Evals(submissionId int64) []internal.TestcaseEval {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []internal.TestcaseEval
	for _, e := range m.evals {
		if e.SubmissionID == submissionId {
			res = append(res, e)
		}
	}
	return res
}

// ResultHistory returns every result the submission was given, oldest first.
func (m *Memory) ResultHistory(submissionId int64) []internal.Verdict {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]internal.Verdict(nil), m.history[submissionId]...)
}
