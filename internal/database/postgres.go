package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/seekshiva/codechecker/internal"
)

// Schema creates the tables the judging core reads and writes.
const Schema = `
CREATE TABLE IF NOT EXISTS problems (
	id        BIGSERIAL PRIMARY KEY,
	name      TEXT NOT NULL,
	tlimit    INTEGER NOT NULL,
	mlimit    INTEGER NOT NULL,
	olimit    INTEGER NOT NULL DEFAULT 0,
	cust_eval TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS test_sets (
	id         BIGSERIAL PRIMARY KEY,
	problem_id BIGINT NOT NULL REFERENCES problems (id),
	name       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS testcases (
	id          BIGSERIAL PRIMARY KEY,
	test_set_id BIGINT NOT NULL REFERENCES test_sets (id),
	input       BYTEA NOT NULL,
	output      BYTEA NOT NULL
);
CREATE TABLE IF NOT EXISTS submissions (
	id         BIGSERIAL PRIMARY KEY,
	problem_id BIGINT NOT NULL REFERENCES problems (id),
	exec_path  TEXT NOT NULL,
	result     TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS testcase_evals (
	id            BIGSERIAL PRIMARY KEY,
	submission_id BIGINT NOT NULL REFERENCES submissions (id),
	testcase_id   BIGINT NOT NULL REFERENCES testcases (id),
	pass_status   TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS testcase_evals_submission_testcase
	ON testcase_evals (submission_id, testcase_id);
`

// A re-graded submission overwrites the evaluations of its earlier run.
const upsertTestcaseEval = `INSERT INTO testcase_evals (submission_id, testcase_id, pass_status)
VALUES (:submission_id, :testcase_id, :pass_status)
ON CONFLICT (submission_id, testcase_id) DO UPDATE SET pass_status = EXCLUDED.pass_status`

type Postgres struct {
	db *sqlx.DB
}

func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, Schema)
	return err
}

// SelectProblem loads a problem with all of its test sets and testcases,
// each ordered by creation.
func (p *Postgres) SelectProblem(ctx context.Context, problemId int64) (internal.Problem, error) {
	var problem internal.Problem
	err := p.db.GetContext(ctx, &problem,
		"SELECT id, name, tlimit, mlimit, olimit, cust_eval FROM problems WHERE id = $1",
		problemId,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return problem, fmt.Errorf("problem %d: %w", problemId, ErrNotFound)
	}
	if err != nil {
		return problem, fmt.Errorf("failed to select problem %d: %w", problemId, err)
	}

	var testSets []internal.TestSet
	err = p.db.SelectContext(ctx, &testSets,
		"SELECT id, problem_id, name FROM test_sets WHERE problem_id = $1 ORDER BY id",
		problemId,
	)
	if err != nil {
		return problem, fmt.Errorf("failed to select test sets of problem %d: %w", problemId, err)
	}

	ids := make([]int64, len(testSets))
	for i, ts := range testSets {
		ids[i] = ts.ID
	}
	var testcases []internal.Testcase
	err = p.db.SelectContext(ctx, &testcases,
		"SELECT id, test_set_id, input, output FROM testcases WHERE test_set_id = ANY($1) ORDER BY test_set_id, id",
		pq.Array(ids),
	)
	if err != nil {
		return problem, fmt.Errorf("failed to select testcases of problem %d: %w", problemId, err)
	}

	problem.TestSets = groupTestcases(testSets, testcases)
	return problem, nil
}

func groupTestcases(testSets []internal.TestSet, testcases []internal.Testcase) []internal.TestSet {
	index := make(map[int64]int, len(testSets))
	for i, ts := range testSets {
		index[ts.ID] = i
	}
	for _, tc := range testcases {
		if i, ok := index[tc.TestSetID]; ok {
			testSets[i].Testcases = append(testSets[i].Testcases, tc)
		}
	}
	return testSets
}

func (p *Postgres) SelectSubmission(ctx context.Context, submissionId int64) (internal.Submission, error) {
	var subm internal.Submission
	err := p.db.GetContext(ctx, &subm,
		"SELECT id, problem_id, exec_path, result FROM submissions WHERE id = $1",
		submissionId,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return subm, fmt.Errorf("submission %d: %w", submissionId, ErrNotFound)
	}
	if err != nil {
		return subm, fmt.Errorf("failed to select submission %d: %w", submissionId, err)
	}
	return subm, nil
}

func (p *Postgres) SetSubmissionResult(ctx context.Context, submissionId int64, result internal.Verdict) error {
	res, err := p.db.ExecContext(ctx,
		"UPDATE submissions SET result = $1 WHERE id = $2",
		result,
		submissionId,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("submission %d: %w", submissionId, ErrNotFound)
	}
	return nil
}

func (p *Postgres) SaveTestcaseEval(ctx context.Context, eval internal.TestcaseEval) error {
	_, err := p.db.NamedExecContext(ctx, upsertTestcaseEval, eval)
	return err
}
