package checker

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/seekshiva/codechecker/internal"
)

// minLineLimit is the longest line Compare accepts. Evaluate raises it to
// fit the files it compares, so a single-line output below any output
// limit never fails with bufio.ErrTooLong.
const minLineLimit = 64 << 20

// Diff is the default evaluator. It accepts output that matches the
// expected output up to the amount of whitespace within lines, trailing
// whitespace and blank lines.
type Diff struct {
	log *slog.Logger
}

func NewDiff(log *slog.Logger) *Diff {
	return &Diff{log: log}
}

func (d *Diff) Evaluate(ctx context.Context, attempt Attempt) (internal.Verdict, error) {
	refPath, err := writeReference(attempt)
	if err != nil {
		return "", err
	}

	actual, err := os.Open(attempt.Set.Paths().Output)
	if err != nil {
		return "", fmt.Errorf("failed to open output file: %w", err)
	}
	defer actual.Close()

	reference, err := os.Open(refPath)
	if err != nil {
		return "", fmt.Errorf("failed to open reference file: %w", err)
	}
	defer reference.Close()

	err = compare(actual, reference, lineLimit(actual, reference))
	var mismatch *MismatchError
	switch {
	case err == nil:
		d.log.DebugContext(ctx, "testcase was correctly answered", "testcase", attempt.TestcaseID)
		return internal.Passed, nil
	case errors.As(err, &mismatch):
		d.log.DebugContext(ctx, "output differs", "testcase", attempt.TestcaseID, "diff", mismatch.Error())
		return internal.Failed, nil
	default:
		return "", fmt.Errorf("failed to compare output: %w", err)
	}
}

// writeReference stores the expected output with Windows line endings
// converted and locks the output file down before it is read.
func writeReference(attempt Attempt) (string, error) {
	expected := bytes.ReplaceAll(attempt.Expected, []byte("\r\n"), []byte("\n"))
	refPath, err := attempt.Set.WriteReference(expected)
	if err != nil {
		return "", err
	}
	if err := attempt.Set.Restrict(); err != nil {
		return "", err
	}
	return refPath, nil
}

// MismatchError describes the first differing line. An empty text with
// a zero line number means the side ended.
type MismatchError struct {
	ActualLine   int
	Actual       string
	ExpectedLine int
	Expected     string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("actual line %d: %s, expected line %d: %s",
		e.ActualLine, quoteOrEOF(e.Actual, e.ActualLine),
		e.ExpectedLine, quoteOrEOF(e.Expected, e.ExpectedLine))
}

func quoteOrEOF(s string, line int) string {
	if line == 0 {
		return "EOF"
	}
	return fmt.Sprintf("%q", s)
}

// Compare returns nil when actual and expected are equal after normalizing
// whitespace and dropping blank lines, a *MismatchError when they differ,
// and any other error when reading fails.
func Compare(actual, expected io.Reader) error {
	return compare(actual, expected, minLineLimit)
}

func compare(actual, expected io.Reader, maxLine int) error {
	act := newLineScanner(actual, maxLine)
	exp := newLineScanner(expected, maxLine)

	for {
		a, aOk := act.next()
		e, eOk := exp.next()
		if err := errors.Join(act.sc.Err(), exp.sc.Err()); err != nil {
			return err
		}
		if !aOk && !eOk {
			return nil
		}
		if aOk != eOk || a != e {
			m := &MismatchError{Actual: a, Expected: e}
			if aOk {
				m.ActualLine = act.line
			}
			if eOk {
				m.ExpectedLine = exp.line
			}
			return m
		}
	}
}

type lineScanner struct {
	sc   *bufio.Scanner
	line int
}

// lineLimit returns a scanner limit one byte past the largest file.
func lineLimit(files ...*os.File) int {
	limit := minLineLimit
	for _, f := range files {
		info, err := f.Stat()
		if err != nil {
			continue
		}
		limit = max(limit, int(info.Size())+1)
	}
	return limit
}

func newLineScanner(r io.Reader, maxLine int) *lineScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64<<10, maxLine)), maxLine)
	return &lineScanner{sc: sc}
}

// next returns the next non-blank line in normalized form.
func (s *lineScanner) next() (string, bool) {
	for s.sc.Scan() {
		s.line++
		if norm := normalizeLine(s.sc.Bytes()); norm != "" {
			return norm, true
		}
	}
	return "", false
}

// normalizeLine collapses every run of whitespace into one space and drops
// trailing whitespace. Leading whitespace still counts.
func normalizeLine(line []byte) string {
	var b bytes.Buffer
	b.Grow(len(line))
	inSpace := false
	for _, c := range line {
		if isSpace(c) {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte(' ')
			inSpace = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}
