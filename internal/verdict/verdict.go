// Package verdict maps the raw exit status of the setuid helper to a
// verdict. The helper exits 0 on success, 111 when it could not exec the
// submission, and with the terminating signal number otherwise.
package verdict

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sys/unix"

	"github.com/seekshiva/codechecker/internal"
)

// HelperExecFailed is the status the helper exits with when execvp of the
// submission failed.
const HelperExecFailed = 111

var (
	ErrHelperExec    = errors.New("setuid helper could not execute the submission")
	ErrUnknownStatus = errors.New("unknown helper exit status")
)

var signalVerdicts = map[unix.Signal]internal.Verdict{
	unix.SIGXCPU: internal.TimeLimitExceeded,
	unix.SIGXFSZ: internal.OutputLimitExceeded,
	unix.SIGSEGV: internal.SegmentationFault,
	unix.SIGFPE:  internal.FloatingPointError,
	unix.SIGKILL: internal.Killed,
	unix.SIGABRT: internal.Aborted,
}

var failures = mapset.NewSet(
	internal.Failed,
	internal.TimeLimitExceeded,
	internal.OutputLimitExceeded,
	internal.SegmentationFault,
	internal.FloatingPointError,
	internal.Killed,
	internal.Aborted,
	internal.RuntimeError,
)

// Classify returns Running for a clean exit, a failure verdict for any other
// positive status, and an error when the status signals a broken judging
// environment.
func Classify(status int) (internal.Verdict, error) {
	switch {
	case status == HelperExecFailed:
		return "", ErrHelperExec
	case status == 0:
		return internal.Running, nil
	case status < 0:
		return "", fmt.Errorf("%w: %d", ErrUnknownStatus, status)
	}
	if v, ok := signalVerdicts[unix.Signal(status)]; ok {
		return v, nil
	}
	return internal.RuntimeError, nil
}

// IsFailure reports whether v is a submission-caused failure.
func IsFailure(v internal.Verdict) bool {
	return failures.Contains(v)
}

// Failures lists every submission-caused failure verdict.
func Failures() []internal.Verdict {
	return failures.ToSlice()
}
