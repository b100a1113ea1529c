package verdict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/seekshiva/codechecker/internal"
	"github.com/seekshiva/codechecker/internal/verdict"
)

func TestClassifySignals(t *testing.T) {
	tests := []struct {
		status int
		want   internal.Verdict
	}{
		{0, internal.Running},
		{int(unix.SIGXCPU), internal.TimeLimitExceeded},
		{int(unix.SIGXFSZ), internal.OutputLimitExceeded},
		{int(unix.SIGSEGV), internal.SegmentationFault},
		{int(unix.SIGFPE), internal.FloatingPointError},
		{int(unix.SIGKILL), internal.Killed},
		{int(unix.SIGABRT), internal.Aborted},
		{1, internal.RuntimeError},
		{2, internal.RuntimeError},
		{int(unix.SIGTERM), internal.RuntimeError},
	}
	for _, tt := range tests {
		got, err := verdict.Classify(tt.status)
		require.NoError(t, err, "status %d", tt.status)
		assert.Equal(t, tt.want, got, "status %d", tt.status)
	}
}

func TestClassifyIsTotalOverPositiveStatuses(t *testing.T) {
	known := map[int]bool{
		int(unix.SIGXCPU): true,
		int(unix.SIGXFSZ): true,
		int(unix.SIGSEGV): true,
		int(unix.SIGFPE):  true,
		int(unix.SIGKILL): true,
		int(unix.SIGABRT): true,
	}
	known[verdict.HelperExecFailed] = true
	for status := 1; status <= 255; status++ {
		if known[status] {
			continue
		}
		got, err := verdict.Classify(status)
		require.NoError(t, err)
		assert.Equal(t, internal.RuntimeError, got, "status %d", status)
	}
}

func TestClassifyHelperExecFailure(t *testing.T) {
	_, err := verdict.Classify(verdict.HelperExecFailed)
	assert.ErrorIs(t, err, verdict.ErrHelperExec)
}

func TestClassifyNegativeStatus(t *testing.T) {
	_, err := verdict.Classify(-1)
	assert.ErrorIs(t, err, verdict.ErrUnknownStatus)
}

func TestSuccessIsNeverAFailure(t *testing.T) {
	v, err := verdict.Classify(0)
	require.NoError(t, err)
	assert.False(t, verdict.IsFailure(v))
	assert.False(t, verdict.IsFailure(internal.Passed))
	assert.True(t, verdict.IsFailure(internal.Failed))
	assert.Len(t, verdict.Failures(), 8)
}
