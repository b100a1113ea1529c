package api

import (
	"strings"

	"github.com/seekshiva/codechecker/internal"
)

// Runtime data size constraints for streaming
const (
	MaxRuntimeDataHeight = 40
	MaxRuntimeDataWidth  = 80
)

// RuntimeData contains execution information for one testcase run
type RuntimeData struct {
	Stdout     string `json:"out"`
	Stderr     string `json:"err"`
	ExitStatus int    `json:"exit"`
	WallMillis int64  `json:"wall_ms"`
}

// NewRuntimeData converts run data, trimming output to the streaming
// rectangle. It returns nil for nil input.
func NewRuntimeData(run *internal.RunData) *RuntimeData {
	if run == nil {
		return nil
	}
	return &RuntimeData{
		Stdout:     TrimToRect(string(run.Stdout), MaxRuntimeDataHeight, MaxRuntimeDataWidth),
		Stderr:     TrimToRect(string(run.Stderr), MaxRuntimeDataHeight, MaxRuntimeDataWidth),
		ExitStatus: run.ExitStatus,
		WallMillis: run.WallMillis,
	}
}

// TrimToRect keeps at most maxHeight lines of at most maxWidth bytes each,
// marking every cut with "[...]".
func TrimToRect(s string, maxHeight int, maxWidth int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
		lines = append(lines, "[...]")
	}
	var res strings.Builder
	for i, line := range lines {
		if i > 0 {
			res.WriteByte('\n')
		}
		if len(line) > maxWidth {
			res.WriteString(line[:maxWidth])
			res.WriteString("[...]")
		} else {
			res.WriteString(line)
		}
	}
	return res.String()
}

// trimmedPtr returns nil when the trimmed string is empty.
func trimmedPtr(b []byte) *string {
	s := TrimToRect(string(b), MaxRuntimeDataHeight, MaxRuntimeDataWidth)
	if s == "" {
		return nil
	}
	return &s
}
