package sandbox

import (
	"fmt"
)

// Constraints are the resource limits the helper applies to the child.
type Constraints struct {
	MemLimitMiB    int
	TimeLimitSec   int
	MaxFileSizeMiB int
}

func DefaultConstraints() Constraints {
	return Constraints{
		MemLimitMiB:    256,
		TimeLimitSec:   1,
		MaxFileSizeMiB: 16,
	}
}

func (constraints *Constraints) ToArgs() []string {
	return []string{
		constraints.MemLimArg(),
		constraints.TimeLimArg(),
		constraints.MaxFileSizeArg(),
	}
}

func (constraints *Constraints) MemLimArg() string {
	return fmt.Sprintf("--memlimit=%d", constraints.MemLimitMiB)
}

func (constraints *Constraints) TimeLimArg() string {
	return fmt.Sprintf("--timelimit=%d", constraints.TimeLimitSec)
}

func (constraints *Constraints) MaxFileSizeArg() string {
	return fmt.Sprintf("--maxfilesz=%d", constraints.MaxFileSizeMiB)
}
