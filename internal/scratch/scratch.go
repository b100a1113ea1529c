// Package scratch manages the transient files used by one testcase attempt:
// the submission's stdin, stdout, stderr and, when evaluation is reached,
// the reference output. Files are keyed by submission id, so a submission
// may hold at most one set at a time.
package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/puzpuzpuz/xsync/v3"
)

// ErrInUse is returned by Acquire when the submission already holds a set.
var ErrInUse = errors.New("scratch files already in use for submission")

const (
	inputMode = 0644
	// the sandboxed child runs as another user and must write these
	childWritableMode = 0606
	ownerOnlyMode     = 0600
)

type Paths struct {
	Input     string
	Output    string
	Error     string
	Reference string
}

type Manager struct {
	dir    string
	log    *slog.Logger
	active *xsync.MapOf[int64, struct{}]
}

func New(dir string, log *slog.Logger) *Manager {
	return &Manager{
		dir:    dir,
		log:    log,
		active: xsync.NewMapOf[int64, struct{}](),
	}
}

func (m *Manager) Dir() string {
	return m.dir
}

// PathsFor returns the scratch file paths of a submission.
func (m *Manager) PathsFor(submissionId int64) Paths {
	base := filepath.Join(m.dir, strconv.FormatInt(submissionId, 10))
	return Paths{
		Input:     base + ".in",
		Output:    base + ".out",
		Error:     base + ".err",
		Reference: base + ".ref",
	}
}

// Acquire creates the input file with the exact input bytes and empty
// output and error files writable by the sandboxed child. The returned set
// must be released, usually with a deferred Release.
func (m *Manager) Acquire(submissionId int64, input []byte) (*Set, error) {
	if _, loaded := m.active.LoadOrStore(submissionId, struct{}{}); loaded {
		return nil, fmt.Errorf("submission %d: %w", submissionId, ErrInUse)
	}

	set := &Set{
		mgr:          m,
		submissionId: submissionId,
		paths:        m.PathsFor(submissionId),
	}

	if err := set.create(input); err != nil {
		if relErr := set.Release(); relErr != nil {
			m.log.Warn("failed to remove partially created scratch files",
				"submission", submissionId, "error", relErr)
		}
		return nil, err
	}

	return set, nil
}

type Set struct {
	mgr          *Manager
	submissionId int64
	paths        Paths
	created      []string
	released     bool
}

func (s *Set) Paths() Paths {
	return s.paths
}

func (s *Set) create(input []byte) error {
	if err := s.writeFile(s.paths.Input, input, inputMode); err != nil {
		return fmt.Errorf("failed to create input file: %w", err)
	}
	if err := s.writeFile(s.paths.Output, nil, childWritableMode); err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := s.writeFile(s.paths.Error, nil, childWritableMode); err != nil {
		return fmt.Errorf("failed to create error file: %w", err)
	}
	return nil
}

// writeFile records the path before writing so that a half-written file is
// still removed on release. The mode is applied with chmod since the umask
// would otherwise strip the bits meant for the child.
func (s *Set) writeFile(path string, content []byte, mode fs.FileMode) error {
	s.created = append(s.created, path)
	if err := os.WriteFile(path, content, mode); err != nil {
		return err
	}
	return os.Chmod(path, mode)
}

// WriteReference writes the expected output to the reference file and
// returns its path.
func (s *Set) WriteReference(expected []byte) (string, error) {
	if err := s.writeFile(s.paths.Reference, expected, ownerOnlyMode); err != nil {
		return "", fmt.Errorf("failed to create reference file: %w", err)
	}
	return s.paths.Reference, nil
}

// Restrict makes the output file readable and writable by the owner only.
func (s *Set) Restrict() error {
	if err := os.Chmod(s.paths.Output, ownerOnlyMode); err != nil {
		return fmt.Errorf("failed to restrict output file: %w", err)
	}
	return nil
}

// Release removes every file created for this attempt and frees the
// submission id, even when some removal fails. Calling it twice is a no-op.
func (s *Set) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	defer s.mgr.active.Delete(s.submissionId)

	var errs []error
	for _, path := range s.created {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	s.created = nil
	return errors.Join(errs...)
}
