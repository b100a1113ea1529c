// Package problem reads problem definition files used for local grading.
//
// A definition is a TOML file with the limits of the problem and its test
// sets. Testcase payloads are either inline strings or files relative to
// the definition; files ending in .zst are zstd compressed.
package problem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"

	"github.com/seekshiva/codechecker/internal"
)

// SpecTest is a single testcase of a test set.
type SpecTest struct {
	ID      int64  `toml:"id"`
	In      string `toml:"in"`
	InFile  string `toml:"in_file"`
	Ans     string `toml:"ans"`
	AnsFile string `toml:"ans_file"`
}

type SpecTestSet struct {
	ID    int64      `toml:"id"`
	Name  string     `toml:"name"`
	Tests []SpecTest `toml:"tests"`
}

type specRoot struct {
	ID             int64         `toml:"id"`
	Name           string        `toml:"name"`
	TimeLimitSec   int           `toml:"time_limit_sec"`
	MemLimitMiB    int           `toml:"mem_limit_mib"`
	OutputLimitMiB int           `toml:"output_limit_mib"`
	CustomEval     string        `toml:"custom_eval"`
	TestSets       []SpecTestSet `toml:"test_sets"`
}

// Parse reads a problem definition. Test sets and testcases without an id
// are numbered after the largest id seen so far, in file order.
func Parse(path string) (internal.Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return internal.Problem{}, fmt.Errorf("failed to read problem file: %w", err)
	}
	var root specRoot
	if err := toml.Unmarshal(data, &root); err != nil {
		return internal.Problem{}, fmt.Errorf("failed to parse TOML: %w", err)
	}

	if root.TimeLimitSec <= 0 || root.MemLimitMiB <= 0 {
		return internal.Problem{}, fmt.Errorf("problem %q needs positive time_limit_sec and mem_limit_mib", root.Name)
	}
	if root.OutputLimitMiB < 0 {
		return internal.Problem{}, fmt.Errorf("problem %q has negative output_limit_mib", root.Name)
	}

	base := filepath.Dir(path)
	if root.CustomEval != "" && !filepath.IsAbs(root.CustomEval) {
		root.CustomEval = filepath.Join(base, root.CustomEval)
	}

	prob := internal.Problem{
		ID:             root.ID,
		Name:           root.Name,
		TimeLimitSec:   root.TimeLimitSec,
		MemLimitMiB:    root.MemLimitMiB,
		OutputLimitMiB: root.OutputLimitMiB,
		CustomEval:     root.CustomEval,
	}

	var setIds, testIds idSeq
	for _, specSet := range root.TestSets {
		ts := internal.TestSet{
			ID:        setIds.next(specSet.ID),
			ProblemID: prob.ID,
			Name:      specSet.Name,
		}
		for i, specTest := range specSet.Tests {
			input, err := payload(base, specTest.In, specTest.InFile)
			if err != nil {
				return internal.Problem{}, fmt.Errorf("test set %q test %d input: %w", ts.Name, i+1, err)
			}
			answer, err := payload(base, specTest.Ans, specTest.AnsFile)
			if err != nil {
				return internal.Problem{}, fmt.Errorf("test set %q test %d answer: %w", ts.Name, i+1, err)
			}
			ts.Testcases = append(ts.Testcases, internal.Testcase{
				ID:        testIds.next(specTest.ID),
				TestSetID: ts.ID,
				Input:     input,
				Output:    answer,
			})
		}
		prob.TestSets = append(prob.TestSets, ts)
	}
	return prob, nil
}

type idSeq struct{ max int64 }

func (s *idSeq) next(explicit int64) int64 {
	id := explicit
	if id == 0 {
		id = s.max + 1
	}
	if id > s.max {
		s.max = id
	}
	return id
}

func payload(base string, inline string, file string) ([]byte, error) {
	switch {
	case inline != "" && file != "":
		return nil, fmt.Errorf("both inline content and file %s given", file)
	case file == "":
		return []byte(inline), nil
	}

	if !filepath.IsAbs(file) {
		file = filepath.Join(base, file)
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(file, ".zst") {
		return io.ReadAll(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to open zstd stream %s: %w", file, err)
	}
	defer dec.Close()
	content, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", file, err)
	}
	return content, nil
}
