package workload

import (
	"io"
	"os"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slabheap/memutils"
	"gopkg.in/yaml.v3"
)

// Op is the kind of a workload step
type Op string

const (
	// OpAlloc allocates Count blocks and records them under the step's ID
	OpAlloc Op = "alloc"
	// OpFree releases every block recorded under the step's ID
	OpFree Op = "free"
)

// Step is a single action in a Workload
type Step struct {
	Op Op `yaml:"op"`
	// ID names the group of blocks an alloc step creates and a free step releases
	ID string `yaml:"id"`
	// Size and Align describe each block. They are ignored by free steps, which reuse the
	// layout of the matching alloc step.
	Size  int  `yaml:"size,omitempty"`
	Align uint `yaml:"align,omitempty"`
	// Count is the number of blocks an alloc step requests. 0 means 1.
	Count int `yaml:"count,omitempty"`
	// Verify fills each allocated block with a known pattern and checks it is intact when the
	// block is freed
	Verify bool `yaml:"verify,omitempty"`
}

// Workload is a named sequence of allocation steps, usually loaded from YAML:
//
//	name: skewed
//	steps:
//	  - {op: alloc, id: small, size: 24, count: 100, verify: true}
//	  - {op: alloc, id: big, size: 1000, align: 8}
//	  - {op: free, id: small}
type Workload struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load decodes a Workload from YAML. Unknown fields are rejected.
func Load(reader io.Reader) (*Workload, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	var w Workload
	if err := decoder.Decode(&w); err != nil {
		if cerrors.Is(err, io.EOF) {
			return nil, cerrors.Wrap(memutils.InvalidArgumentError, "workload is empty")
		}
		return nil, cerrors.Wrap(err, "failed to decode workload")
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}

	return &w, nil
}

// LoadFile decodes a Workload from the YAML file at path
func LoadFile(path string) (*Workload, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, cerrors.Wrapf(err, "failed to open workload %s", path)
	}
	defer file.Close()

	w, err := Load(file)
	if err != nil {
		return nil, cerrors.Wrapf(err, "workload %s", path)
	}

	return w, nil
}

// Validate checks that every step is well formed. It does not check that free steps refer to
// ids allocated earlier, which is only known while the workload runs.
func (w *Workload) Validate() error {
	for index, step := range w.Steps {
		if step.ID == "" {
			return cerrors.Wrapf(memutils.InvalidArgumentError, "step %d has no id", index)
		}

		switch step.Op {
		case OpAlloc:
			if step.Size < 0 {
				return cerrors.Wrapf(memutils.InvalidArgumentError, "step %d (%s) has negative size %d", index, step.ID, step.Size)
			}
			if step.Count < 0 {
				return cerrors.Wrapf(memutils.InvalidArgumentError, "step %d (%s) has negative count %d", index, step.ID, step.Count)
			}
		case OpFree:
		default:
			return cerrors.Wrapf(memutils.InvalidArgumentError, "step %d (%s) has unknown op %q", index, step.ID, step.Op)
		}
	}

	return nil
}
