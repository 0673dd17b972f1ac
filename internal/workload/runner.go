package workload

import (
	"io"
	"sort"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/vkngwrapper/slabheap/kalloc"
	"github.com/vkngwrapper/slabheap/memutils"
	"golang.org/x/exp/slog"
)

// Result counts what happened while running one or more workloads
type Result struct {
	// Allocated is the number of blocks the allocator handed out
	Allocated int
	// Freed is the number of blocks returned to the allocator
	Freed int
	// Failed is the number of blocks the allocator refused
	Failed int
	// Live is the number of blocks still held when the run ended
	Live int
}

type group struct {
	layout kalloc.Layout
	verify bool
	blocks []unsafe.Pointer
}

// Runner replays workloads against an Allocator. Blocks allocated by one workload stay live until
// a later free step or Drain releases them, so several workloads can be run back to back against
// the same Runner.
//
// A Runner is not safe for concurrent use.
type Runner struct {
	logger    *slog.Logger
	allocator kalloc.Allocator
	live      *swiss.Map[string, *group]
	liveCount int
}

// NewRunner creates a Runner that allocates from allocator. logger may be nil.
func NewRunner(logger *slog.Logger, allocator kalloc.Allocator) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{
		logger:    logger,
		allocator: allocator,
		live:      swiss.NewMap[string, *group](16),
	}
}

// Run replays every step of w in order. An allocation the allocator refuses is counted in
// Result.Failed and is not an error. Run stops at the first step that cannot be applied: an
// alloc step reusing a live id, a free step naming an unknown id, or a verified block whose
// contents changed.
func (r *Runner) Run(w *Workload) (Result, error) {
	r.logger.Debug("Runner::Run", slog.String("Workload", w.Name), slog.Int("Steps", len(w.Steps)))

	var result Result
	for index, step := range w.Steps {
		var err error
		switch step.Op {
		case OpAlloc:
			err = r.alloc(step, &result)
		case OpFree:
			err = r.free(step.ID, &result)
		default:
			err = cerrors.Wrapf(memutils.InvalidArgumentError, "unknown op %q", step.Op)
		}

		if err != nil {
			result.Live = r.liveCount
			return result, cerrors.Wrapf(err, "workload %s step %d", w.Name, index)
		}
	}

	result.Live = r.liveCount
	return result, nil
}

func (r *Runner) alloc(step Step, result *Result) error {
	if _, exists := r.live.Get(step.ID); exists {
		return cerrors.Wrapf(memutils.InvalidArgumentError, "id %s is already live", step.ID)
	}

	count := step.Count
	if count == 0 {
		count = 1
	}

	g := &group{
		layout: kalloc.NewLayout(step.Size, step.Align),
		verify: step.Verify,
		blocks: make([]unsafe.Pointer, 0, count),
	}

	for i := 0; i < count; i++ {
		ptr := r.allocator.Alloc(g.layout)
		if ptr == nil {
			result.Failed++
			continue
		}

		if g.verify {
			fillPattern(ptr, g.layout.Size, len(g.blocks))
		}
		g.blocks = append(g.blocks, ptr)
		result.Allocated++
	}

	r.logger.Debug("Runner::Alloc",
		slog.String("ID", step.ID),
		slog.Int("Size", step.Size),
		slog.Int("Requested", count),
		slog.Int("Allocated", len(g.blocks)),
	)

	r.live.Put(step.ID, g)
	r.liveCount += len(g.blocks)
	return nil
}

func (r *Runner) free(id string, result *Result) error {
	g, exists := r.live.Get(id)
	if !exists {
		return cerrors.Wrapf(memutils.InvalidArgumentError, "id %s is not live", id)
	}

	for index, ptr := range g.blocks {
		if g.verify && !checkPattern(ptr, g.layout.Size, index) {
			return cerrors.Wrapf(memutils.BadAddressError, "block %d of %s was modified while live", index, id)
		}
	}

	for _, ptr := range g.blocks {
		r.allocator.Dealloc(ptr, g.layout)
		result.Freed++
	}

	r.logger.Debug("Runner::Free", slog.String("ID", id), slog.Int("Freed", len(g.blocks)))

	r.live.Delete(id)
	r.liveCount -= len(g.blocks)
	return nil
}

// LiveIDs returns the ids of every group that has not been freed, sorted
func (r *Runner) LiveIDs() []string {
	ids := make([]string, 0, r.live.Count())
	r.live.Iter(func(id string, _ *group) bool {
		ids = append(ids, id)
		return false
	})
	sort.Strings(ids)

	return ids
}

// LiveCount returns the number of blocks that have not been freed
func (r *Runner) LiveCount() int {
	return r.liveCount
}

// Drain frees every live block without verifying its contents and returns the number of blocks freed
func (r *Runner) Drain() int {
	freed := 0
	r.live.Iter(func(_ string, g *group) bool {
		for _, ptr := range g.blocks {
			r.allocator.Dealloc(ptr, g.layout)
			freed++
		}
		return false
	})

	r.live.Clear()
	r.liveCount = 0
	return freed
}

// Run replays w against allocator with a fresh Runner, and drains whatever the workload left live
func Run(logger *slog.Logger, allocator kalloc.Allocator, w *Workload) (Result, error) {
	runner := NewRunner(logger, allocator)
	defer runner.Drain()

	return runner.Run(w)
}

func patternByte(block int, offset int) byte {
	return byte(block*31 + offset + 1)
}

func fillPattern(ptr unsafe.Pointer, size int, block int) {
	data := unsafe.Slice((*byte)(ptr), size)
	for offset := range data {
		data[offset] = patternByte(block, offset)
	}
}

func checkPattern(ptr unsafe.Pointer, size int, block int) bool {
	data := unsafe.Slice((*byte)(ptr), size)
	for offset, value := range data {
		if value != patternByte(block, offset) {
			return false
		}
	}

	return true
}
