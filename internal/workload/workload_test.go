package workload_test

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/slabheap/heap"
	"github.com/vkngwrapper/slabheap/internal/workload"
	"github.com/vkngwrapper/slabheap/kalloc"
	"github.com/vkngwrapper/slabheap/memutils"
)

func readyAllocator(t *testing.T) (*kalloc.Global, *heap.Heap) {
	var g kalloc.Global
	require.NoError(t, g.InitRegion(make([]byte, heap.MinSize)))

	h, err := g.Heap()
	require.NoError(t, err)

	return &g, h
}

func allocationCount(h *heap.Heap) int {
	var stats memutils.Statistics
	h.HeapStatistics(&stats)
	return stats.AllocationCount
}

const skewed = `
name: skewed
steps:
  - {op: alloc, id: small, size: 24, count: 10, verify: true}
  - {op: alloc, id: big, size: 1000, align: 8, count: 20}
  - {op: free, id: small}
`

func TestLoadWorkload(t *testing.T) {
	w, err := workload.Load(strings.NewReader(skewed))
	require.NoError(t, err)
	require.Equal(t, "skewed", w.Name)
	require.Equal(t, []workload.Step{
		{Op: workload.OpAlloc, ID: "small", Size: 24, Count: 10, Verify: true},
		{Op: workload.OpAlloc, ID: "big", Size: 1000, Align: 8, Count: 20},
		{Op: workload.OpFree, ID: "small"},
	}, w.Steps)
}

func TestLoadRejectsMalformedWorkloads(t *testing.T) {
	testCases := []struct {
		name   string
		source string
	}{
		{name: "UnknownField", source: "name: x\nsteps:\n  - {op: alloc, id: a, sizee: 8}\n"},
		{name: "UnknownOp", source: "name: x\nsteps:\n  - {op: realloc, id: a}\n"},
		{name: "MissingID", source: "name: x\nsteps:\n  - {op: alloc, size: 8}\n"},
		{name: "NegativeSize", source: "name: x\nsteps:\n  - {op: alloc, id: a, size: -8}\n"},
		{name: "NegativeCount", source: "name: x\nsteps:\n  - {op: alloc, id: a, count: -1}\n"},
		{name: "Empty", source: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			w, err := workload.Load(strings.NewReader(testCase.source))
			require.Nil(t, w)
			require.Error(t, err)
		})
	}
}

func TestRunCountsRefusedAllocations(t *testing.T) {
	g, h := readyAllocator(t)

	w, err := workload.Load(strings.NewReader(skewed))
	require.NoError(t, err)

	runner := workload.NewRunner(nil, g)
	result, err := runner.Run(w)
	require.NoError(t, err)

	// The 1024 byte slab of a minimum size heap holds 15 blocks
	require.Equal(t, workload.Result{Allocated: 25, Freed: 10, Failed: 5, Live: 15}, result)
	require.Equal(t, []string{"big"}, runner.LiveIDs())
	require.Equal(t, 15, runner.LiveCount())
	require.Equal(t, 15, allocationCount(h))

	require.Equal(t, 15, runner.Drain())
	require.Empty(t, runner.LiveIDs())
	require.Zero(t, allocationCount(h))
	require.NoError(t, h.Validate())
}

func TestRunRejectsInconsistentSteps(t *testing.T) {
	g, h := readyAllocator(t)

	runner := workload.NewRunner(nil, g)
	_, err := runner.Run(&workload.Workload{
		Name:  "unknown",
		Steps: []workload.Step{{Op: workload.OpFree, ID: "missing"}},
	})
	require.ErrorIs(t, err, memutils.InvalidArgumentError)
	require.ErrorContains(t, err, "missing")

	result, err := runner.Run(&workload.Workload{
		Name: "duplicate",
		Steps: []workload.Step{
			{Op: workload.OpAlloc, ID: "a", Size: 8},
			{Op: workload.OpAlloc, ID: "a", Size: 8},
		},
	})
	require.ErrorIs(t, err, memutils.InvalidArgumentError)
	require.ErrorContains(t, err, "step 1")
	require.Equal(t, 1, result.Live)

	runner.Drain()
	require.Zero(t, allocationCount(h))
}

func TestRunDetectsModifiedBlocks(t *testing.T) {
	g, _ := readyAllocator(t)

	var captured unsafe.Pointer
	spy := &spyAllocator{Allocator: g, onAlloc: func(ptr unsafe.Pointer) { captured = ptr }}

	runner := workload.NewRunner(nil, spy)
	_, err := runner.Run(&workload.Workload{
		Name:  "fill",
		Steps: []workload.Step{{Op: workload.OpAlloc, ID: "a", Size: 16, Verify: true}},
	})
	require.NoError(t, err)
	require.NotNil(t, captured)

	*(*byte)(unsafe.Add(captured, 5)) ^= 0xFF

	_, err = runner.Run(&workload.Workload{
		Name:  "free",
		Steps: []workload.Step{{Op: workload.OpFree, ID: "a"}},
	})
	require.ErrorIs(t, err, memutils.BadAddressError)
	require.Equal(t, 1, runner.LiveCount())
}

func TestPackageRunDrains(t *testing.T) {
	g, h := readyAllocator(t)

	result, err := workload.Run(nil, g, &workload.Workload{
		Name: "leaky",
		Steps: []workload.Step{
			{Op: workload.OpAlloc, ID: "a", Size: 64, Count: 4},
			{Op: workload.OpAlloc, ID: "b", Size: 0, Count: 2},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 6, result.Allocated)
	require.Equal(t, 6, result.Live)
	require.Zero(t, allocationCount(h))
}

type spyAllocator struct {
	kalloc.Allocator
	onAlloc func(ptr unsafe.Pointer)
}

func (s *spyAllocator) Alloc(layout kalloc.Layout) unsafe.Pointer {
	ptr := s.Allocator.Alloc(layout)
	s.onAlloc(ptr)
	return ptr
}
