package kalloc_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/slabheap/heap"
	"github.com/vkngwrapper/slabheap/kalloc"
	"github.com/vkngwrapper/slabheap/memutils"
	"github.com/vkngwrapper/slabheap/region"
)

// This is the only test in the package that touches the process-wide allocator
func TestProcessWideAllocator(t *testing.T) {
	_, err := kalloc.ProcessHeap()
	require.ErrorIs(t, err, memutils.NotInitializedError)
	require.Nil(t, kalloc.Alloc(kalloc.NewLayout(8, 8)))

	r, err := region.Map(heap.MinSize)
	require.NoError(t, err)

	require.NoError(t, kalloc.Init(r.Pointer(), r.Len()))
	require.ErrorIs(t, kalloc.Init(r.Pointer(), r.Len()), memutils.ResourceBusyError)

	layout := kalloc.NewLayout(100, 64)
	ptr := kalloc.Default.Alloc(layout)
	require.NotNil(t, ptr)
	require.Zero(t, uintptr(ptr)%64)

	kalloc.Dealloc(ptr, layout)

	h, err := kalloc.ProcessHeap()
	require.NoError(t, err)
	require.NoError(t, h.Validate())
}
