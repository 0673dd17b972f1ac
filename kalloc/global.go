package kalloc

import (
	"unsafe"

	"github.com/vkngwrapper/slabheap/heap"
	"golang.org/x/exp/slog"
)

var global Global

// Default is the process-wide Allocator. It is backed by the heap installed with Init.
var Default Allocator = &global

// Init installs the process-wide heap over the size bytes of memory starting at addr. It must be
// called during process bootstrap, before the first allocation. Only the first successful call
// installs a heap; later calls fail with memutils.ResourceBusyError.
func Init(addr unsafe.Pointer, size int) error {
	return global.Init(addr, size)
}

// InitRegion installs the process-wide heap over region
func InitRegion(region []byte) error {
	return global.InitRegion(region)
}

// InitWithOptions installs the process-wide heap over region with the provided logger and options
func InitWithOptions(logger *slog.Logger, region []byte, options heap.CreateOptions) error {
	return global.InitWithOptions(logger, region, options)
}

// ProcessHeap returns the process-wide heap, or memutils.NotInitializedError if Init has not
// succeeded yet
func ProcessHeap() (*heap.Heap, error) {
	return global.Heap()
}

// Alloc allocates from the process-wide heap. It returns nil on failure.
func Alloc(layout Layout) unsafe.Pointer {
	return global.Alloc(layout)
}

// Dealloc frees into the process-wide heap. Failures are discarded.
func Dealloc(ptr unsafe.Pointer, layout Layout) {
	global.Dealloc(ptr, layout)
}
