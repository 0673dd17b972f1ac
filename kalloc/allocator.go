package kalloc

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slabheap/heap"
	"github.com/vkngwrapper/slabheap/internal/utils"
	"github.com/vkngwrapper/slabheap/memutils"
	"golang.org/x/exp/slog"
)

// Allocator is the dynamic allocation interface consumed by the rest of the process. It can only
// signal failure with a nil pointer, so it is not suitable for callers that need to know why an
// allocation failed.
type Allocator interface {
	// Alloc returns a block matching layout, or nil if the request cannot be served
	Alloc(layout Layout) unsafe.Pointer
	// Dealloc returns a block obtained from Alloc. layout must be the exact Layout that was passed
	// to Alloc. Failures are not reported.
	Dealloc(ptr unsafe.Pointer, layout Layout)
}

// Global is an Allocator backed by a heap that is installed exactly once. Until Init succeeds,
// every allocation fails and every deallocation is ignored.
//
// The zero value is ready to use. Most programs use the package-level functions, which operate
// on a single process-wide Global.
type Global struct {
	handle utils.OnceCell[heap.Heap]
}

var _ Allocator = &Global{}

// Init creates the heap over the size bytes of memory starting at addr and installs it. The memory
// must be owned by the allocator for the rest of the life of the process.
//
// ResourceBusyError is returned if a heap has already been installed, or is being installed by a
// concurrent call. If the heap cannot be created, the error from heap.FromRawParts is returned and
// no heap is installed, so Init may be called again.
func (g *Global) Init(addr unsafe.Pointer, size int) error {
	return g.install(func() (*heap.Heap, error) {
		return heap.FromRawParts(nil, addr, size, heap.CreateOptions{})
	})
}

// InitRegion behaves like Init, for a region that is already available as a byte slice
func (g *Global) InitRegion(region []byte) error {
	return g.InitWithOptions(nil, region, heap.CreateOptions{})
}

// InitWithOptions behaves like InitRegion, and also accepts the logger and options used to
// create the heap
func (g *Global) InitWithOptions(logger *slog.Logger, region []byte, options heap.CreateOptions) error {
	return g.install(func() (*heap.Heap, error) {
		return heap.FromRegion(logger, region, options)
	})
}

func (g *Global) install(construct func() (*heap.Heap, error)) error {
	won, err := g.handle.TrySet(construct)
	if !won {
		return cerrors.Wrap(memutils.ResourceBusyError, "heap already initialized")
	}

	return err
}

// Heap returns the installed heap, or NotInitializedError if none has been installed
func (g *Global) Heap() (*heap.Heap, error) {
	h, ok := g.handle.Get()
	if !ok {
		return nil, cerrors.Wrap(memutils.NotInitializedError, "heap has not been initialized")
	}

	return h, nil
}

// Initialized reports whether a heap has been installed
func (g *Global) Initialized() bool {
	return g.handle.IsSet()
}

// Alloc returns a block matching layout from the installed heap. It returns nil if no heap is
// installed or the heap cannot serve the request. It never panics.
func (g *Global) Alloc(layout Layout) unsafe.Pointer {
	h, ok := g.handle.Get()
	if !ok {
		return nil
	}

	ptr, err := h.Allocate(layout.Size, layout.Align)
	if err != nil {
		return nil
	}

	return ptr
}

// Dealloc returns a block to the installed heap. If no heap is installed, or the heap rejects
// the block, the failure is discarded.
func (g *Global) Dealloc(ptr unsafe.Pointer, layout Layout) {
	h, ok := g.handle.Get()
	if !ok {
		return
	}

	_ = h.Deallocate(ptr, layout.Size, layout.Align)
}

// New allocates a zeroed value of type T from a. It returns nil if the allocation fails.
//
// The memory behind the returned pointer is not scanned by the garbage collector when the heap
// region lives outside of the Go heap, so T must not contain Go pointers.
func New[T any](a Allocator) *T {
	return (*T)(a.Alloc(LayoutOf[T]()))
}

// Delete returns a value allocated with New to a
func Delete[T any](a Allocator, value *T) {
	a.Dealloc(unsafe.Pointer(value), LayoutOf[T]())
}
