package heap

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/slabheap/internal/utils"
	"golang.org/x/exp/slog"
)

// Heap serves allocations of up to MaxClassSize bytes out of one caller-supplied region of memory.
// The region is split into one equally-sized slab per size class when the heap is created, and that
// partitioning never changes afterwards.
//
// Each request is served only by the slab of its size class. When that slab is exhausted, the
// request fails even if slabs of larger classes still have free blocks.
//
// Heap is safe for concurrent use unless it was created with HeapCreateExternallySynchronized.
type Heap struct {
	logger      *slog.Logger
	mutex       utils.OptionalMutex
	createFlags CreateFlags

	region   []byte
	slabSize int
	pools    [NumSlabs]Pool
}

// Allocate returns a block that can hold size bytes with the requested alignment. See ClassForLayout
// for how the block's size class is chosen. OutOfMemoryError is returned when the request is larger
// than the largest class or when the slab for its class is exhausted.
func (h *Heap) Allocate(size int, alignment uint) (unsafe.Pointer, error) {
	h.logger.Debug("Heap::Allocate", slog.Int("Size", size), slog.Uint64("Alignment", uint64(alignment)))

	class, err := ClassForLayout(size, alignment)
	if err != nil {
		return nil, err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	ptr, err := h.pools[class.Index()].Allocate()
	if err != nil {
		return nil, cerrors.Wrapf(err, "failed to allocate from the %s slab", class)
	}

	return ptr, nil
}

// Deallocate returns a block obtained from Allocate. size and alignment must be the exact values
// that were passed to Allocate: they select the slab the block is returned to, and a block handed
// to the wrong slab is not detected here.
func (h *Heap) Deallocate(ptr unsafe.Pointer, size int, alignment uint) error {
	h.logger.Debug("Heap::Deallocate", slog.Int("Size", size), slog.Uint64("Alignment", uint64(alignment)))

	class, err := ClassForLayout(size, alignment)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	err = h.pools[class.Index()].Free(ptr)
	if err != nil {
		return cerrors.Wrapf(err, "failed to free into the %s slab", class)
	}

	return nil
}

// Size returns the size in bytes of the heap region
func (h *Heap) Size() int {
	return len(h.region)
}

// Base returns the address of the start of the heap region
func (h *Heap) Base() unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(h.region))
}

// SlabSize returns the size in bytes of each slab
func (h *Heap) SlabSize() int {
	return h.slabSize
}

// SlabRange returns the offset from the heap base and the length in bytes of the slab serving
// the provided size class
func (h *Heap) SlabRange(class SizeClass) (offset int, length int) {
	return class.Index() * h.slabSize, h.slabSize
}

// Pool returns the pool serving the provided size class
func (h *Heap) Pool(class SizeClass) Pool {
	return h.pools[class.Index()]
}

// ClassOf returns the size class of the slab whose range contains ptr. It returns false if ptr
// is outside of the heap region.
func (h *Heap) ClassOf(ptr unsafe.Pointer) (SizeClass, bool) {
	base := uintptr(h.Base())
	addr := uintptr(ptr)
	if addr < base || addr >= base+uintptr(len(h.region)) {
		return 0, false
	}

	return SizeClasses[int(addr-base)/h.slabSize], true
}

// Flags returns the flags the heap was created with
func (h *Heap) Flags() CreateFlags {
	return h.createFlags
}

// Validate performs internal consistency checks on the heap and every one of its pools
func (h *Heap) Validate() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	return h.validate()
}

func (h *Heap) validate() error {
	if h.slabSize*NumSlabs != len(h.region) {
		return errors.Errorf("%d slabs of %d bytes do not cover the heap region of %d bytes", NumSlabs, h.slabSize, len(h.region))
	}

	base := uintptr(h.Base())
	for index, class := range SizeClasses {
		pool := h.pools[index]
		if pool == nil {
			return errors.Errorf("the %s slab is missing", class)
		}

		if pool.BlockSize() != class.Size() {
			return errors.Errorf("the %s slab has a block size of %d", class, pool.BlockSize())
		}

		poolRegion := pool.Region()
		expectedStart := base + uintptr(index*h.slabSize)
		if len(poolRegion) == 0 || uintptr(unsafe.Pointer(unsafe.SliceData(poolRegion))) != expectedStart {
			return errors.Errorf("the %s slab does not start at offset %d of the heap", class, index*h.slabSize)
		}

		if len(poolRegion) > h.slabSize {
			return errors.Errorf("the %s slab is %d bytes long, which extends past its %d byte range", class, len(poolRegion), h.slabSize)
		}

		err := pool.Validate()
		if err != nil {
			return cerrors.Wrapf(err, "the %s slab failed validation", class)
		}
	}

	return nil
}
