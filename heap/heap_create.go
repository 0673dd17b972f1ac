package heap

import (
	"io"
	"strings"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slabheap/internal/utils"
	"github.com/vkngwrapper/slabheap/memutils"
	"golang.org/x/exp/slog"
)

// CreateFlags indicate specific heap behaviors to activate or deactivate
type CreateFlags int32

const (
	// HeapCreateExternallySynchronized ensures that the heap will not be synchronized internally.
	// The consumer must guarantee that it is used from only one goroutine at a time or is
	// synchronized by some other mechanism, but performance may improve because the internal
	// mutex is not used.
	HeapCreateExternallySynchronized CreateFlags = 1 << iota
)

var createFlagsMapping = map[CreateFlags]string{
	HeapCreateExternallySynchronized: "HeapCreateExternallySynchronized",
}

func (f CreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for bit := CreateFlags(1); bit != 0 && bit <= f; bit <<= 1 {
		if f&bit == 0 {
			continue
		}

		name, ok := createFlagsMapping[bit]
		if !ok {
			name = "Unknown"
		}
		names = append(names, name)
	}

	return strings.Join(names, "|")
}

const (
	// NumSlabs is the number of slabs the heap region is divided into
	NumSlabs int = NumSizeClasses
	// SlabCount is the minimum number of blocks of the largest size class that each slab must be
	// able to hold. It must be at least 2, because slabs keep their own bookkeeping in their first block.
	SlabCount int = 2
	// MinSlabSize is the minimum size in bytes of a single slab
	MinSlabSize int = SlabCount * MaxClassSize
	// MinSize is the minimum size in bytes of the heap region. Heap regions must also be a
	// multiple of this size.
	MinSize int = NumSizeClasses * NumSlabs * MinSlabSize
)

// CreateOptions contains optional settings when creating a heap
type CreateOptions struct {
	// Flags indicates specific heap behaviors to activate or deactivate
	Flags CreateFlags
	// PoolFactory creates the pool for each size class. If it is left nil, SlabPoolFactory is used.
	PoolFactory PoolFactory
}

func checkHeapSize(size int) error {
	if size < MinSize {
		return cerrors.Wrapf(memutils.InvalidArgumentError, "heap size is less than minimum heap size: %d < %d", size, MinSize)
	}

	if size%MinSize != 0 {
		return cerrors.Wrapf(memutils.InvalidArgumentError, "heap size is not a multiple of minimum heap size: %d %% %d = %d", size, MinSize, size%MinSize)
	}

	return nil
}

// FromRegion creates a heap that serves every size class out of the provided region. The region is
// divided into NumSlabs equal, contiguous slabs, assigned to the size classes in ascending order so
// that the smallest class occupies the lowest addresses.
//
// The region must be at least MinSize bytes long and a multiple of MinSize; this is checked before
// anything is written to the region. The heap does not own the region: the caller must keep it
// alive, and must not use it for anything else, for as long as the heap is in use.
//
// Construction is all-or-nothing. If the pool for any size class cannot be created, no heap is
// returned.
func FromRegion(logger *slog.Logger, region []byte, options CreateOptions) (*Heap, error) {
	err := checkHeapSize(len(region))
	if err != nil {
		return nil, err
	}

	return newHeap(logger, region, options)
}

// FromRawParts creates a heap over the size bytes of memory starting at base. It behaves exactly
// like FromRegion, and is intended for memory that is not managed by Go, such as a region handed
// over by a loader or obtained from mmap.
func FromRawParts(logger *slog.Logger, base unsafe.Pointer, size int, options CreateOptions) (*Heap, error) {
	err := checkHeapSize(size)
	if err != nil {
		return nil, err
	}

	if base == nil {
		return nil, cerrors.Wrap(memutils.InvalidArgumentError, "heap base address is nil")
	}

	return newHeap(logger, unsafe.Slice((*byte)(base), size), options)
}

func newHeap(logger *slog.Logger, region []byte, options CreateOptions) (*Heap, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	factory := options.PoolFactory
	if factory == nil {
		factory = SlabPoolFactory
	}

	size := len(region)
	slabSize := size / NumSlabs

	heap := &Heap{
		logger:      logger,
		mutex:       utils.OptionalMutex{UseMutex: options.Flags&HeapCreateExternallySynchronized == 0},
		createFlags: options.Flags,
		region:      region[:size:size],
		slabSize:    slabSize,
	}

	for index, class := range SizeClasses {
		offset := index * slabSize
		pool, err := factory(heap.region[offset:offset+slabSize:offset+slabSize], class.Size())
		if err != nil {
			return nil, cerrors.Wrapf(err, "failed to create the %s slab", class)
		}
		heap.pools[index] = pool
	}

	logger.Debug("Heap::New",
		slog.Int("Size", size),
		slog.Int("SlabSize", slabSize),
		slog.String("Flags", options.Flags.String()),
	)

	memutils.DebugValidate(heap)
	return heap, nil
}
