package heap

import (
	"unsafe"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/slabheap/memutils"
	"github.com/vkngwrapper/slabheap/slab"
)

//go:generate mockgen -destination=mocks/pool.go -package=mocks . Pool

// Pool is a region of memory divided into blocks of one fixed size. The heap owns one Pool per
// size class and routes every request to exactly one of them.
type Pool interface {
	// Allocate hands out one block, or fails with memutils.OutOfMemoryError when none are free
	Allocate() (unsafe.Pointer, error)
	// Free returns a block obtained from Allocate
	Free(ptr unsafe.Pointer) error

	// BlockSize returns the size in bytes of every block in the pool
	BlockSize() int
	// Region returns the memory the pool divides into blocks. It must start at the beginning
	// of the region the pool was created with.
	Region() []byte
	// Capacity returns the number of blocks that can be live at once
	Capacity() int
	// AllocationCount returns the number of live blocks
	AllocationCount() int

	Validate() error
	CheckCorruption() error
	AddStatistics(stats *memutils.Statistics)
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
	BlockJsonData(json jwriter.ObjectState)
	VisitBlocks(visit func(offset int, size int, allocated bool) error) error
}

// PoolFactory creates the Pool for one size class over the provided slice of the heap region
type PoolFactory func(region []byte, blockSize int) (Pool, error)

var _ Pool = &slab.Slab{}

// SlabPoolFactory is the default PoolFactory, which creates a slab.Slab for each size class
func SlabPoolFactory(region []byte, blockSize int) (Pool, error) {
	s, err := slab.FromRegion(region, blockSize)
	if err != nil {
		return nil, err
	}

	return s, nil
}
