package region

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slabheap/memutils"
)

// MaxAlign is the minimum alignment of every region returned by Map. It is at least the block
// size of the largest heap size class, so every block carved from a mapped region is aligned to
// its own size.
const MaxAlign uint = 4096

// Region is a contiguous span of memory obtained from the operating system for use as a heap
// region. Its memory is not managed by the Go garbage collector on platforms that support mmap.
type Region struct {
	data    []byte
	release func([]byte) error
}

// Map obtains a zeroed, readable and writable region of at least size bytes
func Map(size int) (*Region, error) {
	if size <= 0 {
		return nil, cerrors.Wrapf(memutils.InvalidArgumentError, "region size %d must be positive", size)
	}

	data, release, err := mapRegion(size)
	if err != nil {
		return nil, cerrors.Wrapf(err, "failed to map a region of %d bytes", size)
	}

	return &Region{data: data[:size:size], release: release}, nil
}

// Bytes returns the memory of the region. It returns nil after Release.
func (r *Region) Bytes() []byte { return r.data }

// Pointer returns the address of the start of the region
func (r *Region) Pointer() unsafe.Pointer { return unsafe.Pointer(unsafe.SliceData(r.data)) }

// Len returns the size of the region in bytes
func (r *Region) Len() int { return len(r.data) }

// Release returns the region to the operating system. Any heap created over the region must no
// longer be in use. Releasing a region twice is a no-op.
func (r *Region) Release() error {
	if r.data == nil {
		return nil
	}

	data := r.data
	r.data = nil
	return r.release(data)
}
