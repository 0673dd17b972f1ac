package heap

import (
	"math/bits"

	cerrors "github.com/cockroachdb/errors"
	"github.com/vkngwrapper/slabheap/memutils"
)

// SizeClass is one of the fixed block sizes served by the heap. Its value is the block size in bytes.
type SizeClass int

const (
	SizeClass8 SizeClass = 8 << iota
	SizeClass16
	SizeClass32
	SizeClass64
	SizeClass128
	SizeClass256
	SizeClass512
	SizeClass1024
)

const (
	// NumSizeClasses is the number of size classes supported by the heap
	NumSizeClasses int = 8
	// MinClassSize is the block size of the smallest size class
	MinClassSize int = int(SizeClass8)
	// MaxClassSize is the block size of the largest size class. Requests larger than this are refused.
	MaxClassSize int = int(SizeClass1024)

	minClassShift = 3
)

// SizeClasses lists every size class in ascending order. The position of a class in this table is
// its Index, and is also the position of its slab within the heap region.
var SizeClasses = [NumSizeClasses]SizeClass{
	SizeClass8,
	SizeClass16,
	SizeClass32,
	SizeClass64,
	SizeClass128,
	SizeClass256,
	SizeClass512,
	SizeClass1024,
}

var sizeClassMapping = map[SizeClass]string{
	SizeClass8:    "Slab8",
	SizeClass16:   "Slab16",
	SizeClass32:   "Slab32",
	SizeClass64:   "Slab64",
	SizeClass128:  "Slab128",
	SizeClass256:  "Slab256",
	SizeClass512:  "Slab512",
	SizeClass1024: "Slab1024",
}

func (c SizeClass) String() string {
	return sizeClassMapping[c]
}

// Size returns the block size in bytes of this class
func (c SizeClass) Size() int {
	return int(c)
}

// Index returns the position of this class in SizeClasses
func (c SizeClass) Index() int {
	return bits.TrailingZeros(uint(c)) - minClassShift
}

// IsValid returns true if this value is one of the supported size classes
func (c SizeClass) IsValid() bool {
	_, ok := sizeClassMapping[c]
	return ok
}

// ClassForSize returns the smallest size class whose blocks can hold size bytes. A size of 0 is
// served by the smallest class. Sizes larger than MaxClassSize fail with OutOfMemoryError, because
// no class can serve them.
func ClassForSize(size int) (SizeClass, error) {
	if size < 0 {
		return 0, cerrors.Wrapf(memutils.InvalidArgumentError, "size %d is negative", size)
	}

	if size > MaxClassSize {
		return 0, cerrors.Wrapf(memutils.OutOfMemoryError, "size %d exceeds the largest size class %d", size, MaxClassSize)
	}

	if size <= MinClassSize {
		return SizeClass8, nil
	}

	return SizeClasses[bits.Len(uint(size-1))-minClassShift], nil
}

// ClassForLayout returns the size class that serves a request of size bytes with the provided
// alignment. An alignment of 0 is treated as 1; any other alignment must be a power of two. The
// request is classified by the larger of its size and its alignment. Every class is a power of two
// and blocks sit at multiples of the class size from the start of the heap, so the block returned
// for the request is aligned to at least the requested alignment relative to the heap base, and
// absolutely when the heap base is aligned to MaxClassSize.
func ClassForLayout(size int, alignment uint) (SizeClass, error) {
	if size < 0 {
		return 0, cerrors.Wrapf(memutils.InvalidArgumentError, "size %d is negative", size)
	}

	if alignment == 0 {
		alignment = 1
	}

	if memutils.CheckPow2(alignment, "alignment") != nil {
		return 0, cerrors.Wrapf(memutils.InvalidArgumentError, "alignment %d is not a power of two", alignment)
	}

	if alignment > uint(MaxClassSize) {
		return 0, cerrors.Wrapf(memutils.OutOfMemoryError, "alignment %d exceeds the largest size class %d", alignment, MaxClassSize)
	}

	effectiveSize := size
	if int(alignment) > effectiveSize {
		effectiveSize = int(alignment)
	}

	return ClassForSize(effectiveSize)
}
