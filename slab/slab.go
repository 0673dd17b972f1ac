package slab

import (
	"encoding/binary"
	"math"
	"math/bits"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/slabheap/memutils"
)

const (
	// MinBlockSize is the smallest block size a Slab accepts. Freed blocks carry a free-list link,
	// and debug builds poison the remainder, so blocks must comfortably hold both.
	MinBlockSize int = 8
	// MinBlockCount is the smallest number of blocks a Slab region must hold. The leading block(s)
	// of every region hold the allocation bitmap, so at least one more is needed to be useful.
	MinBlockCount int = 2

	linkSize          = 4
	noBlock    uint32 = math.MaxUint32
	maxBlocks         = int(noBlock) - 1
	bitsInByte        = 8
)

// Slab divides one contiguous region of memory into blocks of a single fixed size and hands them
// out one at a time.
//
// The region is not owned by the Slab: it is a view into memory that the caller guarantees will
// outlive it. All bookkeeping that must scale with the region lives inside the region itself. An
// allocation bitmap (one bit per block) occupies the leading block(s), and freed blocks are threaded
// onto an intrusive free list whose links are stored in the first bytes of each freed block.
// Blocks that have never been handed out are tracked with a bump index, so a Slab does not need to
// touch the whole region when it is created.
//
// Slab is not safe for concurrent use.
type Slab struct {
	region     []byte
	bitmap     []byte
	blockSize  int
	blockCount int
	reserved   int

	freeHead    uint32
	freeListLen int
	bump        int
	allocCount  int
}

// FromRegion creates a Slab over the provided region that hands out blocks of blockSize bytes.
// blockSize must be a power of two no smaller than MinBlockSize, and the region must hold at least
// MinBlockCount blocks. Trailing bytes that do not make up a whole block are never used.
func FromRegion(region []byte, blockSize int) (*Slab, error) {
	if blockSize < MinBlockSize {
		return nil, cerrors.Wrapf(memutils.InvalidArgumentError, "block size %d is smaller than the minimum block size %d", blockSize, MinBlockSize)
	}

	if memutils.CheckPow2(blockSize, "blockSize") != nil {
		return nil, cerrors.Wrapf(memutils.InvalidArgumentError, "block size %d is not a power of two", blockSize)
	}

	usable := memutils.AlignDown(len(region), uint(blockSize))
	blockCount := usable / blockSize
	if blockCount < MinBlockCount {
		return nil, cerrors.Wrapf(memutils.InvalidArgumentError,
			"a region of %d bytes holds %d blocks of size %d, but at least %d are required",
			len(region), blockCount, blockSize, MinBlockCount)
	}

	if blockCount > maxBlocks {
		return nil, cerrors.Wrapf(memutils.InvalidArgumentError, "a region of %d bytes holds more than %d blocks", len(region), maxBlocks)
	}

	bitmapSize := memutils.DivideRoundingUp(blockCount, bitsInByte)
	reserved := memutils.DivideRoundingUp(bitmapSize, blockSize)
	if reserved >= blockCount {
		return nil, cerrors.Wrapf(memutils.InvalidArgumentError, "a region of %d bytes has no usable blocks of size %d", len(region), blockSize)
	}

	s := &Slab{
		region:     region[:usable:usable],
		bitmap:     region[:bitmapSize:bitmapSize],
		blockSize:  blockSize,
		blockCount: blockCount,
		reserved:   reserved,
		freeHead:   noBlock,
		bump:       reserved,
	}

	clear(s.region[:reserved*blockSize])
	for i := 0; i < reserved; i++ {
		s.setAllocated(i, true)
	}

	memutils.DebugValidate(s)
	return s, nil
}

func (s *Slab) block(index int) []byte {
	offset := index * s.blockSize
	return s.region[offset : offset+s.blockSize : offset+s.blockSize]
}

func (s *Slab) isAllocated(index int) bool {
	return s.bitmap[index/bitsInByte]&(1<<(index%bitsInByte)) != 0
}

func (s *Slab) setAllocated(index int, allocated bool) {
	if allocated {
		s.bitmap[index/bitsInByte] |= 1 << (index % bitsInByte)
	} else {
		s.bitmap[index/bitsInByte] &^= 1 << (index % bitsInByte)
	}
}

func (s *Slab) base() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(s.region)))
}

// Allocate hands out one zeroed block. OutOfMemoryError is returned when every block is in use.
func (s *Slab) Allocate() (unsafe.Pointer, error) {
	memutils.DebugCheckPow2(s.blockSize, "blockSize")

	var index int

	if s.freeHead != noBlock {
		index = int(s.freeHead)
		s.freeHead = binary.LittleEndian.Uint32(s.block(index))
		s.freeListLen--
	} else if s.bump < s.blockCount {
		index = s.bump
		s.bump++
	} else {
		return nil, cerrors.Wrapf(memutils.OutOfMemoryError, "all %d blocks of size %d are in use", s.Capacity(), s.blockSize)
	}

	s.setAllocated(index, true)
	s.allocCount++

	block := s.block(index)
	clear(block)
	return unsafe.Pointer(unsafe.SliceData(block)), nil
}

// Free returns a block obtained from Allocate to the slab. BadAddressError is returned if ptr does
// not identify the start of a live block in this slab, which includes blocks that were already freed.
func (s *Slab) Free(ptr unsafe.Pointer) error {
	index, err := s.blockIndex(ptr)
	if err != nil {
		return err
	}

	if !s.isAllocated(index) {
		return cerrors.Wrapf(memutils.BadAddressError, "block %d of size %d is already free", index, s.blockSize)
	}

	s.setAllocated(index, false)
	s.allocCount--

	block := s.block(index)
	binary.LittleEndian.PutUint32(block, s.freeHead)
	memutils.WriteMagicValue(block[linkSize:])
	s.freeHead = uint32(index)
	s.freeListLen++

	return nil
}

func (s *Slab) blockIndex(ptr unsafe.Pointer) (int, error) {
	if ptr == nil {
		return -1, cerrors.Wrap(memutils.BadAddressError, "cannot free a nil pointer")
	}

	base := s.base()
	addr := uintptr(ptr)
	if addr < base || addr >= base+uintptr(len(s.region)) {
		return -1, cerrors.Wrapf(memutils.BadAddressError, "address %#x is outside of the slab [%#x, %#x)", addr, base, base+uintptr(len(s.region)))
	}

	offset := int(addr - base)
	if offset%s.blockSize != 0 {
		return -1, cerrors.Wrapf(memutils.BadAddressError, "offset %d is not the start of a block of size %d", offset, s.blockSize)
	}

	index := offset / s.blockSize
	if index < s.reserved {
		return -1, cerrors.Wrapf(memutils.BadAddressError, "offset %d belongs to the slab's bookkeeping", offset)
	}

	return index, nil
}

// Contains reports whether ptr falls anywhere inside the region managed by this slab
func (s *Slab) Contains(ptr unsafe.Pointer) bool {
	addr := uintptr(ptr)
	base := s.base()
	return addr >= base && addr < base+uintptr(len(s.region))
}

// Region returns the portion of the original region that is divided into blocks
func (s *Slab) Region() []byte { return s.region }

// BlockSize returns the size in bytes of each block
func (s *Slab) BlockSize() int { return s.blockSize }

// Capacity returns the number of blocks that can be live at once
func (s *Slab) Capacity() int { return s.blockCount - s.reserved }

// ReservedBytes returns the number of bytes at the start of the region used for bookkeeping
func (s *Slab) ReservedBytes() int { return s.reserved * s.blockSize }

// AllocationCount returns the number of live blocks
func (s *Slab) AllocationCount() int { return s.allocCount }

// FreeCount returns the number of blocks that can still be allocated
func (s *Slab) FreeCount() int { return s.freeListLen + s.blockCount - s.bump }

// IsEmpty returns true if this slab has no live blocks
func (s *Slab) IsEmpty() bool { return s.allocCount == 0 }

// Validate performs internal consistency checks. It walks the bitmap and the free list, so it is
// linear in the size of the slab.
func (s *Slab) Validate() error {
	for i := 0; i < s.reserved; i++ {
		if !s.isAllocated(i) {
			return errors.Errorf("reserved block %d is not marked as in use", i)
		}
	}

	if s.bump < s.reserved || s.bump > s.blockCount {
		return errors.Errorf("bump index %d is outside of the usable blocks [%d, %d]", s.bump, s.reserved, s.blockCount)
	}

	allocated := 0
	for i := s.reserved; i < s.blockCount; i++ {
		if !s.isAllocated(i) {
			continue
		}
		if i >= s.bump {
			return errors.Errorf("block %d is marked as in use but has never been allocated", i)
		}
		allocated++
	}

	if allocated != s.allocCount {
		return errors.Errorf("the allocation count of the slab is %d, but %d blocks are marked as in use", s.allocCount, allocated)
	}

	freeListLen := 0
	for index := s.freeHead; index != noBlock; index = binary.LittleEndian.Uint32(s.block(int(index))) {
		if freeListLen >= s.freeListLen {
			return errors.Errorf("the free list is longer than its recorded length %d", s.freeListLen)
		}
		if int(index) < s.reserved || int(index) >= s.bump {
			return errors.Errorf("free list entry %d is outside of the allocated blocks [%d, %d)", index, s.reserved, s.bump)
		}
		if s.isAllocated(int(index)) {
			return errors.Errorf("block %d is in the free list but is marked as in use", index)
		}
		freeListLen++
	}

	if freeListLen != s.freeListLen {
		return errors.Errorf("the free list has %d entries, but its recorded length is %d", freeListLen, s.freeListLen)
	}

	if s.allocCount+s.freeListLen != s.bump-s.reserved {
		return errors.Errorf("%d live blocks and %d freed blocks do not add up to the %d blocks handed out", s.allocCount, s.freeListLen, s.bump-s.reserved)
	}

	return nil
}

// CheckCorruption verifies that blocks on the free list have not been written to since they were
// freed. Freed blocks are only marked when built with the debug_mem_utils tag; otherwise this
// method always succeeds.
func (s *Slab) CheckCorruption() error {
	if !memutils.DebugPoisoning {
		return nil
	}

	count := 0
	for index := s.freeHead; index != noBlock && count < s.freeListLen; index = binary.LittleEndian.Uint32(s.block(int(index))) {
		if int(index) < s.reserved || int(index) >= s.bump {
			return errors.Errorf("memory corruption detected in the free list: link to block %d", index)
		}
		if !memutils.ValidateMagicValue(s.block(int(index))[linkSize:]) {
			return errors.Errorf("memory corruption detected in freed block at offset %d", int(index)*s.blockSize)
		}
		count++
	}

	return nil
}

// VisitBlocks calls the provided callback once for every usable block, in address order
func (s *Slab) VisitBlocks(visit func(offset int, size int, allocated bool) error) error {
	for i := s.reserved; i < s.blockCount; i++ {
		err := visit(i*s.blockSize, s.blockSize, s.isAllocated(i))
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Slab) fillStatistics(stats *memutils.Statistics) {
	stats.SlabCount++
	stats.SlabBytes += len(s.region)
	stats.ReservedBytes += s.ReservedBytes()
	stats.FreeBlockCount += s.FreeCount()
}

// AddStatistics sums this slab's statistics into the provided object
func (s *Slab) AddStatistics(stats *memutils.Statistics) {
	s.fillStatistics(stats)
	stats.AllocationCount += s.allocCount
	stats.AllocationBytes += s.allocCount * s.blockSize
}

// AddDetailedStatistics sums this slab's statistics into the provided object, including every run
// of consecutive free blocks as an unused range
func (s *Slab) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	s.fillStatistics(&stats.Statistics)

	run := 0
	for i := s.reserved; i < s.blockCount; i++ {
		if s.isAllocated(i) {
			if run > 0 {
				stats.AddUnusedRange(run * s.blockSize)
				run = 0
			}
			stats.AddAllocation(s.blockSize)
			continue
		}
		run++
	}

	if run > 0 {
		stats.AddUnusedRange(run * s.blockSize)
	}
}

// BlockJsonData populates a json object with information about this slab
func (s *Slab) BlockJsonData(json jwriter.ObjectState) {
	json.Name("TotalBytes").Int(len(s.region))
	json.Name("BlockSize").Int(s.blockSize)
	json.Name("ReservedBytes").Int(s.ReservedBytes())
	json.Name("Capacity").Int(s.Capacity())
	json.Name("Allocations").Int(s.allocCount)
	json.Name("FreeBlocks").Int(s.FreeCount())
	json.Name("NeverUsedBlocks").Int(s.blockCount - s.bump)
	json.Name("MarkedBlocks").Int(bitmapPopCount(s.bitmap))
}

func bitmapPopCount(bitmap []byte) int {
	count := 0
	for _, b := range bitmap {
		count += bits.OnesCount8(b)
	}
	return count
}
