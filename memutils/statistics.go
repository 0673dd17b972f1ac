package memutils

import "math"

// Statistics is a running tally of the memory managed by one or more slabs
type Statistics struct {
	// SlabCount is the number of slabs that contributed to these statistics
	SlabCount int
	// SlabBytes is the total size of the regions managed by those slabs, including bookkeeping
	SlabBytes int
	// ReservedBytes is the number of bytes the slabs set aside for their own bookkeeping
	ReservedBytes int
	// AllocationCount is the number of live blocks
	AllocationCount int
	// AllocationBytes is the number of bytes held by live blocks
	AllocationBytes int
	// FreeBlockCount is the number of blocks that could still be handed out
	FreeBlockCount int
}

func (s *Statistics) Clear() {
	s.SlabCount = 0
	s.SlabBytes = 0
	s.ReservedBytes = 0
	s.AllocationCount = 0
	s.AllocationBytes = 0
	s.FreeBlockCount = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.SlabCount += other.SlabCount
	s.SlabBytes += other.SlabBytes
	s.ReservedBytes += other.ReservedBytes
	s.AllocationCount += other.AllocationCount
	s.AllocationBytes += other.AllocationBytes
	s.FreeBlockCount += other.FreeBlockCount
}

// Utilization returns the fraction of usable (non-reserved) bytes currently held by live blocks
func (s *Statistics) Utilization() float64 {
	usable := s.SlabBytes - s.ReservedBytes
	if usable <= 0 {
		return 0
	}

	return float64(s.AllocationBytes) / float64(usable)
}

// DetailedStatistics extends Statistics with information about runs of free blocks, which is
// useful to judge how scattered the live blocks in a slab have become
type DetailedStatistics struct {
	Statistics
	UnusedRangeCount   int
	AllocationSizeMin  int
	AllocationSizeMax  int
	UnusedRangeSizeMin int
	UnusedRangeSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.UnusedRangeCount = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
	s.UnusedRangeSizeMin = math.MaxInt
	s.UnusedRangeSizeMax = 0
}

func (s *DetailedStatistics) AddUnusedRange(size int) {
	s.UnusedRangeCount++

	if size < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = size
	}

	if size > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.AllocationCount++
	s.AllocationBytes += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.UnusedRangeCount += other.UnusedRangeCount

	if other.UnusedRangeSizeMin < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = other.UnusedRangeSizeMin
	}

	if other.UnusedRangeSizeMax > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = other.UnusedRangeSizeMax
	}

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}
