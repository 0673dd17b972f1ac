package heap

import (
	"context"
	"strconv"

	cerrors "github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/slabheap/memutils"
	"golang.org/x/exp/slog"
)

// Statistics breaks down the memory usage of a heap by size class
type Statistics struct {
	// Classes holds the statistics of each size class, indexed by SizeClass.Index
	Classes [NumSizeClasses]memutils.DetailedStatistics
	// Total holds the sum of every entry in Classes
	Total memutils.DetailedStatistics
}

// CalculateStatistics fills stats with the current usage of every slab. It walks every block in
// the heap and should generally be used for diagnostics only.
func (h *Heap) CalculateStatistics(stats *Statistics) {
	h.logger.Debug("Heap::CalculateStatistics")

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.calculateStatistics(stats)
}

func (h *Heap) calculateStatistics(stats *Statistics) {
	stats.Total.Clear()
	for index := range h.pools {
		stats.Classes[index].Clear()
		h.pools[index].AddDetailedStatistics(&stats.Classes[index])
		stats.Total.AddDetailedStatistics(&stats.Classes[index])
	}
}

// HeapStatistics sums the cheap, counter-based statistics of every slab into stats
func (h *Heap) HeapStatistics(stats *memutils.Statistics) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, pool := range h.pools {
		pool.AddStatistics(stats)
	}
}

// CheckCorruption verifies every slab's free blocks against the markers written when they were
// freed. Markers are only written when built with the debug_mem_utils tag.
func (h *Heap) CheckCorruption() error {
	h.logger.Debug("Heap::CheckCorruption")

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for index, pool := range h.pools {
		err := pool.CheckCorruption()
		if err != nil {
			return cerrors.Wrapf(err, "the %s slab is corrupted", SizeClasses[index])
		}
	}

	return nil
}

// LogLiveAllocations logs every live block in the heap at the error level and returns the number
// of blocks logged. It is intended to be called when a component that should have released all of
// its memory shuts down.
func (h *Heap) LogLiveAllocations(ctx context.Context) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	count := 0
	for index, pool := range h.pools {
		class := SizeClasses[index]
		slabOffset := index * h.slabSize

		err := pool.VisitBlocks(func(offset int, size int, allocated bool) error {
			if !allocated {
				return nil
			}

			count++
			h.logger.LogAttrs(ctx, slog.LevelError, "[UNRELEASED MEMORY] live block",
				slog.String("class", class.String()),
				slog.Int("offset", slabOffset+offset),
				slog.Int("size", size),
			)
			return nil
		})
		if err != nil {
			h.logger.LogAttrs(ctx,
				slog.LevelError,
				"[UNRELEASED MEMORY] error while iterating live blocks",
				slog.String("class", class.String()),
				slog.Any("error", err))
		}
	}

	return count
}

func writeStatistics(json *jwriter.ObjectState, stats *memutils.DetailedStatistics) {
	json.Name("SlabCount").Int(stats.SlabCount)
	json.Name("SlabBytes").Int(stats.SlabBytes)
	json.Name("ReservedBytes").Int(stats.ReservedBytes)
	json.Name("AllocationCount").Int(stats.AllocationCount)
	json.Name("AllocationBytes").Int(stats.AllocationBytes)
	json.Name("FreeBlockCount").Int(stats.FreeBlockCount)
	json.Name("UnusedRangeCount").Int(stats.UnusedRangeCount)
	json.Name("Utilization").Float64(stats.Utilization())

	if stats.AllocationCount > 0 {
		json.Name("AllocationSizeMin").Int(stats.AllocationSizeMin)
		json.Name("AllocationSizeMax").Int(stats.AllocationSizeMax)
	}

	if stats.UnusedRangeCount > 0 {
		json.Name("UnusedRangeSizeMin").Int(stats.UnusedRangeSizeMin)
		json.Name("UnusedRangeSizeMax").Int(stats.UnusedRangeSizeMax)
	}
}

// PrintDetailedMap writes a json object describing every slab and every block within it
func (h *Heap) PrintDetailedMap(writer *jwriter.Writer) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	objState := writer.Object()
	defer objState.End()

	h.printDetailedMap(&objState)
}

func (h *Heap) printDetailedMap(json *jwriter.ObjectState) {
	for index, pool := range h.pools {
		class := SizeClasses[index]
		slabObj := json.Name(class.String()).Object()

		slabObj.Name("Offset").Int(index * h.slabSize)
		pool.BlockJsonData(slabObj)
		h.printDetailedMapBlocks(pool, &slabObj)

		slabObj.End()
	}
}

func (h *Heap) printDetailedMapBlocks(pool Pool, json *jwriter.ObjectState) {
	arrayState := json.Name("Blocks").Array()
	defer arrayState.End()

	runStart, runSize := -1, 0
	flushFree := func() {
		if runStart < 0 {
			return
		}

		obj := arrayState.Object()
		obj.Name("Offset").Int(runStart)
		obj.Name("Type").String("Free")
		obj.Name("Size").Int(runSize)
		obj.End()

		runStart, runSize = -1, 0
	}

	_ = pool.VisitBlocks(func(offset int, size int, allocated bool) error {
		if !allocated {
			if runStart < 0 {
				runStart = offset
			}
			runSize += size
			return nil
		}

		flushFree()

		obj := arrayState.Object()
		defer obj.End()

		obj.Name("Offset").Int(offset)
		obj.Name("Type").String("Allocated")
		obj.Name("Size").Int(size)
		return nil
	})

	flushFree()
}

// BuildStatsString returns a json document with the statistics of the heap as a whole and of
// each size class. If detailed is true, the document also includes the map written by
// PrintDetailedMap.
func (h *Heap) BuildStatsString(detailed bool) string {
	h.logger.Debug("Heap::BuildStatsString", slog.Bool("Detailed", detailed))

	h.mutex.Lock()
	defer h.mutex.Unlock()

	var stats Statistics
	h.calculateStatistics(&stats)

	writer := jwriter.NewWriter()
	objState := writer.Object()

	objState.Name("HeapBytes").Int(len(h.region))
	objState.Name("SlabBytes").Int(h.slabSize)

	totalObj := objState.Name("Total").Object()
	writeStatistics(&totalObj, &stats.Total)
	totalObj.End()

	classesObj := objState.Name("SizeClasses").Object()
	for index, class := range SizeClasses {
		classObj := classesObj.Name(strconv.Itoa(class.Size())).Object()
		writeStatistics(&classObj, &stats.Classes[index])
		classObj.End()
	}
	classesObj.End()

	if detailed {
		mapObj := objState.Name("DetailedMap").Object()
		h.printDetailedMap(&mapObj)
		mapObj.End()
	}

	objState.End()

	return string(writer.Bytes())
}
