package heap_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/slabheap/heap"
	"github.com/vkngwrapper/slabheap/memutils"
)

func TestClassForSizeReturnsSmallestFittingClass(t *testing.T) {
	for size := 0; size <= heap.MaxClassSize; size++ {
		var expected heap.SizeClass
		for _, class := range heap.SizeClasses {
			if class.Size() >= size {
				expected = class
				break
			}
		}

		class, err := heap.ClassForSize(size)
		require.NoError(t, err)
		require.Equal(t, expected, class, "size %d", size)
	}
}

func TestClassForSizeBoundaries(t *testing.T) {
	testCases := []struct {
		size     int
		expected heap.SizeClass
	}{
		{size: 0, expected: heap.SizeClass8},
		{size: 1, expected: heap.SizeClass8},
		{size: 8, expected: heap.SizeClass8},
		{size: 9, expected: heap.SizeClass16},
		{size: 16, expected: heap.SizeClass16},
		{size: 17, expected: heap.SizeClass32},
		{size: 33, expected: heap.SizeClass64},
		{size: 65, expected: heap.SizeClass128},
		{size: 129, expected: heap.SizeClass256},
		{size: 257, expected: heap.SizeClass512},
		{size: 512, expected: heap.SizeClass512},
		{size: 513, expected: heap.SizeClass1024},
		{size: 1024, expected: heap.SizeClass1024},
	}

	for _, testCase := range testCases {
		class, err := heap.ClassForSize(testCase.size)
		require.NoError(t, err)
		require.Equal(t, testCase.expected, class, "size %d", testCase.size)
	}
}

func TestClassForSizeRefusesOversizedRequests(t *testing.T) {
	for _, size := range []int{1025, 2048, 1 << 20} {
		_, err := heap.ClassForSize(size)
		require.ErrorIs(t, err, memutils.OutOfMemoryError)
	}

	_, err := heap.ClassForSize(-1)
	require.ErrorIs(t, err, memutils.InvalidArgumentError)
}

func TestClassForLayout(t *testing.T) {
	testCases := []struct {
		name      string
		size      int
		alignment uint
		expected  heap.SizeClass
		err       error
	}{
		{name: "ZeroAlignment", size: 0, alignment: 0, expected: heap.SizeClass8},
		{name: "SizeDominates", size: 9, alignment: 8, expected: heap.SizeClass16},
		{name: "AlignmentDominates", size: 1, alignment: 64, expected: heap.SizeClass64},
		{name: "LargestClass", size: 1024, alignment: 1024, expected: heap.SizeClass1024},
		{name: "AlignmentNotPow2", size: 100, alignment: 3, err: memutils.InvalidArgumentError},
		{name: "AlignmentTooLarge", size: 8, alignment: 2048, err: memutils.OutOfMemoryError},
		{name: "SizeTooLarge", size: 1025, alignment: 8, err: memutils.OutOfMemoryError},
		{name: "NegativeSize", size: -4, alignment: 8, err: memutils.InvalidArgumentError},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			class, err := heap.ClassForLayout(testCase.size, testCase.alignment)
			if testCase.err != nil {
				require.ErrorIs(t, err, testCase.err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, testCase.expected, class)
		})
	}
}

func TestSizeClassTable(t *testing.T) {
	for index, class := range heap.SizeClasses {
		require.Equal(t, index, class.Index())
		require.Equal(t, 8<<index, class.Size())
		require.True(t, class.IsValid())
	}

	require.Equal(t, "Slab8", heap.SizeClass8.String())
	require.Equal(t, "Slab1024", heap.SizeClass1024.String())
	require.False(t, heap.SizeClass(24).IsValid())
}
