package memutils_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/slabheap/memutils"
)

func TestAlignment(t *testing.T) {
	testCases := []struct {
		value     int
		alignment uint
		up        int
		down      int
	}{
		{value: 0, alignment: 8, up: 0, down: 0},
		{value: 1, alignment: 8, up: 8, down: 0},
		{value: 8, alignment: 8, up: 8, down: 8},
		{value: 1000, alignment: 128, up: 1024, down: 896},
		{value: 16384, alignment: 1024, up: 16384, down: 16384},
	}

	for _, testCase := range testCases {
		require.Equal(t, testCase.up, memutils.AlignUp(testCase.value, testCase.alignment), "AlignUp(%d, %d)", testCase.value, testCase.alignment)
		require.Equal(t, testCase.down, memutils.AlignDown(testCase.value, testCase.alignment), "AlignDown(%d, %d)", testCase.value, testCase.alignment)
	}
}

func TestDivideRoundingUp(t *testing.T) {
	require.Equal(t, 0, memutils.DivideRoundingUp(0, 8))
	require.Equal(t, 1, memutils.DivideRoundingUp(1, 8))
	require.Equal(t, 256, memutils.DivideRoundingUp(2048, 8))
	require.Equal(t, 257, memutils.DivideRoundingUp(2049, 8))
}

func TestCheckPow2(t *testing.T) {
	for _, value := range []int{1, 2, 8, 1024} {
		require.NoError(t, memutils.CheckPow2(value, "value"))
	}

	for _, value := range []int{0, 3, 24, 1000} {
		err := memutils.CheckPow2(value, "value")
		require.ErrorIs(t, err, memutils.PowerOfTwoError)
	}

	require.NotPanics(t, func() { memutils.DebugCheckPow2(64, "value") })
	if memutils.DebugPoisoning {
		require.Panics(t, func() { memutils.DebugCheckPow2(24, "value") })
	} else {
		require.NotPanics(t, func() { memutils.DebugCheckPow2(24, "value") })
	}
}
