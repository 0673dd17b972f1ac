package region_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/slabheap/memutils"
	"github.com/vkngwrapper/slabheap/region"
)

func TestMapRegion(t *testing.T) {
	r, err := region.Map(10000)
	require.NoError(t, err)
	require.Equal(t, 10000, r.Len())
	require.Zero(t, uintptr(r.Pointer())%uintptr(region.MaxAlign))

	data := r.Bytes()
	for i := range data {
		require.Zero(t, data[i])
	}
	data[0] = 1
	data[len(data)-1] = 2

	require.NoError(t, r.Release())
	require.Nil(t, r.Bytes())
	require.NoError(t, r.Release())
}

func TestMapRejectsEmptyRegion(t *testing.T) {
	_, err := region.Map(0)
	require.ErrorIs(t, err, memutils.InvalidArgumentError)
}
