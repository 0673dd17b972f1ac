package utils_test

import (
	"testing"

	cerrors "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/slabheap/internal/utils"
)

func TestOnceCellSetsOnce(t *testing.T) {
	var cell utils.OnceCell[int]

	value, ok := cell.Get()
	require.False(t, ok)
	require.Nil(t, value)

	first := 1
	won, err := cell.TrySet(func() (*int, error) { return &first, nil })
	require.True(t, won)
	require.NoError(t, err)
	require.True(t, cell.IsSet())

	second := 2
	won, err = cell.TrySet(func() (*int, error) {
		require.Fail(t, "construct called on a set cell")
		return &second, nil
	})
	require.False(t, won)
	require.NoError(t, err)

	value, ok = cell.Get()
	require.True(t, ok)
	require.Equal(t, 1, *value)
}

func TestOnceCellFailedConstructionCanRetry(t *testing.T) {
	var cell utils.OnceCell[int]

	won, err := cell.TrySet(func() (*int, error) { return nil, cerrors.New("no memory") })
	require.True(t, won)
	require.ErrorContains(t, err, "no memory")
	require.False(t, cell.IsSet())

	value := 3
	won, err = cell.TrySet(func() (*int, error) { return &value, nil })
	require.True(t, won)
	require.NoError(t, err)
	require.True(t, cell.IsSet())
}

func TestOnceCellPanickingConstructionCanRetry(t *testing.T) {
	var cell utils.OnceCell[int]

	require.Panics(t, func() {
		_, _ = cell.TrySet(func() (*int, error) { panic("pool factory failed") })
	})
	require.False(t, cell.IsSet())

	value := 4
	won, err := cell.TrySet(func() (*int, error) { return &value, nil })
	require.True(t, won)
	require.NoError(t, err)

	stored, ok := cell.Get()
	require.True(t, ok)
	require.Equal(t, 4, *stored)
}
