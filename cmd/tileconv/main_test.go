package main

import (
	"testing"

	"github.com/l1jgo/pathfind/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRegions(t *testing.T) {
	maps := data.NewMapDataTable()
	for _, id := range []int32{7, 0, 4} {
		require.True(t, maps.AddMap(data.MapInfo{MapID: id, EndX: 1, EndY: 1}))
	}

	ids, err := selectRegions(maps, nil)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 4, 7}, ids)

	ids, err = selectRegions(maps, []string{"7", "4"})
	require.NoError(t, err)
	assert.Equal(t, []int32{7, 4}, ids)

	_, err = selectRegions(maps, []string{"5"})
	assert.Error(t, err)
	_, err = selectRegions(maps, []string{"x"})
	assert.Error(t, err)
}
