package world

import (
	"testing"

	"github.com/l1jgo/pathfind/internal/data"
	"github.com/l1jgo/pathfind/internal/pathfind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestWorld returns a 10x10 region 4 with strict bounds.
func newTestWorld(t *testing.T) (*data.MapDataTable, *Mover) {
	t.Helper()
	table := data.NewMapDataTable()
	require.True(t, table.AddMap(data.MapInfo{MapID: 4, StartX: 0, EndX: 9, StartY: 0, EndY: 9}))
	table.SetStrictBounds(true)
	return table, NewMover(pathfind.New(table, nil), nil)
}

func TestHeading(t *testing.T) {
	o := pathfind.Coord{X: 5, Y: 5}
	cases := map[pathfind.Coord]int16{
		{X: 5, Y: 0}:  0,
		{X: 9, Y: 1}:  1,
		{X: 8, Y: 5}:  2,
		{X: 6, Y: 6}:  3,
		{X: 5, Y: 7}:  4,
		{X: 0, Y: 9}:  5,
		{X: 4, Y: 5}:  6,
		{X: 1, Y: 2}:  7,
		{X: 5, Y: 5}:  0,
	}
	for to, want := range cases {
		assert.Equal(t, want, Heading(o, to), "toward %v", to)
		if to != o {
			s := Step(o, want)
			assert.Equal(t, want, Heading(o, s))
		}
	}
}

func TestStepToward(t *testing.T) {
	table, m := newTestWorld(t)
	e := &pathfind.Entity{Region: 4, X: 2, Y: 2}

	mv, ok := m.StepToward(e, 6, 6)
	require.True(t, ok)
	assert.Equal(t, Move{To: pathfind.Coord{X: 3, Y: 3}, Heading: 3}, mv)

	// Corner blocked: diagonal refused, first side-step that is walkable wins.
	table.SetTile(4, 3, 2, 0, pathfind.Impassable)
	mv, ok = m.StepToward(e, 6, 6)
	require.True(t, ok)
	assert.Equal(t, pathfind.Coord{X: 2, Y: 3}, mv.To)
	assert.Equal(t, int16(4), mv.Heading)

	// Straight east blocked: no legal single step.
	_, ok = m.StepToward(e, 7, 2)
	assert.False(t, ok)

	_, ok = m.StepToward(e, 2, 2)
	assert.False(t, ok, "already there")
	_, ok = m.StepToward(nil, 1, 1)
	assert.False(t, ok)
}

func TestStepToward_Boxed(t *testing.T) {
	table, m := newTestWorld(t)
	for _, c := range []pathfind.Coord{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}} {
		table.SetTile(4, c.X, c.Y, 0, pathfind.Impassable)
	}
	e := &pathfind.Entity{Region: 4, X: 0, Y: 0}
	_, ok := m.StepToward(e, 5, 5)
	assert.False(t, ok)
}

func TestRoute_WalksToTarget(t *testing.T) {
	table, m := newTestWorld(t)
	for y := int32(0); y < 8; y++ {
		table.SetTile(4, 5, y, 0, pathfind.Impassable)
	}
	e := &pathfind.Entity{Region: 4, X: 1, Y: 1}

	r, ok := m.Plan(e, 8, 1)
	require.True(t, ok)
	steps := len(r.Remaining())
	for i := 0; i < steps; i++ {
		_, ok := r.Advance(e)
		require.True(t, ok, "step %d", i)
	}
	assert.True(t, r.Done())
	assert.False(t, r.Halted())
	assert.Equal(t, pathfind.Coord{X: 8, Y: 1}, e.Pos())

	_, ok = r.Advance(e)
	assert.False(t, ok)
}

func TestRoute_HaltsWhenBlocked(t *testing.T) {
	table, m := newTestWorld(t)
	e := &pathfind.Entity{Region: 4, X: 0, Y: 0}

	r, ok := m.Plan(e, 4, 0)
	require.True(t, ok)
	require.Equal(t, pathfind.Path{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}}, r.Remaining())

	_, ok = r.Advance(e)
	require.True(t, ok)

	table.SetBlocked(4, 2, 0, 0, true)
	_, ok = r.Advance(e)
	assert.False(t, ok)
	assert.True(t, r.Halted())
	assert.True(t, r.Done())
	assert.Equal(t, pathfind.Coord{X: 1, Y: 0}, e.Pos(), "entity does not move past a blocked step")

	// Clearing the block does not revive a halted route.
	table.SetBlocked(4, 2, 0, 0, false)
	_, ok = r.Advance(e)
	assert.False(t, ok)
}

func TestPlan_NoPath(t *testing.T) {
	table, m := newTestWorld(t)
	for y := int32(0); y < 10; y++ {
		table.SetTile(4, 5, y, 0, pathfind.Impassable)
	}
	_, ok := m.Plan(&pathfind.Entity{Region: 4, X: 1, Y: 1}, 8, 8)
	assert.False(t, ok)

	r := m.NewRoute(nil)
	assert.True(t, r.Done())
}
