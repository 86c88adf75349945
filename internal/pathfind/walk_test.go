package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanWalkTo(t *testing.T) {
	g := parseGrid(
		".....",
		".#...",
		"...#.",
		".....",
	)
	f := newTestFinder(g)

	cases := []struct {
		name   string
		from   Coord
		target Coord
		want   bool
	}{
		{"same cell", Coord{2, 2}, Coord{2, 2}, true},
		{"orthogonal open", Coord{2, 2}, Coord{2, 3}, true},
		{"orthogonal into wall", Coord{2, 2}, Coord{3, 2}, false},
		{"diagonal open", Coord{3, 0}, Coord{4, 1}, true},
		{"diagonal into wall", Coord{2, 1}, Coord{3, 2}, false},
		{"diagonal with x corner blocked", Coord{0, 1}, Coord{1, 2}, false},
		{"diagonal with y corner blocked", Coord{1, 0}, Coord{2, 1}, false},
		{"diagonal away from wall", Coord{2, 2}, Coord{1, 3}, true},
		{"orthogonal beside wall", Coord{0, 1}, Coord{0, 2}, true},
		{"off-grid target is absent", Coord{4, 3}, Coord{5, 4}, true},
		{"distant target uses first-step corners", Coord{0, 3}, Coord{4, 0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := entityAt(tc.from.X, tc.from.Y)
			assert.Equal(t, tc.want, f.CanWalkTo(e, tc.target.X, tc.target.Y))
		})
	}
}

func TestCanWalkTo_NilEntity(t *testing.T) {
	f := newTestFinder(gridOracle{})
	assert.False(t, f.CanWalkTo(nil, 0, 0))
}

func TestCanWalkTo_AgreesWithSearchOnDiagonals(t *testing.T) {
	// One blocked corner: the diagonal is refused by both, the orthogonal
	// alternatives stay available to both.
	for _, corner := range []Coord{{1, 0}, {0, 1}} {
		g := gridOracle{}.block(corner)
		f := newTestFinder(g)
		e := entityAt(0, 0)

		assert.False(t, f.CanWalkTo(e, 1, 1))
		p := f.FindPath(e, 0, 0, 1, 1)
		assert.Len(t, p, 2, "corner %v", corner)
		assert.NotEqual(t, corner, p[0])

		open := Coord{1 - corner.X, 1 - corner.Y}
		assert.True(t, f.CanWalkTo(e, open.X, open.Y))
		assert.Equal(t, Path{open}, f.FindPath(e, 0, 0, open.X, open.Y))
	}
}
