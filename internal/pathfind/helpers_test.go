package pathfind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gridOracle is an in-memory Oracle. Cells not in the map are absent.
type gridOracle map[Coord]Tile

// parseGrid builds a gridOracle from rows of text: '#' is impassable, any
// other rune is a present, walkable tile with value 1. Row index is Y.
func parseGrid(rows ...string) gridOracle {
	g := gridOracle{}
	for y, row := range rows {
		for x, r := range row {
			v := uint32(1)
			if r == '#' {
				v = Impassable
			}
			g[Coord{int32(x), int32(y)}] = Tile{Value: v}
		}
	}
	return g
}

func (g gridOracle) Tile(_, x, y, _ int32) (Tile, bool) {
	t, ok := g[Coord{x, y}]
	return t, ok
}

func (g gridOracle) block(cells ...Coord) gridOracle {
	for _, c := range cells {
		g[c] = Tile{Value: Impassable}
	}
	return g
}

func newTestFinder(o Oracle, opts ...Option) *Finder {
	return New(o, zap.NewNop(), opts...)
}

func entityAt(x, y int32) *Entity {
	return &Entity{Region: 4, X: x, Y: y, Z: 0}
}

// requireWalkable checks every step of p is a legal single move.
func requireWalkable(t *testing.T, f *Finder, e *Entity, start Coord, p Path) {
	t.Helper()
	prev := start
	for i, c := range p {
		dx, dy := c.X-prev.X, c.Y-prev.Y
		require.True(t, dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 && (dx != 0 || dy != 0),
			"step %d from %v to %v is not adjacent", i, prev, c)
		mover := &Entity{Region: e.Region, X: prev.X, Y: prev.Y, Z: e.Z}
		require.True(t, f.CanWalkTo(mover, c.X, c.Y), "step %d from %v to %v is not walkable", i, prev, c)
		prev = c
	}
}

// legacyFindPath is the linear-scan formulation: the open set is an
// insertion-ordered list and the first cell with strictly lowest f wins.
func legacyFindPath(o Oracle, e *Entity, start, target Coord, maxIter int) Path {
	blocked := func(c Coord) bool {
		t, ok := o.Tile(e.Region, c.X, c.Y, e.Z)
		return ok && t.Value == Impassable
	}
	var open []Coord
	inOpen := map[Coord]bool{}
	add := func(c Coord) {
		if !inOpen[c] {
			inOpen[c] = true
			open = append(open, c)
		}
	}
	remove := func(c Coord) {
		delete(inOpen, c)
		for i, o := range open {
			if o == c {
				open = append(open[:i], open[i+1:]...)
				return
			}
		}
	}

	cameFrom := map[Coord]Coord{}
	g := map[Coord]float64{start: 0}
	fs := map[Coord]float64{start: Manhattan(start, target)}
	add(start)

	iter := 0
	for len(open) > 0 {
		if iter >= maxIter {
			return nil
		}
		iter++
		var cur Coord
		best := math.Inf(1)
		for _, c := range open {
			if fs[c] < best {
				best = fs[c]
				cur = c
			}
		}
		if cur == target {
			return reconstructPath(cameFrom, cur)
		}
		remove(cur)
		for _, d := range neighborOffsets {
			n := Coord{cur.X + d.X, cur.Y + d.Y}
			if blocked(n) {
				continue
			}
			diag := d.X != 0 && d.Y != 0
			if diag && (blocked(Coord{cur.X, n.Y}) || blocked(Coord{n.X, cur.Y})) {
				continue
			}
			step := 1.0
			if diag {
				step = math.Sqrt2
			}
			tentative := g[cur] + step
			if known, ok := g[n]; ok && tentative >= known {
				continue
			}
			cameFrom[n] = cur
			g[n] = tentative
			fs[n] = tentative + Manhattan(n, target)
			add(n)
		}
	}
	return nil
}
