package world

import (
	"github.com/l1jgo/pathfind/internal/pathfind"
	"go.uber.org/zap"
)

// heading direction deltas: 0=N, 1=NE, 2=E, 3=SE, 4=S, 5=SW, 6=W, 7=NW
var headingDX = [8]int32{0, 1, 1, 1, 0, -1, -1, -1}
var headingDY = [8]int32{-1, -1, 0, 1, 1, 1, 0, -1}

// Heading returns the 8-way facing from one cell toward another.
// Same cell faces north.
func Heading(from, to pathfind.Coord) int16 {
	ddx := clampUnit(to.X - from.X)
	ddy := clampUnit(to.Y - from.Y)
	for i := int16(0); i < 8; i++ {
		if headingDX[i] == ddx && headingDY[i] == ddy {
			return i
		}
	}
	return 0
}

// Step returns the cell one tile away in the given heading.
func Step(from pathfind.Coord, heading int16) pathfind.Coord {
	h := heading & 7
	return pathfind.Coord{X: from.X + headingDX[h], Y: from.Y + headingDY[h]}
}

func clampUnit(v int32) int32 {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

// Move is one accepted single-tile move.
type Move struct {
	To      pathfind.Coord
	Heading int16
}

// Mover turns pathfinding answers into single-tile moves.
type Mover struct {
	finder *pathfind.Finder
	log    *zap.Logger
}

func NewMover(finder *pathfind.Finder, log *zap.Logger) *Mover {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mover{finder: finder, log: log}
}

// StepToward picks one tile toward (tx, ty) without searching.
// If a diagonal step is not walkable, tries its two orthogonal parts.
func (m *Mover) StepToward(e *pathfind.Entity, tx, ty int32) (Move, bool) {
	if e == nil {
		return Move{}, false
	}
	from := e.Pos()
	dx := tx - e.X
	dy := ty - e.Y
	if dx == 0 && dy == 0 {
		return Move{}, false
	}

	candidates := make([]pathfind.Coord, 0, 3)

	// Primary: direct toward target
	mx, my := e.X+clampUnit(dx), e.Y+clampUnit(dy)
	candidates = append(candidates, pathfind.Coord{X: mx, Y: my})

	// Side-steps. A straight move has none: both diagonals around a blocked
	// tile would cut its corner.
	if dx != 0 && dy != 0 {
		candidates = append(candidates, pathfind.Coord{X: mx, Y: e.Y})
		candidates = append(candidates, pathfind.Coord{X: e.X, Y: my})
	}

	for _, c := range candidates {
		if m.finder.CanWalkTo(e, c.X, c.Y) {
			return Move{To: c, Heading: Heading(from, c)}, true
		}
	}
	return Move{}, false
}

// Plan runs a full search from the entity's cell and wraps the result in a
// Route. ok is false when no path was found.
func (m *Mover) Plan(e *pathfind.Entity, tx, ty int32) (*Route, bool) {
	if e == nil {
		return nil, false
	}
	path := m.finder.FindPath(e, e.X, e.Y, tx, ty)
	if len(path) == 0 {
		return nil, false
	}
	return &Route{mover: m, path: path}, true
}

// Route walks a found path one tile at a time. Each step is re-checked with
// CanWalkTo; a step that became blocked halts the route for good.
type Route struct {
	mover  *Mover
	path   pathfind.Path
	next   int
	halted bool
}

// NewRoute wraps an existing path, e.g. one chosen by a script.
func (m *Mover) NewRoute(path pathfind.Path) *Route {
	return &Route{mover: m, path: path}
}

// Remaining returns the cells not yet walked.
func (r *Route) Remaining() pathfind.Path {
	return r.path[r.next:]
}

// Done reports whether the route reached its end or halted.
func (r *Route) Done() bool {
	return r.halted || r.next >= len(r.path)
}

// Halted reports whether a blocked step stopped the route early.
func (r *Route) Halted() bool {
	return r.halted
}

// Advance validates the next step for e and, when walkable, moves e onto it.
func (r *Route) Advance(e *pathfind.Entity) (Move, bool) {
	if r.Done() || e == nil {
		return Move{}, false
	}
	to := r.path[r.next]
	if !r.mover.finder.CanWalkTo(e, to.X, to.Y) {
		r.halted = true
		r.mover.log.Debug("route halted: next step blocked",
			zap.Int32("region", e.Region),
			zap.Stringer("at", e.Pos()), zap.Stringer("next", to),
			zap.Int("remaining", len(r.path)-r.next))
		return Move{}, false
	}
	mv := Move{To: to, Heading: Heading(e.Pos(), to)}
	e.X, e.Y = to.X, to.Y
	r.next++
	return mv, true
}
