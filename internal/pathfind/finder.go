// Package pathfind implements bounded A* over a tile grid plus a cheap
// single-step walkability check. Tile data comes from an Oracle; the package
// keeps no state between calls.
package pathfind

import "go.uber.org/zap"

// DefaultMaxIterations caps the number of cells a search may expand.
const DefaultMaxIterations = 500

// Outcome tells how a search ended.
type Outcome int

const (
	Found           Outcome = iota
	Unreachable             // open set ran dry
	BudgetExhausted         // iteration cap hit first
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Unreachable:
		return "unreachable"
	case BudgetExhausted:
		return "budget_exhausted"
	}
	return "unknown"
}

// Result is the full outcome of a search. FindPath only exposes Path.
type Result struct {
	Path     Path
	Outcome  Outcome
	Expanded int
}

// Finder runs searches against one Oracle.
type Finder struct {
	oracle        Oracle
	log           *zap.Logger
	maxIterations int
	heuristic     Heuristic
}

// Option configures a Finder.
type Option func(*Finder)

// WithMaxIterations overrides the expansion cap. Values below 1 are ignored.
func WithMaxIterations(n int) Option {
	return func(f *Finder) {
		if n > 0 {
			f.maxIterations = n
		}
	}
}

// WithHeuristic replaces the Manhattan default.
func WithHeuristic(h Heuristic) Option {
	return func(f *Finder) {
		if h != nil {
			f.heuristic = h
		}
	}
}

// New creates a Finder. A nil logger disables diagnostics.
func New(oracle Oracle, log *zap.Logger, opts ...Option) *Finder {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Finder{
		oracle:        oracle,
		log:           log,
		maxIterations: DefaultMaxIterations,
		heuristic:     Manhattan,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// MaxIterations returns the configured expansion cap.
func (f *Finder) MaxIterations() int { return f.maxIterations }

// FindPath returns the route from (startX,startY) to (targetX,targetY) on the
// entity's region and layer, excluding the start cell. It returns an empty
// Path when the target is unreachable or the iteration cap is hit.
func (f *Finder) FindPath(e *Entity, startX, startY, targetX, targetY int32) Path {
	return f.Search(e, Coord{startX, startY}, Coord{targetX, targetY}).Path
}

// Search is FindPath with the outcome and expansion count attached.
func (f *Finder) Search(e *Entity, start, target Coord) Result {
	if e == nil {
		f.log.Warn("pathfinding skipped: no entity",
			zap.Stringer("start", start), zap.Stringer("target", target))
		return Result{Outcome: Unreachable}
	}

	cameFrom := make(map[Coord]Coord)
	gScore := map[Coord]float64{start: 0}
	open := newOpenSet()
	open.upsert(start, f.heuristic(start, target))

	expanded := 0
	for open.Len() > 0 {
		if expanded >= f.maxIterations {
			f.log.Warn("pathfinding stopped: max iterations reached",
				zap.Int32("region", e.Region), zap.Int32("z", e.Z),
				zap.Stringer("start", start), zap.Stringer("target", target),
				zap.Int("expanded", expanded))
			return Result{Outcome: BudgetExhausted, Expanded: expanded}
		}
		expanded++

		current := open.popMin()
		if current == target {
			path := reconstructPath(cameFrom, current)
			f.log.Debug("path found",
				zap.Stringer("start", start), zap.Stringer("target", target),
				zap.Int("steps", len(path)), zap.Int("expanded", expanded))
			return Result{Path: path, Outcome: Found, Expanded: expanded}
		}

		g := gScore[current]
		for _, d := range neighborOffsets {
			next := Coord{current.X + d.X, current.Y + d.Y}
			if f.blocked(e, next) {
				continue
			}
			diagonal := d.X != 0 && d.Y != 0
			if diagonal && f.cornerBlocked(e, current, next) {
				continue
			}

			tentative := g + stepCost(current, next)
			if known, ok := gScore[next]; ok && tentative >= known {
				continue
			}
			cameFrom[next] = current
			gScore[next] = tentative
			open.upsert(next, tentative+f.heuristic(next, target))
		}
	}

	f.log.Warn("pathfinding failed: no path found",
		zap.Int32("region", e.Region), zap.Int32("z", e.Z),
		zap.Stringer("start", start), zap.Stringer("target", target),
		zap.Int("expanded", expanded))
	return Result{Outcome: Unreachable, Expanded: expanded}
}

// blocked reports whether the cell holds the impassable sentinel. Missing
// tiles are passable.
func (f *Finder) blocked(e *Entity, c Coord) bool {
	tile, ok := f.oracle.Tile(e.Region, c.X, c.Y, e.Z)
	return ok && tile.Blocked()
}

// cornerBlocked applies the corner-cutting rule to a diagonal step: both
// orthogonal cells flanking the move must be passable.
// CanWalkTo and the search share this rule; keep them in step.
func (f *Finder) cornerBlocked(e *Entity, from, to Coord) bool {
	return f.blocked(e, Coord{from.X, to.Y}) || f.blocked(e, Coord{to.X, from.Y})
}

// reconstructPath walks predecessors back from last until it reaches the cell
// without one (the start), then reverses so the route runs forward.
func reconstructPath(cameFrom map[Coord]Coord, last Coord) Path {
	var path Path
	for {
		prev, ok := cameFrom[last]
		if !ok {
			break
		}
		path = append(path, last)
		last = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
