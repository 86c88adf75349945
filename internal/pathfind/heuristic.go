package pathfind

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownHeuristic is returned by ParseHeuristic for unsupported names.
var ErrUnknownHeuristic = errors.New("unknown heuristic")

// Heuristic estimates the remaining cost from a to b.
type Heuristic func(a, b Coord) float64

// Manhattan is |dx| + |dy|. It overestimates diagonal-heavy routes, which
// trades optimality for fewer expansions. This is the default.
func Manhattan(a, b Coord) float64 {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Octile is admissible for the 1/√2 cost model. Selecting it changes which
// routes are returned, so it is opt-in only.
func Octile(a, b Coord) float64 {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

// ParseHeuristic maps a config name to a Heuristic.
func ParseHeuristic(name string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "manhattan":
		return Manhattan, nil
	case "octile":
		return Octile, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHeuristic, name)
}
