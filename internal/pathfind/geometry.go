package pathfind

import (
	"fmt"
	"math"
)

// Coord is a cell on one layer of a region.
type Coord struct {
	X, Y int32
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Path is an ordered route. The start cell is not included; the target is
// the last element. An empty Path means no route was found.
type Path []Coord

// Cost sums the step costs of walking the path from start.
func (p Path) Cost(start Coord) float64 {
	var total float64
	prev := start
	for _, c := range p {
		total += stepCost(prev, c)
		prev = c
	}
	return total
}

// neighborOffsets lists the expansion order: E, W, S, N, SE, SW, NE, NW.
// Tie-breaking depends on this order, so keep it stable.
var neighborOffsets = [8]Coord{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

func isDiagonal(from, to Coord) bool {
	return from.X != to.X && from.Y != to.Y
}

func stepCost(from, to Coord) float64 {
	if isDiagonal(from, to) {
		return math.Sqrt2
	}
	return 1
}

func sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int32) float64 {
	if v < 0 {
		return float64(-int64(v))
	}
	return float64(v)
}
