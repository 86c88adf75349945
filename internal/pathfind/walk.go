package pathfind

// CanWalkTo reports whether the entity may move straight toward
// (targetX, targetY) right now. It never searches.
//
// A diagonal move is checked against the two cells flanking the entity's
// first step toward the target; for an adjacent target those are
// (x, targetY) and (targetX, y), the same cells FindPath checks.
func (f *Finder) CanWalkTo(e *Entity, targetX, targetY int32) bool {
	if e == nil {
		return false
	}
	from := e.Pos()
	target := Coord{targetX, targetY}
	if from == target {
		return true
	}
	if f.blocked(e, target) {
		return false
	}

	sx, sy := sign(target.X-from.X), sign(target.Y-from.Y)
	if sx != 0 && sy != 0 {
		step := Coord{from.X + sx, from.Y + sy}
		if f.cornerBlocked(e, from, step) {
			return false
		}
	}
	return true
}
