package pathfind

// Impassable is the tile value reserved for blocked cells. Existing world data
// uses this exact value; every other value (and a missing tile) is walkable.
const Impassable uint32 = 0x200000

// Tile is a single grid cell as reported by an Oracle.
type Tile struct {
	Value uint32
}

// Blocked reports whether the tile carries the impassable sentinel.
func (t Tile) Blocked() bool {
	return t.Value == Impassable
}

// Oracle answers what occupies a cell. ok=false means no tile exists there,
// which the engine treats as passable. Implementations must be safe for
// concurrent reads if one Finder is shared between goroutines.
type Oracle interface {
	Tile(region, x, y, z int32) (tile Tile, ok bool)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(region, x, y, z int32) (Tile, bool)

func (f OracleFunc) Tile(region, x, y, z int32) (Tile, bool) {
	return f(region, x, y, z)
}

// Entity is the mover a search runs for. Region and Z select the layer every
// tile lookup of one call uses.
type Entity struct {
	Region int32
	X, Y   int32
	Z      int32
}

// Pos returns the entity's current cell.
func (e *Entity) Pos() Coord {
	return Coord{X: e.X, Y: e.Y}
}
