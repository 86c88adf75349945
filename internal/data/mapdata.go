package data

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/l1jgo/pathfind/internal/pathfind"
	"gopkg.in/yaml.v3"
)

// MapInfo holds metadata for a single region, loaded from map_list.yaml.
type MapInfo struct {
	MapID  int32  `yaml:"map_id"`
	Name   string `yaml:"name"`
	StartX int32  `yaml:"start_x"`
	EndX   int32  `yaml:"end_x"`
	StartY int32  `yaml:"start_y"`
	EndY   int32  `yaml:"end_y"`
	Layers int32  `yaml:"layers"` // vertical layers, 0 means 1
}

// mapEntry stores tile layers + metadata for one region.
type mapEntry struct {
	info   MapInfo
	layers [][]uint32 // per z: flat array [x * height + y], row-major by X
	width  int32
	height int32
}

type tileKey struct {
	region, x, y, z int32
}

// MapDataTable holds tile data for every region and serves as the grid
// oracle for pathfinding. Reads may run concurrently with SetBlocked/SetTile.
type MapDataTable struct {
	mu      sync.RWMutex
	maps    map[int32]*mapEntry
	blocked map[tileKey]struct{} // dynamic blocks, e.g. occupied cells
	strict  bool
}

type mapListFile struct {
	Maps []MapInfo `yaml:"maps"`
}

// LoadMapData loads region metadata from YAML and tile data from text files.
// yamlPath: path to map_list.yaml
// tileDir: directory containing {mapid}.txt and {mapid}_{z}.txt tile files
func LoadMapData(yamlPath, tileDir string) (*MapDataTable, error) {
	table, err := LoadMapList(yamlPath)
	if err != nil {
		return nil, err
	}
	if _, err := table.LoadTiles(tileDir); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadMapList reads map_list.yaml and allocates empty layers for each region.
func LoadMapList(yamlPath string) (*MapDataTable, error) {
	raw, err := os.ReadFile(yamlPath)
	if err != nil {
		return nil, fmt.Errorf("read map list %s: %w", yamlPath, err)
	}
	var file mapListFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse map list: %w", err)
	}

	table := NewMapDataTable()
	for _, info := range file.Maps {
		table.AddMap(info)
	}
	return table, nil
}

// NewMapDataTable returns an empty table.
func NewMapDataTable() *MapDataTable {
	return &MapDataTable{
		maps:    make(map[int32]*mapEntry),
		blocked: make(map[tileKey]struct{}),
	}
}

// AddMap registers a region with all tiles zeroed. Regions with empty bounds
// are ignored. Returns false when the region was skipped.
func (t *MapDataTable) AddMap(info MapInfo) bool {
	width := info.EndX - info.StartX + 1
	height := info.EndY - info.StartY + 1
	if width <= 0 || height <= 0 {
		return false
	}
	if info.Layers <= 0 {
		info.Layers = 1
	}
	layers := make([][]uint32, info.Layers)
	for z := range layers {
		layers[z] = make([]uint32, int(width)*int(height))
	}

	t.mu.Lock()
	t.maps[info.MapID] = &mapEntry{info: info, layers: layers, width: width, height: height}
	t.mu.Unlock()
	return true
}

// SetStrictBounds makes out-of-bounds cells report as impassable instead of
// absent. Off by default: world data has always treated them as walkable.
func (t *MapDataTable) SetStrictBounds(strict bool) {
	t.mu.Lock()
	t.strict = strict
	t.mu.Unlock()
}

// LoadTiles fills every registered region from tileDir. Missing files are
// skipped. Returns the number of layer files read.
func (t *MapDataTable) LoadTiles(tileDir string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	loaded := 0
	for id, e := range t.maps {
		for z := range e.layers {
			path := tileFilePath(tileDir, id, int32(z))
			err := readTileFile(path, e.width, e.height, e.layers[z])
			if errors.Is(err, os.ErrNotExist) {
				// Map file missing is non-fatal
				continue
			}
			if err != nil {
				return loaded, fmt.Errorf("load tiles %s: %w", path, err)
			}
			loaded++
		}
	}
	return loaded, nil
}

func tileFilePath(dir string, mapID, z int32) string {
	name := strconv.Itoa(int(mapID))
	if z > 0 {
		name += "_" + strconv.Itoa(int(z))
	}
	return filepath.Join(dir, name+".txt")
}

// readTileFile reads a CSV tile file: each line is a row of comma-separated
// values, decimal or 0x-prefixed hex. File rows = Y lines, columns = X values.
func readTileFile(path string, xSize, ySize int32, dst []uint32) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Large maps produce long lines
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	y := int32(0)
	for scanner.Scan() && y < ySize {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		x := int32(0)
		for _, tok := range strings.Split(line, ",") {
			if x >= xSize {
				break
			}
			val, err := strconv.ParseUint(strings.TrimSpace(tok), 0, 32)
			if err != nil {
				val = 0
			}
			dst[int(x)*int(ySize)+int(y)] = uint32(val)
			x++
		}
		y++
	}

	return scanner.Err()
}

// Count returns the number of regions loaded.
func (t *MapDataTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.maps)
}

// GetInfo returns metadata for a region, or nil if not found.
func (t *MapDataTable) GetInfo(mapID int32) *MapInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e := t.maps[mapID]
	if e == nil {
		return nil
	}
	info := e.info
	return &info
}

// Regions returns metadata for every region.
func (t *MapDataTable) Regions() []MapInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]MapInfo, 0, len(t.maps))
	for _, e := range t.maps {
		out = append(out, e.info)
	}
	return out
}

// index returns the flat offset of (x,y) in a layer, or -1 when out of bounds.
func (e *mapEntry) index(x, y, z int32) int {
	if z < 0 || int(z) >= len(e.layers) {
		return -1
	}
	lx := x - e.info.StartX
	ly := y - e.info.StartY
	if lx < 0 || lx >= e.width || ly < 0 || ly >= e.height {
		return -1
	}
	return int(lx)*int(e.height) + int(ly)
}

// Tile implements pathfind.Oracle.
func (t *MapDataTable) Tile(region, x, y, z int32) (pathfind.Tile, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e := t.maps[region]
	idx := -1
	if e != nil {
		idx = e.index(x, y, z)
	}
	if idx < 0 {
		if t.strict {
			return pathfind.Tile{Value: pathfind.Impassable}, true
		}
		return pathfind.Tile{}, false
	}
	if _, ok := t.blocked[tileKey{region, x, y, z}]; ok {
		return pathfind.Tile{Value: pathfind.Impassable}, true
	}
	return pathfind.Tile{Value: e.layers[z][idx]}, true
}

// IsInMap checks if world coordinates are within a region's bounds and layers.
func (t *MapDataTable) IsInMap(region, x, y, z int32) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e := t.maps[region]
	return e != nil && e.index(x, y, z) >= 0
}

// SetTile writes a stored tile value. Returns false when out of bounds.
func (t *MapDataTable) SetTile(region, x, y, z int32, value uint32) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.maps[region]
	if e == nil {
		return false
	}
	idx := e.index(x, y, z)
	if idx < 0 {
		return false
	}
	e.layers[z][idx] = value
	return true
}

// SetBlocked sets or clears the dynamic block on a cell. The stored tile value
// is left alone and reappears once the block is cleared.
func (t *MapDataTable) SetBlocked(region, x, y, z int32, blocked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.maps[region]
	if e == nil || e.index(x, y, z) < 0 {
		return
	}
	key := tileKey{region, x, y, z}
	if blocked {
		t.blocked[key] = struct{}{}
	} else {
		delete(t.blocked, key)
	}
}

// ForEachTile calls fn for every stored non-zero tile of a region. Dynamic
// blocks are not included. fn must not write to the table.
func (t *MapDataTable) ForEachTile(region int32, fn func(x, y, z int32, value uint32)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e := t.maps[region]
	if e == nil {
		return
	}
	for z, layer := range e.layers {
		for i, v := range layer {
			if v == 0 {
				continue
			}
			lx := int32(i) / e.height
			ly := int32(i) % e.height
			fn(e.info.StartX+lx, e.info.StartY+ly, int32(z), v)
		}
	}
}
