package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/pathfind/internal/pathfind"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for movement scripts.
// Single-goroutine access only.
type Engine struct {
	vm     *lua.LState
	finder *pathfind.Finder
	log    *zap.Logger
}

// NewEngine creates a Lua engine bound to finder and loads all scripts from
// the core and ai subdirectories of scriptsDir.
func NewEngine(scriptsDir string, finder *pathfind.Finder, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("IMPASSABLE", lua.LNumber(pathfind.Impassable))

	e := &Engine{vm: vm, finder: finder, log: log}
	vm.SetGlobal("find_path", vm.NewFunction(e.luaFindPath))
	vm.SetGlobal("can_walk_to", vm.NewFunction(e.luaCanWalkTo))

	for _, sub := range []string{"core", "ai"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// checkEntity reads (region, x, y, z) from the first four Lua arguments.
func checkEntity(L *lua.LState) *pathfind.Entity {
	return &pathfind.Entity{
		Region: int32(L.CheckInt(1)),
		X:      int32(L.CheckInt(2)),
		Y:      int32(L.CheckInt(3)),
		Z:      int32(L.CheckInt(4)),
	}
}

// luaFindPath: find_path(region, x, y, z, tx, ty) -> { {x=,y=}, ... }
func (e *Engine) luaFindPath(L *lua.LState) int {
	ent := checkEntity(L)
	tx, ty := int32(L.CheckInt(5)), int32(L.CheckInt(6))

	path := e.finder.FindPath(ent, ent.X, ent.Y, tx, ty)
	L.Push(pathToTable(L, path))
	return 1
}

// luaCanWalkTo: can_walk_to(region, x, y, z, tx, ty) -> bool
func (e *Engine) luaCanWalkTo(L *lua.LState) int {
	ent := checkEntity(L)
	tx, ty := int32(L.CheckInt(5)), int32(L.CheckInt(6))

	L.Push(lua.LBool(e.finder.CanWalkTo(ent, tx, ty)))
	return 1
}

func pathToTable(L *lua.LState, path pathfind.Path) *lua.LTable {
	t := L.CreateTable(len(path), 0)
	for _, c := range path {
		cell := L.CreateTable(0, 2)
		cell.RawSetString("x", lua.LNumber(c.X))
		cell.RawSetString("y", lua.LNumber(c.Y))
		t.Append(cell)
	}
	return t
}

func tableToPath(t *lua.LTable) pathfind.Path {
	var path pathfind.Path
	t.ForEach(func(_, v lua.LValue) {
		cell, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		path = append(path, pathfind.Coord{
			X: int32(lua.LVAsNumber(cell.RawGetString("x"))),
			Y: int32(lua.LVAsNumber(cell.RawGetString("y"))),
		})
	})
	return path
}

// MoveContext is what a script sees when deciding a move.
type MoveContext struct {
	Entity  pathfind.Entity
	TargetX int32
	TargetY int32
}

// MoveDecision is returned by the Lua plan_move function. Stay is true when
// the script chose not to move or failed.
type MoveDecision struct {
	Stay  bool
	Next  pathfind.Coord
	Route pathfind.Path // optional full route chosen by the script
}

// PlanMove calls the Lua plan_move function. Scripts return nil to stay put,
// or {x=, y=[, path={...}]} naming the next cell.
func (e *Engine) PlanMove(ctx MoveContext) MoveDecision {
	stay := MoveDecision{Stay: true}

	fn := e.vm.GetGlobal("plan_move")
	if fn == lua.LNil {
		e.log.Error("lua function plan_move not found")
		return stay
	}

	t := e.vm.NewTable()
	t.RawSetString("region", lua.LNumber(ctx.Entity.Region))
	t.RawSetString("x", lua.LNumber(ctx.Entity.X))
	t.RawSetString("y", lua.LNumber(ctx.Entity.Y))
	t.RawSetString("z", lua.LNumber(ctx.Entity.Z))
	t.RawSetString("target_x", lua.LNumber(ctx.TargetX))
	t.RawSetString("target_y", lua.LNumber(ctx.TargetY))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua plan_move error", zap.Error(err))
		return stay
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	if result == lua.LNil {
		return stay
	}
	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua plan_move returned non-table", zap.String("type", result.Type().String()))
		return stay
	}

	d := MoveDecision{
		Next: pathfind.Coord{
			X: int32(lua.LVAsNumber(rt.RawGetString("x"))),
			Y: int32(lua.LVAsNumber(rt.RawGetString("y"))),
		},
	}
	if pt, ok := rt.RawGetString("path").(*lua.LTable); ok {
		d.Route = tableToPath(pt)
	}
	return d
}
