// pathfind loads world tile data and answers one movement query: a full
// route (default), a single-step check (-check) or a scripted move (-script).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/l1jgo/pathfind/internal/config"
	"github.com/l1jgo/pathfind/internal/data"
	"github.com/l1jgo/pathfind/internal/pathfind"
	"github.com/l1jgo/pathfind/internal/persist"
	"github.com/l1jgo/pathfind/internal/scripting"
	"github.com/l1jgo/pathfind/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type query struct {
	entity pathfind.Entity
	tx, ty int32
	check  bool
	script bool
	walk   bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Output helpers ────────────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	valStr := fmt.Sprint(value)
	dotsLen := 42 - len(label) - len(valStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), valStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printFail(msg string) {
	fmt.Printf("  \033[31m✗\033[0m %s\n", msg)
}

// ── Main logic ────────────────────────────────────────────────────

func run(args []string) error {
	fs := flag.NewFlagSet("pathfind", flag.ContinueOnError)
	cfgPath := fs.String("config", os.Getenv("PATHFIND_CONFIG"), "config file (TOML); built-in defaults when empty")
	region := fs.Int("region", 0, "region id")
	x := fs.Int("x", 0, "entity x")
	y := fs.Int("y", 0, "entity y")
	z := fs.Int("z", 0, "entity layer")
	tx := fs.Int("tx", 0, "target x")
	ty := fs.Int("ty", 0, "target y")
	check := fs.Bool("check", false, "only check a direct move (no search)")
	script := fs.Bool("script", false, "ask the Lua plan_move script for the next move")
	walk := fs.Bool("walk", false, "walk the found route step by step")
	if err := fs.Parse(args); err != nil {
		return err
	}
	q := query{
		entity: pathfind.Entity{Region: int32(*region), X: int32(*x), Y: int32(*y), Z: int32(*z)},
		tx:     int32(*tx),
		ty:     int32(*ty),
		check:  *check,
		script: *script,
		walk:   *walk,
	}

	// 1. Load config
	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Load tile data
	printSection("Map data")
	maps, err := loadMaps(cfg, log)
	if err != nil {
		return err
	}
	printStat("Regions", maps.Count())
	if maps.GetInfo(q.entity.Region) == nil {
		log.Warn("region not loaded; every tile reads as absent", zap.Int32("region", q.entity.Region))
	}

	// 4. Build the finder
	heuristic, err := pathfind.ParseHeuristic(cfg.Pathfind.Heuristic)
	if err != nil {
		return fmt.Errorf("pathfind config: %w", err)
	}
	finder := pathfind.New(maps, log,
		pathfind.WithMaxIterations(cfg.Pathfind.MaxIterations),
		pathfind.WithHeuristic(heuristic),
	)
	fmt.Println()

	// 5. Answer the query
	printSection("Query")
	printStat("From", fmt.Sprintf("%d:%v z=%d", q.entity.Region, q.entity.Pos(), q.entity.Z))
	printStat("To", pathfind.Coord{X: q.tx, Y: q.ty})

	switch {
	case q.check:
		if finder.CanWalkTo(&q.entity, q.tx, q.ty) {
			printOK("walkable")
		} else {
			printFail("not walkable")
		}
		return nil
	case q.script:
		return runScript(cfg, finder, q, log)
	}

	start := time.Now()
	res := finder.Search(&q.entity, q.entity.Pos(), pathfind.Coord{X: q.tx, Y: q.ty})
	printStat("Expanded", res.Expanded)
	printStat("Elapsed", time.Since(start).Round(time.Microsecond))
	if res.Outcome != pathfind.Found {
		printFail("no path (" + res.Outcome.String() + ")")
		return nil
	}
	printStat("Steps", len(res.Path))
	printStat("Cost", fmt.Sprintf("%.3f", res.Path.Cost(q.entity.Pos())))
	printRoute(res.Path)

	if q.walk {
		walkRoute(world.NewMover(finder, log), q.entity, res.Path)
	}
	return nil
}

func loadMaps(cfg *config.Config, log *zap.Logger) (*data.MapDataTable, error) {
	var maps *data.MapDataTable
	var err error

	switch cfg.Map.Source {
	case config.SourceDatabase:
		maps, err = data.LoadMapList(cfg.Map.List)
		if err != nil {
			return nil, fmt.Errorf("load map list: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if _, err := db.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		n, err := persist.NewTileRepo(db).LoadAll(ctx, maps)
		if err != nil {
			return nil, fmt.Errorf("load tiles: %w", err)
		}
		printStat("Tiles (db)", n)
	default:
		maps, err = data.LoadMapList(cfg.Map.List)
		if err != nil {
			return nil, fmt.Errorf("load map list: %w", err)
		}
		n, err := maps.LoadTiles(cfg.Map.TileDir)
		if err != nil {
			return nil, fmt.Errorf("load tiles: %w", err)
		}
		printStat("Tile layers (file)", n)
	}

	if cfg.Map.StrictBounds {
		maps.SetStrictBounds(true)
		log.Info("strict bounds: out-of-map cells are impassable")
	}
	return maps, nil
}

func runScript(cfg *config.Config, finder *pathfind.Finder, q query, log *zap.Logger) error {
	engine, err := scripting.NewEngine(cfg.Scripting.Dir, finder, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()

	d := engine.PlanMove(scripting.MoveContext{Entity: q.entity, TargetX: q.tx, TargetY: q.ty})
	if d.Stay {
		printFail("script chose to stay")
		return nil
	}
	printStat("Next", d.Next)
	printStat("Heading", world.Heading(q.entity.Pos(), d.Next))
	if len(d.Route) > 0 {
		printRoute(d.Route)
	}
	return nil
}

func printRoute(path pathfind.Path) {
	cells := make([]string, len(path))
	for i, c := range path {
		cells[i] = c.String()
	}
	fmt.Printf("  %s\n", strings.Join(cells, " → "))
}

func walkRoute(m *world.Mover, e pathfind.Entity, path pathfind.Path) {
	r := m.NewRoute(path)
	for !r.Done() {
		mv, ok := r.Advance(&e)
		if !ok {
			break
		}
		fmt.Printf("  \033[90mstep\033[0m %v heading %d\n", mv.To, mv.Heading)
	}
	if r.Halted() {
		printFail(fmt.Sprintf("route halted at %v", e.Pos()))
		return
	}
	printOK(fmt.Sprintf("arrived at %v", e.Pos()))
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
