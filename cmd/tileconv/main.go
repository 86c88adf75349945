// tileconv imports tile text files into the map_tiles table.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/l1jgo/pathfind/internal/config"
	"github.com/l1jgo/pathfind/internal/data"
	"github.com/l1jgo/pathfind/internal/persist"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "Usage: tileconv <map_list.yaml> <tile_dir> [region_id ...]")
		fmt.Fprintln(os.Stderr, "  database settings come from $PATHFIND_CONFIG (TOML) or defaults")
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2], os.Args[3:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(listPath, tileDir string, only []string) error {
	cfg := config.Default()
	if p := os.Getenv("PATHFIND_CONFIG"); p != "" {
		var err error
		if cfg, err = config.Load(p); err != nil {
			return err
		}
	}

	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	maps, err := data.LoadMapData(listPath, tileDir)
	if err != nil {
		return err
	}

	regions, err := selectRegions(maps, only)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.RunMigrations(ctx); err != nil {
		return err
	}

	repo := persist.NewTileRepo(db)
	var total int64
	for _, id := range regions {
		n, err := repo.SaveRegion(ctx, maps, id)
		if err != nil {
			return err
		}
		fmt.Printf("region %d: %d tiles\n", id, n)
		total += n
	}

	fmt.Printf("Wrote %d tiles for %d regions\n", total, len(regions))
	return nil
}

// selectRegions returns the requested region ids, or every loaded region
// sorted by id when none were given.
func selectRegions(maps *data.MapDataTable, only []string) ([]int32, error) {
	if len(only) == 0 {
		var ids []int32
		for _, info := range maps.Regions() {
			ids = append(ids, info.MapID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return ids, nil
	}

	ids := make([]int32, 0, len(only))
	for _, s := range only {
		id, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad region id %q: %w", s, err)
		}
		if maps.GetInfo(int32(id)) == nil {
			return nil, fmt.Errorf("region %d not in map list", id)
		}
		ids = append(ids, int32(id))
	}
	return ids, nil
}
