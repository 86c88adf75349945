package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/l1jgo/pathfind/internal/data"
	"go.uber.org/zap"
)

// TileRepo stores region tile layers in the map_tiles table. Only non-zero
// tiles are stored; a missing row reads back as 0.
type TileRepo struct {
	db *DB
}

func NewTileRepo(db *DB) *TileRepo {
	return &TileRepo{db: db}
}

// SaveRegion replaces every stored tile of a region with the table's current
// contents. Returns the number of rows written.
func (r *TileRepo) SaveRegion(ctx context.Context, table *data.MapDataTable, region int32) (int64, error) {
	var rows [][]any
	table.ForEachTile(region, func(x, y, z int32, value uint32) {
		rows = append(rows, []any{region, x, y, z, int64(value)})
	})

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("tiles begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM map_tiles WHERE region_id = $1`, region); err != nil {
		return 0, fmt.Errorf("tiles clear region %d: %w", region, err)
	}
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"map_tiles"},
		[]string{"region_id", "x", "y", "z", "value"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("tiles copy region %d: %w", region, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("tiles commit: %w", err)
	}

	r.db.log.Debug("region tiles saved", zap.Int32("region", region), zap.Int64("rows", n))
	return n, nil
}

// LoadRegion fills a region already registered in table from the database.
// Rows outside the region's bounds are counted as skipped.
func (r *TileRepo) LoadRegion(ctx context.Context, table *data.MapDataTable, region int32) (loaded, skipped int, err error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT x, y, z, value FROM map_tiles WHERE region_id = $1`, region,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("tiles query region %d: %w", region, err)
	}
	defer rows.Close()

	for rows.Next() {
		var x, y, z int32
		var value int64
		if err := rows.Scan(&x, &y, &z, &value); err != nil {
			return loaded, skipped, fmt.Errorf("tiles scan: %w", err)
		}
		if table.SetTile(region, x, y, z, uint32(value)) {
			loaded++
		} else {
			skipped++
		}
	}
	if err := rows.Err(); err != nil {
		return loaded, skipped, fmt.Errorf("tiles rows: %w", err)
	}
	return loaded, skipped, nil
}

// LoadAll fills every region registered in table.
func (r *TileRepo) LoadAll(ctx context.Context, table *data.MapDataTable) (int, error) {
	total := 0
	for _, info := range table.Regions() {
		n, skipped, err := r.LoadRegion(ctx, table, info.MapID)
		if err != nil {
			return total, err
		}
		if skipped > 0 {
			r.db.log.Warn("tiles outside region bounds ignored",
				zap.Int32("region", info.MapID), zap.Int("skipped", skipped))
		}
		total += n
	}
	return total, nil
}
