package analytics

import (
	"context"
	"fmt"

	"github.com/suiwatch/suix/pkg/db/clickhouse"
)

const cursorTableName = "ingest_cursor"
const ownershipCursor = "ownership"

// initCursor creates the cursor table holding the last fully flushed
// checkpoint per pipeline stage. The puller resumes from it after a
// restart; a failed checkpoint is re-delivered because the cursor
// only advances on successful flush.
func (db *DB) initCursor(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."%s" (
			name String,
			checkpoint UInt64,
			updated_at DateTime64(6) DEFAULT now64(6)
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY name
	`, db.Name, cursorTableName)

	if err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", cursorTableName, err)
	}
	return nil
}

// GetCursor returns the last flushed checkpoint and whether a cursor
// exists.
func (db *DB) GetCursor(ctx context.Context) (uint64, bool, error) {
	query := fmt.Sprintf(`
		SELECT checkpoint FROM "%s"."%s" FINAL
		WHERE name = ?
	`, db.Name, cursorTableName)

	var checkpoint uint64
	err := db.QueryRow(ctx, query, ownershipCursor).Scan(&checkpoint)
	if clickhouse.IsNoRows(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get cursor: %w", err)
	}
	return checkpoint, true, nil
}

// SetCursor records the last fully flushed checkpoint.
func (db *DB) SetCursor(ctx context.Context, checkpoint uint64) error {
	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (name, checkpoint) VALUES (?, ?)`, db.Name, cursorTableName)
	if err := db.Exec(ctx, query, ownershipCursor, checkpoint); err != nil {
		return fmt.Errorf("set cursor: %w", err)
	}
	return nil
}
