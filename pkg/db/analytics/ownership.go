package analytics

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	analyticsmodels "github.com/suiwatch/suix/pkg/db/models/analytics"
)

// initOwnership creates the ownership table. ReplacingMergeTree keyed
// by the full record identity makes checkpoint re-delivery idempotent
// at the storage layer.
func (db *DB) initOwnership(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS "%s"."%s" (
			%s
		) ENGINE = ReplacingMergeTree(checkpoint)
		ORDER BY (checkpoint, object_id, version, object_status)
	`, db.Name, analyticsmodels.OwnershipTableName,
		analyticsmodels.ColumnsToSchemaSQL(analyticsmodels.OwnershipColumns))

	if err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", analyticsmodels.OwnershipTableName, err)
	}
	return nil
}

// InsertOwnership persists a drained batch of ownership entries.
func (db *DB) InsertOwnership(ctx context.Context, entries []*analyticsmodels.OwnershipEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO "%s"."%s" (%s) VALUES`,
		db.Name, analyticsmodels.OwnershipTableName,
		strings.Join(analyticsmodels.ColumnsToNameList(analyticsmodels.OwnershipColumns), ", "))

	batch, err := db.PrepareBatch(ctx, query)
	if err != nil {
		return err
	}
	defer func(batch driver.Batch) {
		_ = batch.Abort()
	}(batch)

	for _, e := range entries {
		err = batch.Append(
			e.ObjectID,
			e.Version,
			e.Checkpoint,
			e.Epoch,
			e.TimestampMs,
			e.OwnerType,
			e.OwnerAddress,
			e.ObjectStatus,
			e.PreviousTransaction,
			e.CoinType,
			e.CoinBalance,
			e.PreviousOwner,
			e.PreviousVersion,
			e.PreviousCheckpoint,
			e.PreviousCoinType,
			e.PreviousType,
		)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}
