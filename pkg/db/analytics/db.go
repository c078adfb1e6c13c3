package analytics

import (
	"context"
	"fmt"

	"github.com/suiwatch/suix/pkg/db/clickhouse"
	"github.com/suiwatch/suix/pkg/utils"
	"go.uber.org/zap"
)

// DB is the analytics store consuming drained ownership entries. It
// sits strictly downstream of the ingestion path: nothing in the
// classification pipeline calls into it.
type DB struct {
	clickhouse.Client
	Name string
}

// New connects to ClickHouse and ensures the analytics database and
// its tables exist.
func New(ctx context.Context, logger *zap.Logger) (*DB, error) {
	dbName := clickhouse.SanitizeName(utils.Env("ANALYTICS_DB", "suix_analytics"))

	client, err := clickhouse.New(ctx, logger.With(zap.String("db", dbName)), dbName)
	if err != nil {
		return nil, err
	}

	db := &DB{
		Client: client,
		Name:   dbName,
	}

	if err := db.InitializeDB(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// InitializeDB ensures the required database and tables exist.
func (db *DB) InitializeDB(ctx context.Context) error {
	if err := db.CreateDbIfNotExists(ctx, db.Name); err != nil {
		return fmt.Errorf("failed to create database %s: %w", db.Name, err)
	}

	if err := db.initOwnership(ctx); err != nil {
		return err
	}
	if err := db.initCursor(ctx); err != nil {
		return err
	}

	db.Logger.Info("Analytics store initialized", zap.String("database", db.Name))
	return nil
}
