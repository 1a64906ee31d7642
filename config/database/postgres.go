package database

import (
	"context"
	"database/sql"
	"fmt"

	"overlaysvc/pkg/logger"

	_ "github.com/lib/pq"
)

// ConnectPostgres opens the fallback relational store.
func ConnectPostgres(ctx context.Context, dsn string, p RetryPolicy) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := pingWithRetry(ctx, p, db.PingContext); err != nil {
		db.Close()
		return nil, err
	}

	logger.Sugar.Info("Successfully connected to the database")
	return db, nil
}
