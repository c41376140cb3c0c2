package storage

import "database/sql"

const defaultBatchSize = 500

// SQLClient wraps direct SQL access for search logs and cursor state.
type SQLClient struct {
	db        *sql.DB
	dialect   Dialect
	batchSize int
}

// NewSQLClient wires a sql.DB opened by Open; pass a configured instance from main.
func NewSQLClient(db *sql.DB, dialect Dialect, batchSize int) *SQLClient {
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &SQLClient{db: db, dialect: dialect, batchSize: batchSize}
}

// DB exposes the underlying handle for health checks and shutdown.
func (c *SQLClient) DB() *sql.DB {
	return c.db
}
