package storage_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/internal/storage"
)

// openTestDB returns an in-memory SQLite connection with the production
// schema. Each test gets its own database, closed when the test finishes.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", name)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("openTestDB: sql.Open: %v", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: ping: %v", err)
	}
	if err := storage.EnsureSchema(context.Background(), conn, storage.SQLiteDialect()); err != nil {
		conn.Close()
		t.Fatalf("openTestDB: schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

func newTestClient(t *testing.T, batchSize int) (*storage.SQLClient, *sql.DB) {
	t.Helper()
	conn := openTestDB(t)
	return storage.NewSQLClient(conn, storage.SQLiteDialect(), batchSize), conn
}

func countRows(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM search_logs`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func logAt(email, createTime, text string) models.SearchLog {
	return models.SearchLog{
		CreateTime:   createTime,
		EmailAddr:    email,
		SearchText:   text,
		Description:  "archive search",
		SearchReason: "investigation",
		Source:       "archive",
		SearchPath:   "/",
	}
}
