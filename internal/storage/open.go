package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/dhima/searchlog-poller/pkg/config"
)

// Options selects and locates the backing database.
type Options struct {
	Driver string // "sqlite" | "mysql"
	Path   string // sqlite file, e.g. "/data/searchlogs.db"
	DSN    string // mysql DSN
}

// Open connects to the configured database, verifies the connection and
// creates the schema if absent.
func Open(ctx context.Context, opts Options) (*sql.DB, Dialect, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch opts.Driver {
	case config.DriverSQLite, "":
		db, err = openSQLite(opts.Path)
		dialect = sqliteDialect
	case config.DriverMySQL:
		db, err = openMySQL(opts.DSN)
		dialect = mysqlDialect
	default:
		return nil, Dialect{}, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, Dialect{}, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, Dialect{}, fmt.Errorf("db ping: %w", err)
	}

	if err := EnsureSchema(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, Dialect{}, err
	}

	return db, dialect, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = "/data/searchlogs.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	// WAL lets dashboard readers proceed while the poller commits a batch;
	// busy_timeout absorbs the short write-lock waits.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(0)
	return db, nil
}

func openMySQL(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("mysql driver requires a DSN")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)

	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(20)
	db.SetConnMaxLifetime(60 * time.Minute)
	return db, nil
}

// EnsureSchema creates tables and indexes that do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s schema: %w", dialect.Name, err)
		}
	}
	return nil
}
