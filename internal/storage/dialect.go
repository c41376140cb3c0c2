package storage

// Dialect holds the statements that differ between the supported engines.
// Everything else in this package is portable SQL.
type Dialect struct {
	Name            string
	Schema          []string
	InsertSearchLog string
	UpsertKV        string
}

var sqliteDialect = Dialect{
	Name: "sqlite",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS search_logs (
			id TEXT PRIMARY KEY,
			create_time TEXT NOT NULL,
			email_addr TEXT NOT NULL,
			search_text TEXT,
			muse_query TEXT,
			description TEXT,
			search_reason TEXT,
			source TEXT,
			is_admin INTEGER,
			search_path TEXT,
			raw_json TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_logs_email_time ON search_logs(email_addr, create_time)`,
		`CREATE INDEX IF NOT EXISTS idx_search_logs_time ON search_logs(create_time)`,
		`CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT
		)`,
	},
	InsertSearchLog: `
		INSERT OR IGNORE INTO search_logs (
			id, create_time, email_addr, search_text, muse_query, description,
			search_reason, source, is_admin, search_path, raw_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	UpsertKV: `INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes are declared inline.
var mysqlDialect = Dialect{
	Name: "mysql",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS search_logs (
			id CHAR(64) NOT NULL PRIMARY KEY,
			create_time VARCHAR(40) NOT NULL,
			email_addr VARCHAR(320) NOT NULL,
			search_text TEXT,
			muse_query TEXT,
			description TEXT,
			search_reason TEXT,
			source VARCHAR(255),
			is_admin TINYINT(1),
			search_path TEXT,
			raw_json LONGTEXT,
			INDEX idx_search_logs_email_time (email_addr(191), create_time),
			INDEX idx_search_logs_time (create_time)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS kv (
			k VARCHAR(191) NOT NULL PRIMARY KEY,
			v TEXT
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	InsertSearchLog: `
		INSERT IGNORE INTO search_logs (
			id, create_time, email_addr, search_text, muse_query, description,
			search_reason, source, is_admin, search_path, raw_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	UpsertKV: `INSERT INTO kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
}

// SQLiteDialect returns the statements for modernc.org/sqlite.
func SQLiteDialect() Dialect { return sqliteDialect }

// MySQLDialect returns the statements for go-sql-driver/mysql.
func MySQLDialect() Dialect { return mysqlDialect }
