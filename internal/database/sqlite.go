package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"pdfvault/internal/config"
)

// BuildSQLiteDSN constructs a go-sqlite3 DSN for the given file.
// Example: file:data/pdfvault.db?_busy_timeout=5000&_journal_mode=WAL
func BuildSQLiteDSN(c config.SQLiteConfig) (string, error) {
	if c.Path == "" {
		return "", fmt.Errorf("invalid sqlite config: path is required")
	}
	q := url.Values{}
	if c.BusyTimeoutMs > 0 {
		q.Set("_busy_timeout", strconv.Itoa(c.BusyTimeoutMs))
	}
	q.Set("_journal_mode", "WAL")
	return "file:" + c.Path + "?" + q.Encode(), nil
}

// NewSQLite opens (and creates if missing) the SQLite database file.
// SQLite allows a single writer, so the pool is limited to one connection.
func NewSQLite(c config.SQLiteConfig) (*sql.DB, error) {
	dsn, err := BuildSQLiteDSN(c)
	if err != nil {
		return nil, err
	}
	if dir := filepath.Dir(c.Path); dir != "" && c.Path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := openInstrumented("sqlite3", dsn, semconv.DBSystemSqlite)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := ping(db); err != nil {
		return nil, err
	}
	return db, nil
}
