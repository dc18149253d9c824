package database

import "strconv"

// Dialect captures the SQL differences between the supported engines.
type Dialect struct {
	Name string
	// Placeholder returns the bind parameter for 1-based position n.
	Placeholder func(n int) string
	// TableExists is a query with one bind parameter (the table name)
	// returning a single boolean-compatible column.
	TableExists string
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		TableExists: `SELECT to_regclass('public.' || $1) IS NOT NULL`,
	}
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: func(int) string { return "?" },
		TableExists: `SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = ?`,
	}
)
