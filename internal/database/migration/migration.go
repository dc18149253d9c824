package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"pdfvault/internal/database"
)

// SchemaVersion is the version recorded after all steps have run.
const SchemaVersion = 1

const versionTable = "schema_version"

type migrationStep struct {
	Name string
	SQL  string
}

func steps(d database.Dialect) []migrationStep {
	sizeType := "BIGINT"
	if d.Name == database.SQLite.Name {
		sizeType = "INTEGER"
	}
	return []migrationStep{
		{
			Name: "create_table_documents",
			SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
  name          TEXT    PRIMARY KEY,
  mime_type     TEXT    NOT NULL,
  size_bytes    %[1]s  NOT NULL CHECK (size_bytes >= 0),
  last_modified %[1]s  NOT NULL,
  content       TEXT    NOT NULL
);`, sizeType),
		},
		{
			Name: "create_table_schema_version",
			SQL: `CREATE TABLE IF NOT EXISTS schema_version (
  version    INTEGER PRIMARY KEY,
  applied_at TEXT    NOT NULL
);`,
		},
	}
}

// EnsureMigrated creates the documents collection the first time the store is
// opened and records SchemaVersion. It is a no-op once the version is present.
func EnsureMigrated(ctx context.Context, db *sql.DB, d database.Dialect, log logrus.FieldLogger) error {
	start := time.Now()
	log = log.WithFields(logrus.Fields{
		"component": "database",
		"dialect":   d.Name,
	})
	log.WithField("event", "db_migration_check").Info("checking schema version")

	current, err := currentVersion(ctx, db, d)
	if err != nil {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_failed",
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Error("failed to read schema version")
		return err
	}

	if current >= SchemaVersion {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_skip",
			"version":     current,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("schema already exists, skipping migration")
		return nil
	}

	log.WithField("event", "db_migration_start").Info("migrating schema")

	for _, step := range steps(d) {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.WithFields(logrus.Fields{
				"event":            "db_migration_failed",
				"migration_step":   step.Name,
				"error":            err.Error(),
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).Error("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.WithFields(logrus.Fields{
			"event":            "db_migration_step",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Info("migration step applied")
	}

	insert := fmt.Sprintf(`INSERT INTO schema_version (version, applied_at) VALUES (%s, %s)`,
		d.Placeholder(1), d.Placeholder(2))
	if _, err := db.ExecContext(ctx, insert, SchemaVersion, time.Now().UTC().Format(time.RFC3339)); err != nil {
		log.WithFields(logrus.Fields{
			"event": "db_migration_failed",
			"error": err.Error(),
		}).Error("failed to record schema version")
		return fmt.Errorf("record schema version: %w", err)
	}

	log.WithFields(logrus.Fields{
		"event":       "db_migration_success",
		"version":     SchemaVersion,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("schema migrated")

	return nil
}

func currentVersion(ctx context.Context, db *sql.DB, d database.Dialect) (int, error) {
	var exists bool
	if err := db.QueryRowContext(ctx, d.TableExists, versionTable).Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if !exists {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}
