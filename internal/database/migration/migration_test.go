package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfvault/internal/database"
	"pdfvault/internal/logging"
)

func TestEnsureMigrated_FreshDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) > 0 FROM sqlite_master").
		WithArgs("schema_version").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_version").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_version").
		WithArgs(SchemaVersion, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = EnsureMigrated(context.Background(), db, database.SQLite, logging.Discard())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_AlreadyMigrated(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT to_regclass").
		WithArgs("schema_version").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT MAX\\(version\\) FROM schema_version").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(1))

	err = EnsureMigrated(context.Background(), db, database.Postgres, logging.Discard())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureMigrated_Errors(t *testing.T) {
	t.Run("sentinel check fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnError(errors.New("permission denied"))

		err = EnsureMigrated(context.Background(), db, database.Postgres, logging.Discard())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check sentinel table")
	})

	t.Run("step fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
			WillReturnError(errors.New("disk full"))

		err = EnsureMigrated(context.Background(), db, database.Postgres, logging.Discard())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "migration step create_table_documents failed: disk full")
	})
}

func TestSteps_DialectTypes(t *testing.T) {
	assert.Contains(t, steps(database.Postgres)[0].SQL, "BIGINT")
	assert.Contains(t, steps(database.SQLite)[0].SQL, "INTEGER")
	assert.Contains(t, steps(database.SQLite)[0].SQL, "name          TEXT    PRIMARY KEY")
}
