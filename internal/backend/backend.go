// Package backend opens the document repository selected by configuration.
package backend

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"pdfvault/internal/config"
	"pdfvault/internal/database"
	"pdfvault/internal/database/migration"
	"pdfvault/internal/repository"
	"pdfvault/internal/repository/memory"
	"pdfvault/internal/repository/objectstore"
	"pdfvault/internal/repository/sqlstore"
	"pdfvault/internal/storage"
)

var (
	newPostgres = database.NewPostgres
	newSQLite   = database.NewSQLite
)

func noopClose() error { return nil }

// Open initializes the configured backend: it opens or creates the container,
// runs the schema migration where one applies and returns a ready repository
// with its close function. Any failure matches repository.ErrInitialization.
func Open(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (repository.DocumentRepository, func() error, error) {
	fields := logrus.Fields{"backend": cfg.Backend}

	var (
		repo    repository.DocumentRepository
		closeFn = noopClose
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		fields["db_host"] = cfg.Database.Host
		db, err := newPostgres(cfg.Database)
		if err != nil {
			return nil, nil, repository.InitError("open postgres", err)
		}
		r, err := openSQL(ctx, db, database.Postgres, log)
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = r, r.Close
	case config.BackendSQLite:
		fields["sqlite_path"] = cfg.SQLite.Path
		db, err := newSQLite(cfg.SQLite)
		if err != nil {
			return nil, nil, repository.InitError("open sqlite", err)
		}
		r, err := openSQL(ctx, db, database.SQLite, log)
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = r, r.Close
	case config.BackendMinIO:
		fields["bucket"] = cfg.MinIO.Bucket
		s, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, nil, repository.InitError("open minio", err)
		}
		repo = objectstore.NewDocumentObject(s, log)
	case config.BackendS3:
		fields["bucket"] = cfg.S3.Bucket
		s, err := storage.NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, nil, repository.InitError("open s3", err)
		}
		repo = objectstore.NewDocumentObject(s, log)
	case config.BackendFilesystem:
		fields["root"] = cfg.Filesystem.Root
		s, err := storage.NewFilesystem(cfg.Filesystem.Root)
		if err != nil {
			return nil, nil, repository.InitError("open filesystem", err)
		}
		repo = objectstore.NewDocumentObject(s, log)
	case config.BackendMemory, "":
		fields["backend"] = config.BackendMemory
		repo = memory.NewDocumentMemory()
	default:
		return nil, nil, repository.InitError("open", errUnknownBackend(cfg.Backend))
	}

	log.WithFields(fields).Info("Use storage")
	return repo, closeFn, nil
}

func openSQL(ctx context.Context, db *sql.DB, d database.Dialect, log logrus.FieldLogger) (*sqlstore.DocumentSQL, error) {
	if err := migration.EnsureMigrated(ctx, db, d, log); err != nil {
		_ = db.Close()
		return nil, repository.InitError("migrate "+d.Name, err)
	}
	return sqlstore.NewDocumentSQL(db, d, log), nil
}

type errUnknownBackend string

func (e errUnknownBackend) Error() string {
	return "unknown backend " + string(e)
}
