package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"pdfvault/internal/database"
	"pdfvault/internal/model"
	"pdfvault/internal/repository"
)

// DocumentSQL is a database/sql implementation of repository.DocumentRepository
// for PostgreSQL and SQLite. It uses parameterized queries and contains no
// business logic. LastModified is stored as unix milliseconds.
type DocumentSQL struct {
	db  *sql.DB
	log logrus.FieldLogger

	qUpsert string
	qGet    string
	qAll    string
	qDelete string
}

// NewDocumentSQL creates a repository over an already migrated database.
func NewDocumentSQL(db *sql.DB, d database.Dialect, log logrus.FieldLogger) *DocumentSQL {
	p := d.Placeholder
	return &DocumentSQL{
		db:  db,
		log: log.WithField("component", "repository").WithField("dialect", d.Name),
		qUpsert: fmt.Sprintf(`
		INSERT INTO documents (name, mime_type, size_bytes, last_modified, content)
		VALUES (%s, %s, %s, %s, %s)
		ON CONFLICT (name) DO UPDATE SET
			mime_type = excluded.mime_type,
			size_bytes = excluded.size_bytes,
			last_modified = excluded.last_modified,
			content = excluded.content
	`, p(1), p(2), p(3), p(4), p(5)),
		qGet: fmt.Sprintf(`
		SELECT name, mime_type, size_bytes, last_modified, content
		FROM documents
		WHERE name = %s
	`, p(1)),
		qAll: `
		SELECT name, mime_type, size_bytes, last_modified, content
		FROM documents
	`,
		qDelete: fmt.Sprintf(`DELETE FROM documents WHERE name = %s`, p(1)),
	}
}

var _ repository.DocumentRepository = (*DocumentSQL)(nil)

// Add upserts the record in a single statement.
func (r *DocumentSQL) Add(ctx context.Context, doc *model.DocumentRecord) error {
	log := r.log.WithFields(logrus.Fields{
		"document":   doc.Name,
		"size_bytes": doc.SizeBytes,
	})
	_, err := r.db.ExecContext(ctx, r.qUpsert,
		doc.Name,
		doc.MimeType,
		doc.SizeBytes,
		doc.LastModified.UnixMilli(),
		doc.Content,
	)
	if err != nil {
		log.WithField("error", err).Error("Failed to store document")
		return repository.WriteError("add", doc.Name, err)
	}
	log.Debug("Document stored")
	return nil
}

// Get fetches a single record by name.
func (r *DocumentSQL) Get(ctx context.Context, name string) (*model.DocumentRecord, bool, error) {
	row := r.db.QueryRowContext(ctx, r.qGet, name)
	d, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		r.log.WithFields(logrus.Fields{"document": name, "error": err}).Error("Failed to retrieve document")
		return nil, false, repository.ReadError("get", name, err)
	}
	return d, true, nil
}

// GetAll scans the whole collection.
func (r *DocumentSQL) GetAll(ctx context.Context) ([]model.DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.qAll)
	if err != nil {
		r.log.WithField("error", err).Error("Failed to list documents")
		return nil, repository.ReadError("get all", "", err)
	}
	defer rows.Close()

	items := make([]model.DocumentRecord, 0)
	for rows.Next() {
		d, err := scanRecord(rows)
		if err != nil {
			return nil, repository.ReadError("get all", "", err)
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.ReadError("get all", "", err)
	}
	return items, nil
}

// Delete removes a record by name. A missing row is not an error.
func (r *DocumentSQL) Delete(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, r.qDelete, name); err != nil {
		r.log.WithFields(logrus.Fields{"document": name, "error": err}).Error("Failed to delete document")
		return repository.WriteError("delete", name, err)
	}
	r.log.WithField("document", name).Debug("Document deleted")
	return nil
}

// Ping checks database connectivity.
func (r *DocumentSQL) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close releases the underlying database handle.
func (r *DocumentSQL) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*model.DocumentRecord, error) {
	var (
		d  model.DocumentRecord
		ms int64
	)
	if err := s.Scan(&d.Name, &d.MimeType, &d.SizeBytes, &ms, &d.Content); err != nil {
		return nil, err
	}
	d.LastModified = time.UnixMilli(ms).UTC()
	return &d, nil
}
