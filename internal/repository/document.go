package repository

import (
	"context"

	"pdfvault/internal/model"
)

// DocumentRepository is the document store: a keyed collection of
// DocumentRecords where the record name is the primary key.
// Every method is an independent atomic unit of work. Implementations are
// returned ready to use by their constructors.
type DocumentRepository interface {
	// Add inserts the record or replaces the record with the same name.
	// A failed Add leaves any previous record for that name unchanged.
	Add(ctx context.Context, doc *model.DocumentRecord) error

	// Get returns the record stored under name. A missing record is reported
	// with found == false and a nil error.
	Get(ctx context.Context, name string) (doc *model.DocumentRecord, found bool, err error)

	// GetAll returns every stored record. Order is unspecified.
	GetAll(ctx context.Context) ([]model.DocumentRecord, error)

	// Delete removes the record stored under name. Deleting a missing name
	// succeeds.
	Delete(ctx context.Context, name string) error
}

// Pinger is implemented by repositories that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TotalSize sums SizeBytes over a snapshot returned by GetAll.
func TotalSize(docs []model.DocumentRecord) int64 {
	var total int64
	for _, d := range docs {
		total += d.SizeBytes
	}
	return total
}
