package memory

import (
	"context"
	"sync"

	"pdfvault/internal/model"
	"pdfvault/internal/repository"
)

// DocumentMemory keeps records in a process-local map. Records are copied on
// the way in and out so callers never share state with the store.
type DocumentMemory struct {
	mu   sync.RWMutex
	docs map[string]model.DocumentRecord
}

// NewDocumentMemory creates an empty in-memory repository.
func NewDocumentMemory() *DocumentMemory {
	return &DocumentMemory{docs: make(map[string]model.DocumentRecord)}
}

var _ repository.DocumentRepository = (*DocumentMemory)(nil)

func (r *DocumentMemory) Add(ctx context.Context, doc *model.DocumentRecord) error {
	if err := ctx.Err(); err != nil {
		return repository.WriteError("add", doc.Name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.Name] = *doc
	return nil
}

func (r *DocumentMemory) Get(ctx context.Context, name string) (*model.DocumentRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, repository.ReadError("get", name, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[name]
	if !ok {
		return nil, false, nil
	}
	return &d, true, nil
}

func (r *DocumentMemory) GetAll(ctx context.Context) ([]model.DocumentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, repository.ReadError("get all", "", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.DocumentRecord, 0, len(r.docs))
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *DocumentMemory) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return repository.WriteError("delete", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, name)
	return nil
}

// Ping always succeeds.
func (r *DocumentMemory) Ping(context.Context) error { return nil }
