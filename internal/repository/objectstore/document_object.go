package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"pdfvault/internal/model"
	"pdfvault/internal/repository"
	"pdfvault/internal/storage"
)

const (
	keyPrefix = "documents/"
	keySuffix = ".json"
)

// DocumentObject stores each record as one JSON object in a storage.Storage
// bucket. Object stores replace keys atomically, which gives Add and Delete
// their single-record unit of work.
type DocumentObject struct {
	store storage.Storage
	log   logrus.FieldLogger
}

// NewDocumentObject creates a repository over store.
func NewDocumentObject(store storage.Storage, log logrus.FieldLogger) *DocumentObject {
	return &DocumentObject{
		store: store,
		log:   log.WithField("component", "repository"),
	}
}

var _ repository.DocumentRepository = (*DocumentObject)(nil)

// ObjectKey maps a record name to its object key. Names are path-escaped so
// a slash in a filename never creates a pseudo-directory.
func ObjectKey(name string) string {
	return keyPrefix + url.PathEscape(name) + keySuffix
}

func (r *DocumentObject) Add(ctx context.Context, doc *model.DocumentRecord) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return repository.WriteError("add", doc.Name, err)
	}
	key := ObjectKey(doc.Name)
	log := r.log.WithFields(logrus.Fields{"document": doc.Name, "key": key})
	if _, err := r.store.Put(ctx, key, bytes.NewReader(b), storage.PutObjectOptions{
		Size:        int64(len(b)),
		ContentType: "application/json",
	}); err != nil {
		log.WithField("error", err).Error("Failed to store document")
		return repository.WriteError("add", doc.Name, err)
	}
	log.Debug("Document stored")
	return nil
}

func (r *DocumentObject) Get(ctx context.Context, name string) (*model.DocumentRecord, bool, error) {
	doc, err := r.load(ctx, ObjectKey(name))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		r.log.WithFields(logrus.Fields{"document": name, "error": err}).Error("Failed to retrieve document")
		return nil, false, repository.ReadError("get", name, err)
	}
	return doc, true, nil
}

func (r *DocumentObject) GetAll(ctx context.Context) ([]model.DocumentRecord, error) {
	objs, err := r.store.List(ctx, keyPrefix)
	if err != nil {
		r.log.WithField("error", err).Error("Failed to list documents")
		return nil, repository.ReadError("get all", "", err)
	}
	out := make([]model.DocumentRecord, 0, len(objs))
	for _, o := range objs {
		if !strings.HasSuffix(o.Key, keySuffix) {
			continue
		}
		doc, err := r.load(ctx, o.Key)
		if err != nil {
			// removed between List and Get
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return nil, repository.ReadError("get all", "", err)
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (r *DocumentObject) Delete(ctx context.Context, name string) error {
	if err := r.store.Delete(ctx, ObjectKey(name)); err != nil {
		r.log.WithFields(logrus.Fields{"document": name, "error": err}).Error("Failed to delete document")
		return repository.WriteError("delete", name, err)
	}
	r.log.WithField("document", name).Debug("Document deleted")
	return nil
}

// Ping lists the document prefix to check the bucket is reachable.
func (r *DocumentObject) Ping(ctx context.Context) error {
	_, err := r.store.List(ctx, keyPrefix)
	return err
}

func (r *DocumentObject) load(ctx context.Context, key string) (*model.DocumentRecord, error) {
	rc, _, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var doc model.DocumentRecord
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &doc, nil
}
