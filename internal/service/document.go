package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"pdfvault/internal/datauri"
	"pdfvault/internal/logging"
	"pdfvault/internal/model"
	"pdfvault/internal/repository"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrNotFound     = errors.New("document not found")
	ErrReaderNil    = errors.New("reader is nil")
	ErrNotPDF       = errors.New("please select a PDF file")
	ErrTooLarge     = errors.New("file exceeds upload limit")
)

const (
	defaultMaxUploadBytes = 64 << 20
	defaultUsageWarnBytes = 50 << 20
)

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload validates a PDF, encodes it as a data URI and stores it under
	// its filename, replacing any document with the same name.
	Upload(ctx context.Context, r io.Reader, filename, contentType string, lastModified time.Time) (*model.DocumentRecord, error)

	// List returns summaries of every stored document sorted by name.
	List(ctx context.Context) ([]model.DocumentSummary, error)

	// Get returns a single document by name.
	Get(ctx context.Context, name string) (*model.DocumentRecord, error)

	// Content returns the decoded bytes of a document and its media type.
	Content(ctx context.Context, name string) (*Content, error)

	// Delete removes a document by name. Deleting a missing name succeeds.
	// The selection is cleared when it pointed at the deleted document.
	Delete(ctx context.Context, name string) error

	// Usage recomputes aggregate storage usage from a full scan.
	Usage(ctx context.Context) (*model.Usage, error)

	// Select makes name the current document.
	Select(ctx context.Context, name string) (*model.DocumentRecord, error)

	// Selected returns the current document, if any.
	Selected() (*model.DocumentRecord, bool)

	// ClearSelection drops the current document.
	ClearSelection()
}

// Content is a decoded document ready to be served.
type Content struct {
	Name      string
	MediaType string
	Data      []byte
}

// Option configures a document service.
type Option func(*documentService)

// WithMaxUploadBytes limits the size of a single upload.
func WithMaxUploadBytes(n int64) Option {
	return func(s *documentService) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithUsageWarnBytes sets the threshold above which Usage reports NearLimit.
func WithUsageWarnBytes(n int64) Option {
	return func(s *documentService) {
		if n > 0 {
			s.usageWarnBytes = n
		}
	}
}

// WithMetrics publishes usage snapshots to m.
func WithMetrics(m *Metrics) Option {
	return func(s *documentService) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *documentService) { s.log = l }
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	repo           repository.DocumentRepository
	selection      Selection
	metrics        *Metrics
	log            logrus.FieldLogger
	maxUploadBytes int64
	usageWarnBytes int64
	now            func() time.Time
}

// NewDocumentService constructs a new DocumentService over a ready repository.
func NewDocumentService(repo repository.DocumentRepository, opts ...Option) DocumentService {
	s := &documentService{
		repo:           repo,
		log:            logging.Discard(),
		maxUploadBytes: defaultMaxUploadBytes,
		usageWarnBytes: defaultUsageWarnBytes,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "service")
	return s
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, filename, contentType string, lastModified time.Time) (*model.DocumentRecord, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	name := strings.TrimSpace(filename)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !isPDF(contentType) {
		return nil, ErrNotPDF
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, ErrTooLarge
	}

	if lastModified.IsZero() {
		lastModified = s.now()
	}
	doc := &model.DocumentRecord{
		Name:         name,
		MimeType:     model.PDFMimeType,
		SizeBytes:    int64(len(data)),
		LastModified: time.UnixMilli(lastModified.UnixMilli()).UTC(),
		Content:      datauri.Encode(model.PDFMimeType, data),
	}
	if err := s.repo.Add(ctx, doc); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	s.selection.ReplaceIf(*doc)
	s.log.WithFields(logrus.Fields{"document": name, "size_bytes": doc.SizeBytes}).Info("Document uploaded")
	s.refreshUsage(ctx)
	return doc, nil
}

func (s *documentService) List(ctx context.Context) ([]model.DocumentSummary, error) {
	docs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *documentService) Get(ctx context.Context, name string) (*model.DocumentRecord, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	doc, found, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *documentService) Content(ctx context.Context, name string) (*Content, error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	mt, data, err := datauri.Decode(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("decode content of %q: %w", name, err)
	}
	return &Content{Name: doc.Name, MediaType: mt, Data: data}, nil
}

func (s *documentService) Delete(ctx context.Context, name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if err := s.repo.Delete(ctx, name); err != nil {
		return err
	}
	if s.selection.ClearIf(name) {
		s.log.WithField("document", name).Debug("Selection cleared")
	}
	s.log.WithField("document", name).Info("Document deleted")
	s.refreshUsage(ctx)
	return nil
}

func (s *documentService) Usage(ctx context.Context) (*model.Usage, error) {
	docs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	total := repository.TotalSize(docs)
	u := model.Usage{
		Documents:  len(docs),
		TotalBytes: total,
		UsageMB:    fmt.Sprintf("%.2f", float64(total)/(1024*1024)),
		NearLimit:  total > s.usageWarnBytes,
	}
	s.metrics.observe(u)
	return &u, nil
}

func (s *documentService) Select(ctx context.Context, name string) (*model.DocumentRecord, error) {
	doc, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	s.selection.Set(*doc)
	return doc, nil
}

func (s *documentService) Selected() (*model.DocumentRecord, bool) {
	doc, ok := s.selection.Current()
	if !ok {
		return nil, false
	}
	return &doc, true
}

func (s *documentService) ClearSelection() {
	s.selection.Clear()
}

// refreshUsage keeps the usage gauges current after a write. Failures are
// logged only; the write itself already succeeded.
func (s *documentService) refreshUsage(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if _, err := s.Usage(ctx); err != nil {
		s.log.WithField("error", err).Warn("Failed to refresh usage")
	}
}

func isPDF(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == model.PDFMimeType
}
