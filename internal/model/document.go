package model

import "time"

// PDFMimeType is the only media type accepted for uploads.
const PDFMimeType = "application/pdf"

// DocumentRecord is a stored file together with its metadata.
// Name is the natural key: adding a record with an existing name replaces it.
// Content holds the full file encoded as a data URI.
type DocumentRecord struct {
	Name         string    `json:"name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
	Content      string    `json:"content"`
}

// Summary returns the record without its content.
func (r DocumentRecord) Summary() DocumentSummary {
	return DocumentSummary{
		Name:         r.Name,
		MimeType:     r.MimeType,
		SizeBytes:    r.SizeBytes,
		LastModified: r.LastModified,
	}
}

// DocumentSummary is the listing view of a record.
type DocumentSummary struct {
	Name         string    `json:"name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}
