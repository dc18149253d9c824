// Package datauri encodes and decodes base64 data URIs (RFC 2397) used as the
// textual content of stored documents.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const (
	scheme       = "data:"
	base64Marker = ";base64"
)

var (
	ErrNotDataURI  = errors.New("not a data uri")
	ErrNotBase64   = errors.New("data uri is not base64 encoded")
	ErrMissingData = errors.New("data uri has no payload separator")
)

// Encode returns data as "data:<mediaType>;base64,<payload>".
// An empty media type is written as application/octet-stream.
func Encode(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	var b strings.Builder
	b.Grow(len(scheme) + len(mediaType) + len(base64Marker) + 1 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(scheme)
	b.WriteString(mediaType)
	b.WriteString(base64Marker)
	b.WriteByte(',')
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Decode parses a base64 data URI and returns its media type and raw bytes.
// Media type parameters other than base64 (e.g. charset) are kept in the
// returned media type.
func Decode(uri string) (mediaType string, data []byte, err error) {
	if !strings.HasPrefix(uri, scheme) {
		return "", nil, ErrNotDataURI
	}
	header, payload, ok := strings.Cut(uri[len(scheme):], ",")
	if !ok {
		return "", nil, ErrMissingData
	}
	if !strings.HasSuffix(header, base64Marker) {
		return "", nil, ErrNotBase64
	}
	mediaType = strings.TrimSuffix(header, base64Marker)
	if mediaType == "" {
		mediaType = "text/plain;charset=US-ASCII"
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode payload: %w", err)
	}
	return mediaType, data, nil
}
