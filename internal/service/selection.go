package service

import (
	"sync"

	"pdfvault/internal/model"
)

// Selection holds the currently selected document. It is owned by a
// DocumentService instance rather than being process-global.
type Selection struct {
	mu  sync.RWMutex
	doc *model.DocumentRecord
}

// Set replaces the selection.
func (s *Selection) Set(doc model.DocumentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = &doc
}

// Current returns a copy of the selected document, if any.
func (s *Selection) Current() (model.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return model.DocumentRecord{}, false
	}
	return *s.doc, true
}

// Clear drops the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
}

// ClearIf drops the selection when it refers to name and reports whether it did.
func (s *Selection) ClearIf(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil && s.doc.Name == name {
		s.doc = nil
		return true
	}
	return false
}

// ReplaceIf swaps in doc when the selection refers to the same name and
// reports whether it did.
func (s *Selection) ReplaceIf(doc model.DocumentRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil && s.doc.Name == doc.Name {
		s.doc = &doc
		return true
	}
	return false
}
