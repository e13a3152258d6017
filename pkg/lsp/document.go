package lsp

import "sync"

// Document is the cached state of one open editor buffer.
type Document struct {
	URI        string
	Text       string
	LanguageID string
}

// DocumentStore is a URI-keyed document cache. Readers take a shared
// lock and writers take an exclusive one, so a concurrent completion
// request observes either the pre- or post-change state but never a
// torn view.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore builds an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open records a newly opened document (didOpen).
func (s *DocumentStore) Open(uri, languageID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = &Document{URI: uri, Text: text, LanguageID: languageID}
}

// Change replaces a document's full text (didChange, full-text sync).
func (s *DocumentStore) Change(uri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.docs[uri]; ok {
		d.Text = text
	}
}

// Close removes a document from the cache (didClose).
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Get returns the document for uri, or ok=false if it is not cached.
func (s *DocumentStore) Get(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[uri]
	return d, ok
}
