// Copyright © 2026 The jank authors

package lsp

import (
	"context"
	"sync"

	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/jank-lang/jank-sub005/namespace"
)

// Document is an open text document tracked by the server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string

	// Analysis results, cleared on every change.
	unit  *compiler.Unit
	index *index
}

// newDriver returns a driver with a registry of its own, so definitions in
// one document never leak into another.
func (s *Server) newDriver() *compiler.Driver {
	d := compiler.NewDriver(s.resolver, namespace.NewRegistry(namespace.DefaultCoreVars))
	d.Log = s.log
	d.Annotator = s.annotator
	return d
}

// analyze runs the driver over the document.  The caller holds d.mu.
func (d *Document) analyze(driver *compiler.Driver) {
	d.unit = driver.AnalyzeSource(context.Background(), compiler.Source{
		Name:      uriToPath(d.URI),
		Namespace: compiler.DefaultNamespace,
		Text:      d.Content,
	})
	d.index = buildIndex(d.unit)
}

// snapshot returns the document's content and analysis under its lock.
func (d *Document) snapshot() (string, *compiler.Unit, *index) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Content, d.unit, d.index
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{URI: uri, Version: version, Content: content}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change replaces a document's content (full sync) and drops its analysis.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.unit = nil
	doc.index = nil
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI.  Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns every open document.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}
