package lsp

import (
	"strings"
	"sync"

	"github.com/rbxtools/reactls/pkg/lsp/protocol"
)

// Document is one open text document and its latest full content. The server
// advertises full sync only, so Content is always the complete text.
type Document struct {
	URI        string
	LanguageID string
	Version    int
	Content    string
}

// DocumentManager tracks open documents keyed by normalized URI.
type DocumentManager struct {
	store *sync.Map // map[string]*Document
}

func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		store: &sync.Map{},
	}
}

// normalizeURI strips the file scheme so lookups succeed whether the client
// sends file:///path or a bare path.
func normalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return uri
}

func (m *DocumentManager) Get(uri protocol.DocumentURI) (*Document, bool) {
	content, ok := m.store.Load(normalizeURI(string(uri)))
	if !ok {
		return nil, false
	}
	doc, ok := content.(*Document)
	return doc, ok
}

func (m *DocumentManager) Store(uri protocol.DocumentURI, doc *Document) {
	m.store.Store(normalizeURI(string(uri)), doc)
}

func (m *DocumentManager) Delete(uri protocol.DocumentURI) {
	m.store.Delete(normalizeURI(string(uri)))
}
