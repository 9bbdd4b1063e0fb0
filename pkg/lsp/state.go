package lsp

import (
	"sync"

	"github.com/rbxtools/reactls/pkg/frequency"
	"github.com/rbxtools/reactls/pkg/schema"
)

// State holds the schema snapshot and the session frequency table behind one
// lock. The registry pointer is swapped whole on load or regeneration; the
// frequency table only ever grows.
type State struct {
	mu       sync.Mutex
	registry *schema.Registry
	freq     *frequency.Table
	terms    map[string]struct{}
}

func NewState() *State {
	return &State{
		freq: frequency.NewTable(),
	}
}

// SetRegistry installs a new schema snapshot and refreshes the vocabulary
// the frequency table tracks against.
func (s *State) SetRegistry(registry *schema.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = registry
	s.terms = registry.TermSet()
}

// HasRegistry reports whether a schema snapshot is installed.
func (s *State) HasRegistry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry != nil
}

// ObserveDocument feeds document text into the frequency table. Before a
// schema is loaded there is no vocabulary, so observations are dropped.
func (s *State) ObserveDocument(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terms == nil {
		return
	}
	s.freq.Update(text, 1, func(term string) bool {
		_, ok := s.terms[term]
		return ok
	})
}

// Query runs fn with a consistent view of the registry and frequency table.
// The registry may be nil when no schema has been loaded yet.
func (s *State) Query(fn func(registry *schema.Registry, freq *frequency.Table)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.registry, s.freq)
}
