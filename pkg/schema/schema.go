package schema

import (
	"sort"
	"strings"
)

// Member is one named, typed member of a class: a settable property or a
// connectable event.
type Member struct {
	Name string
	Type string
}

// Entry is the flattened catalog record for a single class. Properties and
// Events already include every superclass member, so lookups never need to
// walk the inheritance chain.
type Entry struct {
	Name       string
	Superclass string
	Properties []Member
	Events     []Member
}

// Registry is a read-only snapshot of the class catalog. The server swaps a
// whole Registry in after loading or regenerating the schema; individual
// entries are never mutated.
type Registry struct {
	entries map[string]Entry
	names   []string
}

// NewRegistry builds a registry over the given entries. The name list is
// sorted once so matching output is stable across processes.
func NewRegistry(entries map[string]Entry) *Registry {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return &Registry{entries: entries, names: names}
}

// Len reports how many classes the registry knows.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns the underlying entry map, for serialization.
func (r *Registry) Entries() map[string]Entry {
	return r.entries
}

// Properties returns the flattened property list for a class.
func (r *Registry) Properties(name string) ([]Member, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return entry.Properties, true
}

// Events returns the flattened event list for a class.
func (r *Registry) Events(name string) ([]Member, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return entry.Events, true
}

// MatchClasses returns every class name containing query's characters as a
// case-insensitive subsequence. The empty query matches everything.
func (r *Registry) MatchClasses(query string) []string {
	var matched []string
	for _, name := range r.names {
		if isSubsequence(query, name) {
			matched = append(matched, name)
		}
	}
	return matched
}

// Vocab reports whether a term is a known class, property, or event name.
// The frequency table uses this to track only schema-relevant terms.
func (r *Registry) Vocab(term string) bool {
	if _, ok := r.entries[term]; ok {
		return true
	}
	for _, entry := range r.entries {
		for _, prop := range entry.Properties {
			if prop.Name == term {
				return true
			}
		}
		for _, event := range entry.Events {
			if event.Name == term {
				return true
			}
		}
	}
	return false
}

// TermSet materializes the full vocabulary as a set, which turns repeated
// Vocab checks during a document scan into map hits.
func (r *Registry) TermSet() map[string]struct{} {
	terms := make(map[string]struct{}, len(r.entries))
	for name, entry := range r.entries {
		terms[name] = struct{}{}
		for _, prop := range entry.Properties {
			terms[prop.Name] = struct{}{}
		}
		for _, event := range entry.Events {
			terms[event.Name] = struct{}{}
		}
	}
	return terms
}

// isSubsequence reports whether every character of pattern appears in text
// in order, ignoring case. An empty pattern always matches.
func isSubsequence(pattern, text string) bool {
	pattern = strings.ToLower(pattern)
	text = strings.ToLower(text)

	next := 0
	patternRunes := []rune(pattern)
	if len(patternRunes) == 0 {
		return true
	}
	for _, r := range text {
		if r == patternRunes[next] {
			next++
			if next == len(patternRunes) {
				return true
			}
		}
	}
	return false
}
