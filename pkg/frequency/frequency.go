package frequency

import (
	"sort"
	"strings"
	"unicode"
)

// Table accumulates how often schema terms have been seen across every
// document observed this session. Counts only grow: text edited away or
// closed keeps its contribution, so the table is a session-lifetime signal
// rather than a live reflection of open documents.
//
// Table is not safe for concurrent use; callers serialize access alongside
// the schema snapshot.
type Table struct {
	counts map[string]int
}

// NewTable returns an empty frequency table.
func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Update tokenizes text on non-alphabetic boundaries and adds
// multiplier x occurrences for every token the vocabulary knows. Tokens
// outside the vocabulary are not tracked at all, keeping the table bounded
// by the schema's term set.
func (t *Table) Update(text string, multiplier int, vocab func(string) bool) {
	if vocab == nil {
		return
	}
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, word := range words {
		if vocab(word) {
			t.counts[word] += multiplier
		}
	}
}

// Count returns the accumulated count for a term, zero when never seen.
func (t *Table) Count(term string) int {
	return t.counts[term]
}

// Compare orders two candidate names for completion: higher frequency
// first, then longer text (equal-frequency ties penalize the extra typing),
// then lexicographic as the final tie-break. The chain yields a
// deterministic total order for any input set.
func (t *Table) Compare(a, b string) int {
	if fa, fb := t.counts[a], t.counts[b]; fa != fb {
		if fa > fb {
			return -1
		}
		return 1
	}
	if len(a) != len(b) {
		if len(a) > len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Rank sorts names in place by Compare and returns the slice.
func (t *Table) Rank(names []string) []string {
	sort.SliceStable(names, func(i, j int) bool {
		return t.Compare(names[i], names[j]) < 0
	})
	return names
}
