package scanner

import "strings"

// CallSpan is the argument range of one factory call: Start is the byte
// offset just past the opening parenthesis, End the offset of the matching
// close (or the end of the document when the call never closes), and Args
// the raw text between the two.
type CallSpan struct {
	Start int
	End   int
	Args  string
}

// Contains reports whether the byte offset falls inside the span. Both
// boundaries are inclusive so a cursor sitting on the closing delimiter
// still anchors to the call.
func (s CallSpan) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End
}

// HasFactoryReference reports whether the document requires the factory
// module at all. Documents without the import produce no spans.
func (p *Patterns) HasFactoryReference(text string) bool {
	return p.requireRe.MatchString(text)
}

// FactoryBinding returns the local name the factory module was required
// into. Only the first binding counts; a document importing the factory
// twice under different names resolves through the first.
func (p *Patterns) FactoryBinding(text string) (string, bool) {
	m := p.bindingRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// AliasBindings collects local names assigned directly from
// <binding>.createElement before the given offset. Aliases introduced after
// the cursor are invisible, which keeps forward references from producing
// spurious call spans.
func (p *Patterns) AliasBindings(text string, beforeOffset int, binding string) []string {
	if beforeOffset > len(text) {
		beforeOffset = len(text)
	}
	region := text[:beforeOffset]

	var aliases []string
	for _, m := range p.aliasRe.FindAllStringSubmatch(region, -1) {
		if m[2] == binding {
			aliases = append(aliases, m[1])
		}
	}
	return aliases
}

// FindCallSpans locates every factory call reachable from the cursor: direct
// <binding>.createElement(...) calls plus calls through aliases introduced
// before cursorOffset. The factory binding name is returned alongside the
// spans since classification needs it for event-key detection.
func (p *Patterns) FindCallSpans(text string, cursorOffset int) (string, []CallSpan) {
	if !p.HasFactoryReference(text) {
		return "", nil
	}
	binding, ok := p.FactoryBinding(text)
	if !ok {
		return "", nil
	}

	spans := p.spansForNeedle(text, binding+"."+p.callName+"(")
	for _, alias := range p.AliasBindings(text, cursorOffset, binding) {
		spans = append(spans, p.spansForNeedle(text, alias+"(")...)
	}

	return binding, spans
}

func (p *Patterns) spansForNeedle(text, needle string) []CallSpan {
	var spans []CallSpan

	from := 0
	for {
		idx := strings.Index(text[from:], needle)
		if idx < 0 {
			return spans
		}
		at := from + idx
		start := at + len(needle)

		// A word character right before the needle means this is a longer
		// identifier (e.g. "require(" ending in a short alias), not a call.
		if at > 0 && isWordByte(text[at-1]) {
			from = start
			continue
		}

		end := matchDelimiter(text, start, '(', ')')
		spans = append(spans, CallSpan{Start: start, End: end, Args: text[start:end]})
		from = start
	}
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// matchDelimiter scans forward from start (just past an already-open
// delimiter) and returns the offset of the balancing close. An unterminated
// region extends to the end of the text rather than failing, so completion
// keeps working in code that is mid-edit.
func matchDelimiter(text string, start int, open, close byte) int {
	depth := 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(text)
}
