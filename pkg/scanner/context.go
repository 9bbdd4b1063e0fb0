package scanner

import "strings"

// ContextKind classifies which syntactic slot of a factory call the cursor
// occupies.
type ContextKind int

const (
	// ContextNone means the cursor sits somewhere completion should stay
	// quiet, e.g. inside a value expression.
	ContextNone ContextKind = iota
	// ContextInstanceName means the cursor is inside the first-argument
	// string literal; Query carries the literal's current contents.
	ContextInstanceName
	// ContextProperty means the cursor is at a key position inside the
	// properties table.
	ContextProperty
	// ContextEvent means the cursor is inside a computed event key.
	ContextEvent
)

// Context is the classification result for one call span.
type Context struct {
	Kind         ContextKind
	InstanceName string
	Query        string
}

// Classify resolves the cursor's slot within one call span. The second
// return reports whether this span consumed the cursor: once the cursor is
// known to sit in the span's table or first-argument literal, no other span
// should be consulted, even when the resolved context is ContextNone.
//
// The table checks run before the quote check so the first argument's own
// quotes are not mistaken for a string inside the properties block.
func (p *Patterns) Classify(doc string, span CallSpan, cursorOffset int, binding string) (Context, bool) {
	local := cursorOffset - span.Start
	if local < 0 {
		local = 0
	}
	args := span.Args

	if braceStart := strings.IndexByte(args, '{'); braceStart >= 0 {
		braceEnd := matchDelimiter(args, braceStart+1, '{', '}')
		if local >= braceStart && local <= braceEnd {
			return p.classifyTable(doc, span, cursorOffset, local, braceStart, braceEnd, binding), true
		}
	}

	// Outside the table: a quoted region here is the instance-name literal.
	// Only the first literal counts, matching the first-argument position.
	if m := p.quoteRe.FindStringSubmatchIndex(args); m != nil {
		for g := 1; g <= 4; g++ {
			gs, ge := m[2*g], m[2*g+1]
			if gs < 0 {
				continue
			}
			if local >= gs && local <= ge {
				return Context{Kind: ContextInstanceName, Query: args[gs:ge]}, true
			}
		}
	}

	return Context{}, false
}

func (p *Patterns) classifyTable(doc string, span CallSpan, cursorOffset, local, braceStart, braceEnd int, binding string) Context {
	args := span.Args
	braceBody := args[braceStart+1 : braceEnd]
	inBrace := local - (braceStart + 1)
	if inBrace < 0 {
		inBrace = 0
	}

	if bracketStart := strings.IndexByte(braceBody, '['); bracketStart >= 0 {
		bracketEnd := matchDelimiter(braceBody, bracketStart+1, '[', ']')
		if inBrace >= bracketStart && inBrace <= bracketEnd {
			name, ok := extractInstanceName(args)
			if !ok {
				return Context{}
			}

			// A bracket region inside the table is a computed key, which in
			// this dialect always holds an event reference. The needle check
			// narrows the anchor to the trailing dot when present, but a
			// partially typed key still completes as an event.
			bracketBody := braceBody[bracketStart+1 : bracketEnd]
			inBracket := inBrace - (bracketStart + 1)
			if inBracket < 0 {
				inBracket = 0
			}
			needle := p.EventNeedle(binding)
			if rel := strings.Index(bracketBody, needle); rel >= 0 {
				dot := rel + len(needle) - 1
				if inBracket >= dot && inBracket < len(bracketBody) {
					return Context{Kind: ContextEvent, InstanceName: name}
				}
			}
			return Context{Kind: ContextEvent, InstanceName: name}
		}
	}

	// Scanning backward from the cursor, hitting '=' before a separator
	// means the cursor sits in a value expression, not at a key.
	if isAssignmentContext(doc, cursorOffset) {
		return Context{}
	}

	name, ok := extractInstanceName(args)
	if !ok {
		return Context{}
	}
	return Context{Kind: ContextProperty, InstanceName: name}
}

// extractInstanceName pulls the instance name out of the call's first
// argument. Anything other than a single quoted, back-quoted, or
// long-bracket string literal yields no name and suppresses completion.
func extractInstanceName(args string) (string, bool) {
	first, _, _ := strings.Cut(args, ",")
	trimmed := strings.TrimSpace(first)

	if strings.HasPrefix(trimmed, "[[") && strings.HasSuffix(trimmed, "]]") && len(trimmed) >= 4 {
		return trimmed[2 : len(trimmed)-2], true
	}

	if len(trimmed) >= 2 {
		open := trimmed[0]
		if (open == '"' || open == '\'' || open == '`') && trimmed[len(trimmed)-1] == open {
			return trimmed[1 : len(trimmed)-1], true
		}
	}

	return "", false
}

func isAssignmentContext(doc string, cursorOffset int) bool {
	if cursorOffset > len(doc) {
		return false
	}
	for i := cursorOffset - 1; i >= 0; i-- {
		switch doc[i] {
		case '=':
			return true
		case '\n', ',', ';':
			return false
		}
	}
	return false
}
