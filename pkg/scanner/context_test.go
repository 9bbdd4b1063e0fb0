package scanner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbxtools/reactls/pkg/scanner"
)

// classifyAt runs the span walk the way completion does: locate the spans
// reachable from the cursor, then classify the first one containing it.
func classifyAt(t *testing.T, p *scanner.Patterns, doc string, cursor int) (scanner.Context, bool) {
	t.Helper()
	binding, spans := p.FindCallSpans(doc, cursor)
	for _, span := range spans {
		if !span.Contains(cursor) {
			continue
		}
		if ctx, handled := p.Classify(doc, span, cursor, binding); handled {
			return ctx, true
		}
	}
	return scanner.Context{}, false
}

// cursorAfter returns the byte offset just past the first occurrence of
// marker in doc.
func cursorAfter(t *testing.T, doc, marker string) int {
	t.Helper()
	idx := strings.Index(doc, marker)
	require.GreaterOrEqual(t, idx, 0, "marker %q not found", marker)
	return idx + len(marker)
}

func TestClassify(t *testing.T) {
	p := mustPatterns(t)

	header := "local React = require(Packages.React)\n\n"

	t.Run("property_key_position", func(t *testing.T) {
		doc := header + "local element = React.createElement(\"Frame\", {\n\tPositio\n})"
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, "Positio"))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextProperty, ctx.Kind)
		assert.Equal(t, "Frame", ctx.InstanceName)
	})

	t.Run("instance_name_literal", func(t *testing.T) {
		doc := header + `local element = React.createElement("Fra")`
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, `"Fra`))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextInstanceName, ctx.Kind)
		assert.Equal(t, "Fra", ctx.Query)
	})

	t.Run("instance_name_through_alias", func(t *testing.T) {
		doc := header + "local e = React.createElement\nlocal x = e(\"But\")"
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, `"But`))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextInstanceName, ctx.Kind)
		assert.Equal(t, "But", ctx.Query)
	})

	t.Run("value_expression_suppressed", func(t *testing.T) {
		doc := header + "local element = React.createElement(\"Frame\", {\n\tVisible = tru\n})"
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, "tru"))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextNone, ctx.Kind)
	})

	t.Run("comma_resets_assignment_scan", func(t *testing.T) {
		doc := header + "local element = React.createElement(\"Frame\", {\n\tVisible = true, Siz\n})"
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, "Siz"))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextProperty, ctx.Kind)
	})

	t.Run("event_key_after_namespace_dot", func(t *testing.T) {
		doc := header + "local element = React.createElement(\"Frame\", {\n\t[React.Event.]\n})"
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, "React.Event."))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextEvent, ctx.Kind)
		assert.Equal(t, "Frame", ctx.InstanceName)
	})

	t.Run("event_key_partially_typed", func(t *testing.T) {
		doc := header + "local element = React.createElement(\"Frame\", {\n\t[Rea]\n})"
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, "[Rea"))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextEvent, ctx.Kind)
	})

	t.Run("unterminated_call_still_classifies", func(t *testing.T) {
		doc := header + "local element = React.createElement(\"Frame\", {\n\tSiz"
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, "Siz"))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextProperty, ctx.Kind)
		assert.Equal(t, "Frame", ctx.InstanceName)
	})

	t.Run("first_argument_not_a_literal", func(t *testing.T) {
		doc := header + "local element = React.createElement(kind, {\n\tSiz\n})"
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, "Siz"))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextNone, ctx.Kind)
	})

	t.Run("long_bracket_instance_name", func(t *testing.T) {
		doc := header + "local element = React.createElement([[Frame]], {\n\tSiz\n})"
		ctx, handled := classifyAt(t, p, doc, cursorAfter(t, doc, "Siz"))
		require.True(t, handled)
		assert.Equal(t, scanner.ContextProperty, ctx.Kind)
		assert.Equal(t, "Frame", ctx.InstanceName)
	})

	t.Run("cursor_outside_any_call", func(t *testing.T) {
		doc := header + "local element = React.createElement(\"Frame\", {})\nlocal other = 1"
		_, handled := classifyAt(t, p, doc, cursorAfter(t, doc, "other"))
		assert.False(t, handled)
	})
}
