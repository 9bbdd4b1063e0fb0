package scanner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbxtools/reactls/pkg/scanner"
)

func mustPatterns(t *testing.T) *scanner.Patterns {
	t.Helper()
	p, err := scanner.NewPatterns("React", "createElement", "Event")
	require.NoError(t, err)
	return p
}

func TestHasFactoryReference(t *testing.T) {
	p := mustPatterns(t)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "plain_require",
			text: `local React = require(Packages.React)`,
			want: true,
		},
		{
			name: "nested_path",
			text: `local React = require(game.ReplicatedStorage.Packages.React)`,
			want: true,
		},
		{
			name: "no_require",
			text: `local React = {}`,
			want: false,
		},
		{
			name: "different_module",
			text: `local Roact = require(Packages.Roact)`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.HasFactoryReference(tt.text))
		})
	}
}

func TestFactoryBinding(t *testing.T) {
	p := mustPatterns(t)

	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{
			name:   "local_binding",
			text:   `local React = require(Packages.React)`,
			want:   "React",
			wantOK: true,
		},
		{
			name:   "renamed_binding",
			text:   `local R = require(Packages.React)`,
			want:   "R",
			wantOK: true,
		},
		{
			name:   "without_local_keyword",
			text:   `React = require(Packages.React)`,
			want:   "React",
			wantOK: true,
		},
		{
			name:   "first_binding_wins",
			text:   "local A = require(Packages.React)\nlocal B = require(Other.React)",
			want:   "A",
			wantOK: true,
		},
		{
			name:   "no_binding",
			text:   `print("hi")`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.FactoryBinding(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAliasBindings(t *testing.T) {
	p := mustPatterns(t)

	doc := strings.Join([]string{
		`local React = require(Packages.React)`,
		`local e = React.createElement`,
		`local x = e("Frame")`,
		`local late = React.createElement`,
	}, "\n")

	t.Run("alias_before_cursor_visible", func(t *testing.T) {
		cursor := strings.Index(doc, `e("Frame")`)
		aliases := p.AliasBindings(doc, cursor, "React")
		assert.Equal(t, []string{"e"}, aliases)
	})

	t.Run("alias_after_cursor_invisible", func(t *testing.T) {
		cursor := strings.Index(doc, `e("Frame")`)
		aliases := p.AliasBindings(doc, cursor, "React")
		assert.NotContains(t, aliases, "late")
	})

	t.Run("cursor_at_end_sees_all", func(t *testing.T) {
		aliases := p.AliasBindings(doc, len(doc), "React")
		assert.Equal(t, []string{"e", "late"}, aliases)
	})

	t.Run("alias_of_other_binding_ignored", func(t *testing.T) {
		other := `local f = Roact.createElement`
		aliases := p.AliasBindings(other, len(other), "React")
		assert.Empty(t, aliases)
	})
}

func TestFindCallSpans(t *testing.T) {
	p := mustPatterns(t)

	t.Run("no_require_no_spans", func(t *testing.T) {
		doc := `local x = React.createElement("Frame")`
		binding, spans := p.FindCallSpans(doc, len(doc))
		assert.Empty(t, binding)
		assert.Empty(t, spans)
	})

	t.Run("direct_call", func(t *testing.T) {
		doc := "local React = require(Packages.React)\n" +
			`local x = React.createElement("Frame", {})`
		binding, spans := p.FindCallSpans(doc, len(doc))
		require.Len(t, spans, 1)
		assert.Equal(t, "React", binding)
		assert.Equal(t, `"Frame", {}`, spans[0].Args)
	})

	t.Run("nested_parens_balanced", func(t *testing.T) {
		doc := "local React = require(Packages.React)\n" +
			`local x = React.createElement("Frame", { Size = UDim2.new(0, 1) })`
		_, spans := p.FindCallSpans(doc, len(doc))
		require.Len(t, spans, 1)
		assert.Equal(t, `"Frame", { Size = UDim2.new(0, 1) }`, spans[0].Args)
	})

	t.Run("unterminated_call_extends_to_eof", func(t *testing.T) {
		doc := "local React = require(Packages.React)\n" +
			`local x = React.createElement("Frame", {`
		_, spans := p.FindCallSpans(doc, len(doc))
		require.Len(t, spans, 1)
		assert.Equal(t, len(doc), spans[0].End)
	})

	t.Run("alias_call_included", func(t *testing.T) {
		doc := "local React = require(Packages.React)\n" +
			"local e = React.createElement\n" +
			`local x = e("Button", {})`
		_, spans := p.FindCallSpans(doc, len(doc))
		require.Len(t, spans, 1)
		assert.Equal(t, `"Button", {}`, spans[0].Args)
	})

	t.Run("multiple_calls_all_found", func(t *testing.T) {
		doc := "local React = require(Packages.React)\n" +
			"local a = React.createElement(\"Frame\", {})\n" +
			"local b = React.createElement(\"Button\", {})"
		_, spans := p.FindCallSpans(doc, len(doc))
		assert.Len(t, spans, 2)
	})
}

func TestCallSpanContains(t *testing.T) {
	span := scanner.CallSpan{Start: 10, End: 20}
	assert.True(t, span.Contains(10))
	assert.True(t, span.Contains(20))
	assert.True(t, span.Contains(15))
	assert.False(t, span.Contains(9))
	assert.False(t, span.Contains(21))
}
