package completion

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/rbxtools/reactls/pkg/frequency"
	"github.com/rbxtools/reactls/pkg/lsp/protocol"
	"github.com/rbxtools/reactls/pkg/position"
	"github.com/rbxtools/reactls/pkg/scanner"
	"github.com/rbxtools/reactls/pkg/schema"
)

// Engine resolves completion items for a cursor position. It holds the
// compiled factory patterns; the schema registry and frequency table are
// passed per call so the server can swap them atomically under its own lock.
type Engine struct {
	patterns *scanner.Patterns
}

func NewEngine(patterns *scanner.Patterns) *Engine {
	return &Engine{patterns: patterns}
}

// Complete maps the LSP position into the document, anchors the cursor to a
// factory call, classifies the slot, and ranks the matching catalog names.
// A document without factory calls, or a cursor outside any call, yields an
// empty result rather than an error.
func (e *Engine) Complete(ctx context.Context, text string, pos protocol.Position, registry *schema.Registry, freq *frequency.Table) ([]protocol.CompletionItem, error) {
	logger := zerolog.Ctx(ctx)

	if registry == nil {
		logger.Debug().Msg("no schema loaded yet, skipping completion")
		return nil, nil
	}

	offset, err := position.OffsetForPosition(text, pos.Line, pos.Character)
	if err != nil {
		return nil, err
	}

	binding, spans := e.patterns.FindCallSpans(text, offset)
	for _, span := range spans {
		if !span.Contains(offset) {
			continue
		}
		sctx, handled := e.patterns.Classify(text, span, offset, binding)
		if !handled {
			continue
		}

		logger.Debug().
			Int("kind", int(sctx.Kind)).
			Str("instance", sctx.InstanceName).
			Msg("classified completion context")

		return e.itemsFor(sctx, registry, freq), nil
	}

	return nil, nil
}

func (e *Engine) itemsFor(sctx scanner.Context, registry *schema.Registry, freq *frequency.Table) []protocol.CompletionItem {
	switch sctx.Kind {
	case scanner.ContextInstanceName:
		return classItems(registry.MatchClasses(sctx.Query), freq)
	case scanner.ContextProperty:
		members, ok := registry.Properties(sctx.InstanceName)
		if !ok {
			return nil
		}
		return memberItems(members, protocol.CompletionItemField, freq)
	case scanner.ContextEvent:
		members, ok := registry.Events(sctx.InstanceName)
		if !ok {
			return nil
		}
		return memberItems(members, protocol.CompletionItemEvent, freq)
	}
	return nil
}

func classItems(names []string, freq *frequency.Table) []protocol.CompletionItem {
	freq.Rank(names)

	items := make([]protocol.CompletionItem, 0, len(names))
	for i, name := range names {
		items = append(items, protocol.CompletionItem{
			Label:    name,
			Kind:     protocol.CompletionItemClass,
			SortText: sortText(i),
		})
	}
	return items
}

func memberItems(members []schema.Member, kind protocol.CompletionItemKind, freq *frequency.Table) []protocol.CompletionItem {
	ranked := slices.Clone(members)
	slices.SortStableFunc(ranked, func(a, b schema.Member) int {
		return freq.Compare(a.Name, b.Name)
	})

	items := make([]protocol.CompletionItem, 0, len(ranked))
	for i, member := range ranked {
		items = append(items, protocol.CompletionItem{
			Label:    member.Name,
			Kind:     kind,
			Detail:   member.Type,
			SortText: sortText(i),
		})
	}
	return items
}

// sortText pins the ranked order against clients that re-sort by label.
func sortText(rank int) string {
	return fmt.Sprintf("%05d", rank)
}
