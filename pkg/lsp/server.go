package lsp

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/rbxtools/reactls/pkg/completion"
	"github.com/rbxtools/reactls/pkg/config"
	"github.com/rbxtools/reactls/pkg/frequency"
	"github.com/rbxtools/reactls/pkg/lsp/protocol"
	"github.com/rbxtools/reactls/pkg/position"
	"github.com/rbxtools/reactls/pkg/scanner"
	"github.com/rbxtools/reactls/pkg/schema"
)

// Commands the server accepts over workspace/executeCommand.
const (
	CommandGenSchema = "reactls.genSchema"
	CommandReadCache = "reactls.readCache"
)

// Server implements the language server over a document store, a completion
// engine, and the schema loader. It satisfies protocol.Server.
type Server struct {
	id        string
	documents *DocumentManager
	engine    *completion.Engine
	loader    *schema.Loader
	state     *State

	// baseCtx outlives individual requests; background schema work runs on
	// it rather than on a request context the client may cancel.
	baseCtx context.Context

	initialized bool
	shutdown    bool
}

var _ protocol.Server = (*Server)(nil)

// NewServer compiles the factory patterns from the configuration and wires
// the loader. Pattern compilation happens once here; completion requests
// never touch the regexp engine's compile path.
func NewServer(ctx context.Context, cfg *config.Config, loader *schema.Loader) (*Server, error) {
	patterns, err := scanner.NewPatterns(cfg.Factory.Module, cfg.Factory.Call, cfg.Factory.EventNamespace)
	if err != nil {
		return nil, errors.Errorf("compiling factory patterns: %w", err)
	}

	return &Server{
		id:        xid.New().String(),
		documents: NewDocumentManager(),
		engine:    completion.NewEngine(patterns),
		loader:    loader,
		state:     NewState(),
		baseCtx:   ctx,
	}, nil
}

// BuildServerInstance binds this server to a jrpc2 instance with LSP framing.
func (s *Server) BuildServerInstance(ctx context.Context, opts *jrpc2.ServerOptions) *protocol.ServerInstance {
	return protocol.NewServerInstance(ctx, s, opts)
}

func (s *Server) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("root_uri", params.RootURI).Msg("initializing server")

	s.initialized = true

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.SyncFull,
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"\"", "'", "`", "{", "[", "."},
			},
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{CommandGenSchema, CommandReadCache},
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name: "reactls",
		},
	}, nil
}

// Initialized kicks off the background schema load. Completion stays quiet
// until the cache is restored or a genSchema command installs a snapshot.
func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("server initialized, loading schema cache")

	go func() {
		entries, err := s.loader.ReadCache()
		if err != nil {
			if errors.Is(err, schema.ErrCacheMissing) {
				logger.Info().Msg("no schema cache found, run the genSchema command to create one")
			} else {
				logger.Error().Err(err).Msg("failed to read schema cache")
			}
			return
		}
		s.state.SetRegistry(schema.NewRegistry(entries))
		logger.Info().Int("classes", len(entries)).Msg("schema cache loaded")
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	zerolog.Ctx(ctx).Debug().Msg("shutting down")
	s.shutdown = true
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	return nil
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	zerolog.Ctx(ctx).Debug().
		Str("uri", string(params.TextDocument.URI)).
		Str("language", params.TextDocument.LanguageID).
		Msg("document opened")

	s.documents.Store(params.TextDocument.URI, &Document{
		URI:        string(params.TextDocument.URI),
		LanguageID: params.TextDocument.LanguageID,
		Version:    params.TextDocument.Version,
		Content:    params.TextDocument.Text,
	})
	s.state.ObserveDocument(params.TextDocument.Text)
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}

	doc, ok := s.documents.Get(params.TextDocument.URI)
	if !ok {
		return errors.Errorf("change for unopened document %s", params.TextDocument.URI)
	}

	// Full sync: the last change carries the complete new text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	doc.Content = text
	doc.Version = params.TextDocument.Version
	s.documents.Store(params.TextDocument.URI, doc)
	s.state.ObserveDocument(text)
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("document closed")
	s.documents.Delete(params.TextDocument.URI)
	return nil
}

func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) ([]protocol.CompletionItem, error) {
	logger := zerolog.Ctx(ctx)

	doc, ok := s.documents.Get(params.TextDocument.URI)
	if !ok {
		logger.Warn().Str("uri", string(params.TextDocument.URI)).Msg("completion for unknown document")
		return nil, nil
	}

	var items []protocol.CompletionItem
	var err error
	s.state.Query(func(registry *schema.Registry, freq *frequency.Table) {
		items, err = s.engine.Complete(ctx, doc.Content, params.Position, registry, freq)
	})
	if err != nil {
		// A line past the document end means the client and server disagree
		// about the document; report it rather than degrade silently.
		if errors.Is(err, position.ErrInvalidPosition) {
			logger.Warn().Err(err).Str("uri", string(params.TextDocument.URI)).Msg("completion position outside document")
		}
		return nil, err
	}
	return items, nil
}

func (s *Server) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (any, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("command", params.Command).Msg("executing command")

	switch params.Command {
	case CommandGenSchema:
		entries, err := s.loader.Download(s.baseCtx)
		if err != nil {
			return nil, errors.Errorf("generating schema: %w", err)
		}
		if err := s.loader.WriteCache(entries); err != nil {
			return nil, errors.Errorf("caching schema: %w", err)
		}
		s.state.SetRegistry(schema.NewRegistry(entries))
		logger.Info().Int("classes", len(entries)).Msg("schema generated")
		return map[string]any{"classes": len(entries)}, nil

	case CommandReadCache:
		if len(params.Arguments) == 0 {
			return nil, errors.New("readCache requires a target directory argument")
		}
		dir, ok := params.Arguments[0].(string)
		if !ok {
			return nil, errors.New("readCache target directory must be a string")
		}
		entries, err := s.loader.ReadCache()
		if err != nil {
			return nil, errors.Errorf("reading schema cache: %w", err)
		}
		if err := s.loader.WriteReadable(dir, entries); err != nil {
			return nil, errors.Errorf("writing readable schema: %w", err)
		}
		return nil, nil
	}

	return nil, errors.Errorf("unknown command %q", params.Command)
}
