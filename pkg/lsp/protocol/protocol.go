package protocol

import (
	"context"
	"io"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
)

// Server is the set of LSP methods this language server implements. The
// dispatch map below routes incoming JSON-RPC methods onto it; anything not
// listed is reported to the client as method-not-found, which conforming
// clients treat as "unsupported capability".
type Server interface {
	Initialize(ctx context.Context, params *InitializeParams) (*InitializeResult, error)
	Initialized(ctx context.Context, params *InitializedParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error
	DidOpen(ctx context.Context, params *DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *DidChangeTextDocumentParams) error
	DidClose(ctx context.Context, params *DidCloseTextDocumentParams) error
	Completion(ctx context.Context, params *CompletionParams) ([]CompletionItem, error)
	ExecuteCommand(ctx context.Context, params *ExecuteCommandParams) (any, error)
}

func buildServerDispatchMap(server Server) handler.Map {
	return handler.Map{
		"initialize":               createHandler(server.Initialize),
		"initialized":              createEmptyResultHandler(server.Initialized),
		"shutdown":                 createEmptyHandler(server.Shutdown),
		"exit":                     createEmptyHandler(server.Exit),
		"textDocument/didOpen":     createEmptyResultHandler(server.DidOpen),
		"textDocument/didChange":   createEmptyResultHandler(server.DidChange),
		"textDocument/didClose":    createEmptyResultHandler(server.DidClose),
		"textDocument/completion":  createHandler(server.Completion),
		"workspace/executeCommand": createHandler(server.ExecuteCommand),
		"$/cancelRequest": handler.New(func(ctx context.Context, r *jrpc2.Request) (any, error) {
			var params CancelParams
			if err := r.UnmarshalParams(&params); err != nil {
				return nil, newParseError(err)
			}
			return nil, nil
		}),
	}
}

// CallbackClient sends server-initiated traffic (notifications such as
// window/logMessage) back over the same connection.
type CallbackClient struct {
	server *jrpc2.Server
}

func NewCallbackClient(server *jrpc2.Server) *CallbackClient {
	return &CallbackClient{server: server}
}

func (c *CallbackClient) Notify(ctx context.Context, method string, params any) error {
	return c.server.Notify(ctx, method, params)
}

// LogMessage forwards a window/logMessage notification to the client.
func (c *CallbackClient) LogMessage(ctx context.Context, params *LogMessageParams) error {
	return c.Notify(ctx, "window/logMessage", params)
}

// ServerInstance binds a Server to a jrpc2 server over LSP framing.
type ServerInstance struct {
	server   *jrpc2.Server
	callback *CallbackClient
}

// NewServerInstance wires the dispatch map into a jrpc2 server. The context
// handed to request handlers carries a logger that forwards to the client
// once the connection is up.
func NewServerInstance(ctx context.Context, server Server, opts *jrpc2.ServerOptions) *ServerInstance {
	if opts == nil {
		opts = &jrpc2.ServerOptions{}
	}
	opts.AllowPush = true

	var callback *CallbackClient
	opts.NewContext = func() context.Context {
		if callback == nil {
			return ctx
		}
		return ApplyClientToZerolog(ctx, callback)
	}

	rpcServer := jrpc2.NewServer(buildServerDispatchMap(server), opts)
	callback = NewCallbackClient(rpcServer)

	return &ServerInstance{server: rpcServer, callback: callback}
}

// Callback returns the client-notification side of the instance.
func (si *ServerInstance) Callback() *CallbackClient {
	return si.callback
}

// StartAndWait serves LSP-framed JSON-RPC over the given pipe until the
// connection closes.
func (si *ServerInstance) StartAndWait(in io.Reader, out io.Writer) error {
	wc, ok := out.(io.WriteCloser)
	if !ok {
		wc = nopWriteCloser{out}
	}
	si.server.Start(channel.LSP(in, wc))
	return si.server.Wait()
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
