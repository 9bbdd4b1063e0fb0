package protocol

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/rbxtools/reactls/pkg/debug"
)

// myLoggerId distinguishes this process's own log lines from lines relayed
// on behalf of other tooling sharing the client's output pane.
var myLoggerId = xid.New().String()

// ApplyRequestToZerolog tags the context logger with the RPC being served.
func ApplyRequestToZerolog(ctx context.Context, req *jrpc2.Request) context.Context {
	return zerolog.Ctx(ctx).With().
		Str("rpc_method", req.Method()).
		Str("rpc_id", req.ID()).
		Logger().WithContext(ctx)
}

// ApplyClientToZerolog replaces the context logger with one that forwards
// every entry to the client as window/logMessage. The server must not write
// to its own stdout, which carries the LSP wire protocol.
func ApplyClientToZerolog(ctx context.Context, client *CallbackClient) context.Context {
	writer := &logWriter{client: client, ctx: ctx}

	level := zerolog.Ctx(ctx).GetLevel()

	return zerolog.New(writer).With().
		Str("id", myLoggerId).
		Logger().
		Level(level).
		Hook(debug.TimeHook{}).
		Hook(debug.CallerHook{}).
		WithContext(ctx)
}

// logWriter turns zerolog's JSON lines into window/logMessage notifications.
type logWriter struct {
	client *CallbackClient
	mu     sync.Mutex
	ctx    context.Context
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var entry map[string]any
	if err := json.Unmarshal(p, &entry); err != nil {
		// Not a structured entry; drop it rather than corrupt the stream.
		return len(p), nil
	}

	params := &LogMessageParams{
		Type:    ParseMessageTypeFromZerolog(extractField(entry, "level", "info")),
		Message: extractField(entry, "message", ""),
		Time:    extractField(entry, "time", ""),
		Source:  extractField(entry, "caller", ""),
		Extra:   entry,
	}
	delete(entry, "id")

	var err error
	if w.client != nil {
		err = w.client.LogMessage(w.ctx, params)
	}
	return len(p), err
}

func extractField(entry map[string]any, key, defaultValue string) string {
	if v, ok := entry[key].(string); ok {
		delete(entry, key)
		return v
	}
	return defaultValue
}

// ParseMessageTypeFromZerolog converts a zerolog level name to the LSP
// message severity.
func ParseMessageTypeFromZerolog(level string) MessageType {
	switch level {
	case "error", "fatal", "panic":
		return Error
	case "warn":
		return Warning
	case "info":
		return Info
	case "debug":
		return Debug
	default:
		return Log
	}
}
