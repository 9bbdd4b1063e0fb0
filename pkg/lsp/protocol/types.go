package protocol

// The subset of LSP 3.17 types this server speaks. Kept by hand rather than
// generated: the surface is small enough that the full metamodel would be
// mostly dead weight.

type DocumentURI string

// Position is a zero-based line and UTF-16 character offset, per the LSP
// position encoding.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	URI     DocumentURI `json:"uri"`
	Version int         `json:"version"`
}

type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int         `json:"version"`
	Text       string      `json:"text"`
}

type TextDocumentContentChangeEvent struct {
	Range *Range `json:"range,omitempty"`
	Text  string `json:"text"`
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type InitializeParams struct {
	ProcessID             int    `json:"processId,omitempty"`
	RootURI               string `json:"rootUri,omitempty"`
	InitializationOptions any    `json:"initializationOptions,omitempty"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type InitializedParams struct{}

// TextDocumentSyncKind values; this server only supports full sync.
const (
	SyncNone        = 0
	SyncFull        = 1
	SyncIncremental = 2
)

type ServerCapabilities struct {
	TextDocumentSync       int                    `json:"textDocumentSync"`
	CompletionProvider     *CompletionOptions     `json:"completionProvider,omitempty"`
	ExecuteCommandProvider *ExecuteCommandOptions `json:"executeCommandProvider,omitempty"`
}

type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type ExecuteCommandOptions struct {
	Commands []string `json:"commands"`
}

type CompletionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// CompletionItemKind mirrors the LSP numbering; only the kinds this server
// emits are named.
type CompletionItemKind int

const (
	CompletionItemField CompletionItemKind = 5
	CompletionItemClass CompletionItemKind = 7
	CompletionItemEvent CompletionItemKind = 23
)

type CompletionItem struct {
	Label    string             `json:"label"`
	Kind     CompletionItemKind `json:"kind,omitempty"`
	Detail   string             `json:"detail,omitempty"`
	SortText string             `json:"sortText,omitempty"`
}

type ExecuteCommandParams struct {
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

// MessageType is the LSP window/logMessage severity.
type MessageType int

const (
	Error   MessageType = 1
	Warning MessageType = 2
	Info    MessageType = 3
	Log     MessageType = 4
	Debug   MessageType = 5
)

type LogMessageParams struct {
	Type    MessageType    `json:"type"`
	Message string         `json:"message"`
	Extra   map[string]any `json:"extra,omitempty"`
	Time    string         `json:"time,omitempty"`
	Source  string         `json:"source,omitempty"`
}

type CancelParams struct {
	ID any `json:"id"`
}
