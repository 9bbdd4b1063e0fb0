package serve_lsp

import (
	"context"
	"os"

	"github.com/creachadair/jrpc2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/rbxtools/reactls/pkg/config"
	"github.com/rbxtools/reactls/pkg/lsp"
	"github.com/rbxtools/reactls/pkg/schema"
)

type Handler struct {
	debug      bool
	configPath string
}

func NewServeLSPCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the language server on stdin/stdout",
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&me.configPath, "config", "reactls.toml", "path to the configuration file")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

type RPCLogger struct {
}

func (me *RPCLogger) LogRequest(ctx context.Context, req *jrpc2.Request) {
	zerolog.Ctx(ctx).Debug().Str("rpc_params", req.ParamString()).Str("rpc_id", req.ID()).Str("rpc_method", req.Method()).Msg("client request")
}

func (me *RPCLogger) LogResponse(ctx context.Context, res *jrpc2.Response) {
	zerolog.Ctx(ctx).Debug().Str("rpc_params", res.ResultString()).Str("rpc_id", res.ID()).Msg("server response")
}

func (me *Handler) Run(ctx context.Context) error {
	fs := afero.NewOsFs()

	cfg, err := config.Load(fs, me.configPath)
	if err != nil {
		return errors.Errorf("loading configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if me.debug {
		level = zerolog.DebugLevel
	}

	// stdout carries the LSP wire protocol; bootstrap logs go to stderr
	// until the connection is up, then forward to the client.
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
	ctx = logger.WithContext(ctx)

	cachePath := cfg.Schema.CachePath
	if cachePath == "" {
		cachePath, err = schema.DefaultCachePath()
		if err != nil {
			return errors.Errorf("resolving cache path: %w", err)
		}
	}
	loader := schema.NewLoader(fs, nil, cfg.Schema.VersionURL, cfg.Schema.DumpURLFormat, cachePath)

	server, err := lsp.NewServer(ctx, cfg, loader)
	if err != nil {
		return errors.Errorf("building language server: %w", err)
	}

	opts := &jrpc2.ServerOptions{
		RPCLog: &RPCLogger{},
	}

	instance := server.BuildServerInstance(ctx, opts)

	if err := instance.StartAndWait(os.Stdin, os.Stdout); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}
