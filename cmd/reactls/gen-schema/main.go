package gen_schema

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/rbxtools/reactls/pkg/config"
	"github.com/rbxtools/reactls/pkg/schema"
)

type Handler struct {
	configPath  string
	readableDir string
}

func NewGenSchemaCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "gen-schema",
		Short: "download the API dump and regenerate the schema cache",
	}

	cmd.Flags().StringVar(&me.configPath, "config", "reactls.toml", "path to the configuration file")
	cmd.Flags().StringVar(&me.readableDir, "readable", "", "also write an indented JSON copy into this directory")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	fs := afero.NewOsFs()

	cfg, err := config.Load(fs, me.configPath)
	if err != nil {
		return errors.Errorf("loading configuration: %w", err)
	}

	cachePath := cfg.Schema.CachePath
	if cachePath == "" {
		cachePath, err = schema.DefaultCachePath()
		if err != nil {
			return errors.Errorf("resolving cache path: %w", err)
		}
	}
	loader := schema.NewLoader(fs, nil, cfg.Schema.VersionURL, cfg.Schema.DumpURLFormat, cachePath)

	entries, err := loader.Download(ctx)
	if err != nil {
		return errors.Errorf("downloading api dump: %w", err)
	}

	if err := loader.WriteCache(entries); err != nil {
		return errors.Errorf("writing schema cache: %w", err)
	}
	logger.Info().Int("classes", len(entries)).Str("cache", cachePath).Msg("schema cache written")

	if me.readableDir != "" {
		if err := loader.WriteReadable(me.readableDir, entries); err != nil {
			return errors.Errorf("writing readable schema: %w", err)
		}
	}

	return nil
}
