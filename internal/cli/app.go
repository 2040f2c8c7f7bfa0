package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/catalog"
	"github.com/mesh-intelligence/ledger/internal/config"
	"github.com/mesh-intelligence/ledger/internal/jsonfile"
	"github.com/mesh-intelligence/ledger/internal/logging"
	"github.com/mesh-intelligence/ledger/internal/paths"
	"github.com/mesh-intelligence/ledger/internal/sqlite"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// app is the per-invocation wiring: resolved config, logger, store, and the
// hydrated catalog.
type app struct {
	cfg     types.Config
	log     zerolog.Logger
	store   types.Store
	catalog *catalog.Catalog

	// loadErr is the informational load outcome (nil, ErrNotFound, or
	// ErrCorruptFormat).
	loadErr error
}

// resolveConfig finds the config directory and merges config.yaml, env, and
// flags.
func (o *rootOptions) resolveConfig() (string, types.Config, error) {
	configDir, err := paths.ResolveConfigDir(o.configDir)
	if err != nil {
		return "", types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := config.Load(configDir)
	if err != nil {
		return "", types.Config{}, err
	}
	cfg, err := config.Resolve(v, config.Overrides{
		Backend:  o.backend,
		DataDir:  o.dataDir,
		File:     o.file,
		LogLevel: o.logLevel,
	})
	if err != nil {
		return "", types.Config{}, err
	}
	return configDir, cfg, nil
}

// open resolves configuration and hydrates a catalog from the configured
// store. A missing or corrupt document is logged and leaves the catalog
// empty; any other load failure is returned.
func (o *rootOptions) open(cmd *cobra.Command) (*app, error) {
	_, cfg, err := o.resolveConfig()
	if err != nil {
		return nil, systemError(err)
	}

	a := &app{
		cfg:     cfg,
		log:     logging.New(cmd.ErrOrStderr(), cfg.LogLevel),
		store:   newStore(cfg),
		catalog: catalog.New(),
	}

	err = a.catalog.LoadFrom(cmd.Context(), a.store)
	switch {
	case err == nil:
		a.log.Info().Str("path", a.store.Location()).Int("items", a.catalog.Len()).Msg("inventory loaded")
	case catalog.IsInformational(err):
		a.log.Warn().Err(err).Str("path", a.store.Location()).Msg("starting with an empty inventory")
		a.loadErr = err
	default:
		a.log.Error().Err(err).Str("path", a.store.Location()).Msg("load failed")
		return nil, systemError(err)
	}
	return a, nil
}

// save flushes the catalog to the store once.
func (a *app) save(ctx context.Context) error {
	if err := a.catalog.SaveTo(ctx, a.store); err != nil {
		a.log.Error().Err(err).Str("path", a.store.Location()).Msg("save failed")
		return systemError(err)
	}
	a.log.Info().Str("path", a.store.Location()).Int("items", a.catalog.Len()).Msg("inventory saved")
	return nil
}

// newStore picks the Store implementation for cfg.Backend.
func newStore(cfg types.Config) types.Store {
	switch cfg.Backend {
	case types.BackendSQLite:
		return sqlite.New(cfg.DocumentPath())
	default:
		return jsonfile.New(cfg.DocumentPath())
	}
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return systemError(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
