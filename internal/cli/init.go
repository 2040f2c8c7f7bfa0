package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/internal/config"
	"github.com/mesh-intelligence/ledger/internal/paths"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Long: `Create the configuration directory and a config.yaml recording the
backend, data directory, and file given by flags. An existing config.yaml is
left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}
}

func runInit(cmd *cobra.Command, opts *rootOptions) error {
	configDir, err := paths.ResolveConfigDir(opts.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}

	seed := types.Config{
		Backend: opts.backend,
		File:    opts.file,
	}
	if seed.Backend == "" {
		seed.Backend = config.DefaultBackend
	}
	if err := seed.Validate(); err != nil {
		return systemError(fmt.Errorf("backend %q: %w", seed.Backend, err))
	}
	if opts.dataDir != "" {
		dataDir, err := paths.ResolveDataDir(opts.dataDir, "")
		if err != nil {
			return systemError(fmt.Errorf("resolve data dir: %w", err))
		}
		seed.DataDir = dataDir
	}

	path, created, err := config.WriteDefault(configDir, seed)
	if err != nil {
		return systemError(err)
	}

	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintf(out, "Wrote %s\n", path)
	} else {
		fmt.Fprintf(out, "Config already exists at %s\n", path)
	}

	_, cfg, err := opts.resolveConfig()
	if err != nil {
		return systemError(err)
	}
	fmt.Fprintf(out, "Inventory document: %s (%s)\n", cfg.DocumentPath(), cfg.Backend)
	return nil
}
