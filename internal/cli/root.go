// Package cli implements the ledger command-line interface: one-shot
// subcommands over the catalog plus the interactive shell.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

// Version is the ledger release.
const Version = "0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootOptions holds global flag values. One instance is created per root
// command and handed to every subcommand.
type rootOptions struct {
	configDir string
	dataDir   string
	file      string
	backend   string
	logLevel  string
	jsonMode  bool
}

// NewRootCmd creates the top-level "ledger" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "ledger",
		Short: "A single-user inventory ledger",
		Long: `ledger keeps an inventory of items (id, name, price, quantity) in a
document on disk. Run "ledger shell" for the interactive menu, or use the
subcommands for one-shot changes and queries.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/ledger)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "directory holding the inventory document (default: current directory)")
	pf.StringVar(&opts.file, "file", "", "inventory document file name (default: inventory.json or inventory.db)")
	pf.StringVar(&opts.backend, "backend", "", "storage backend: json or sqlite (default: json)")
	pf.StringVar(&opts.logLevel, "log-level", "", "diagnostic log level: debug, info, warn, error (default: warn)")
	pf.BoolVar(&opts.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newShellCmd(opts))
	root.AddCommand(newAddCmd(opts))
	root.AddCommand(newUpdateCmd(opts))
	root.AddCommand(newDeleteCmd(opts))
	root.AddCommand(newGetCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newLowStockCmd(opts))
	root.AddCommand(newTotalCmd(opts))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitError pairs an error with the process exit code and the line shown
// to the user. errors.Is still sees the wrapped error.
type exitError struct {
	code int
	msg  string
	err  error
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) Unwrap() error { return e.err }

// userError reports a rejected operation; msg is the rendered outcome.
func userError(msg string, err error) error {
	return &exitError{code: exitUserError, msg: msg, err: err}
}

// systemError reports a configuration or I/O failure.
func systemError(err error) error {
	return &exitError{code: exitSysError, msg: err.Error(), err: err}
}

// exitCode maps an error returned by the command tree to an exit code.
// Errors cobra raises itself (unknown flags, wrong arg counts) are user
// errors.
func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrBackendEmpty) {
		return exitSysError
	}
	return exitUserError
}
