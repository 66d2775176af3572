// Package cli implements the habits command-line interface: the HTTP
// server plus offline maintenance commands against the same store.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/internal/logging"
	"github.com/mesh-intelligence/habits/internal/paths"
	"github.com/mesh-intelligence/habits/internal/sqlite"
	"github.com/mesh-intelligence/habits/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// app holds global flag values and the configuration loaded before any
// subcommand runs.
type app struct {
	configDir string
	dataDir   string
	jsonMode  bool

	settings settings
}

// NewRootCmd creates the top-level "habits" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "habits",
		Short: "A personal habit tracker",
		Long: "habits records daily values for user-defined habits in a local SQLite\n" +
			"store and serves them over a JSON HTTP API.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadSettings,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/habits)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/habits)")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newServeCmd())
	root.AddCommand(a.newExportCmd())
	root.AddCommand(a.newImportCmd())
	root.AddCommand(a.newCleanupCmd())

	return root
}

// Execute runs the root command against os.Args and returns the exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:])
}

func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}

	fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument parsing errors come from cobra unwrapped.
	return exitUserError
}

// loadSettings resolves directories and reads config.yaml.
func (a *app) loadSettings(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolving config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	dataDir, err := paths.ResolveDataDir(a.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return sysError(fmt.Errorf("resolving data dir: %w", err))
	}

	a.settings = settings{
		ConfigDir: configDir,
		DataDir:   dataDir,
		Listen:    v.GetString(cfgKeyListen),
		LogLevel:  v.GetString(cfgKeyLogLevel),
		LogFormat: v.GetString(cfgKeyLogFormat),
	}
	return nil
}

// newLogger builds the logger described by the loaded settings.
func (a *app) newLogger() (*zap.Logger, error) {
	logger, err := logging.New(a.settings.LogLevel, a.settings.LogFormat)
	if err != nil {
		return nil, userError(fmt.Errorf("configuring logger: %w", err))
	}
	return logger, nil
}

// attachBackend opens the store in the resolved data directory. The caller
// must Detach the returned backend.
func (a *app) attachBackend(logger *zap.Logger) (*sqlite.Backend, error) {
	backend := sqlite.NewBackend(logger)
	err := backend.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: a.settings.DataDir,
	})
	if err != nil {
		return nil, sysError(fmt.Errorf("opening store: %w", err))
	}
	return backend, nil
}

// withBackend runs fn against an attached backend and detaches afterwards.
func (a *app) withBackend(fn func(b *sqlite.Backend) error) error {
	logger, err := a.newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	backend, err := a.attachBackend(logger)
	if err != nil {
		return err
	}
	defer backend.Detach()

	return fn(backend)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
