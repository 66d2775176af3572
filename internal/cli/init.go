package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habits/internal/sqlite"
	"github.com/mesh-intelligence/habits/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize habits storage",
		Long: "Create the configuration and data directories, write a default config.yaml\n" +
			"and create or migrate the habit store.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	err := a.withBackend(func(*sqlite.Backend) error { return nil })
	if err != nil {
		return err
	}

	dbPath := filepath.Join(a.settings.DataDir, types.DatabaseFile)
	if a.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"config_dir": a.settings.ConfigDir,
			"data_dir":   a.settings.DataDir,
			"database":   dbPath,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Habits initialized at %s\n", dbPath)
	return nil
}
