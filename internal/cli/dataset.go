package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habits/internal/csvfile"
	"github.com/mesh-intelligence/habits/internal/sqlite"
	"github.com/mesh-intelligence/habits/pkg/types"
)

func (a *app) newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all habits and entries as CSV",
		Long: "Export all habits and entries as a BOM-prefixed UTF-8 CSV file.\n" +
			"Without --output the file is named habits_export_<date>.csv in the\n" +
			"current directory; --output - writes to stdout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(func(b *sqlite.Backend) error {
				records, err := b.ExportRecords(cmd.Context())
				if err != nil {
					return sysError(fmt.Errorf("reading dataset: %w", err))
				}

				if output == "-" {
					if err := csvfile.Write(cmd.OutOrStdout(), records); err != nil {
						return sysError(err)
					}
					return nil
				}

				path := output
				if path == "" {
					path = csvfile.ExportFilename(time.Now())
				}
				if err := writeFile(path, func(w io.Writer) error { return csvfile.Write(w, records) }); err != nil {
					return sysError(err)
				}

				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]any{"file": path, "rows": len(records)})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(records), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, or - for stdout")
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all habits and entries with the contents of a CSV file",
		Long: "Import deletes every existing habit and entry and rebuilds the dataset\n" +
			"from the file. The first row is treated as a header. The import is\n" +
			"atomic: on any error the existing data is kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return userError(err)
			}
			defer f.Close()

			records, err := csvfile.Read(f)
			if err != nil {
				return userError(fmt.Errorf("parsing %s: %w", args[0], err))
			}

			return a.withBackend(func(b *sqlite.Backend) error {
				summary, err := b.ReplaceAll(cmd.Context(), records)
				if err != nil {
					if types.IsValidation(err) {
						return userError(err)
					}
					return sysError(err)
				}

				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), summary)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d habits and %d entries\n", summary.Habits, summary.Entries)
				return nil
			})
		},
	}
}

func (a *app) newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove duplicate entries, keeping the newest of each habit and date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(func(b *sqlite.Backend) error {
				deleted, err := b.RemoveDuplicates(cmd.Context())
				if err != nil {
					return sysError(err)
				}

				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]int64{"deleted_count": deleted})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d duplicate entries\n", deleted)
				return nil
			})
		},
	}
}

// writeFile creates path and writes it with fn, reporting close errors.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("closing %s: %w", path, cerr))
		}
	}()
	return fn(f)
}
