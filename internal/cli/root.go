// Package cli implements the vsopctl command tree.
package cli

import (
	"fmt"
	"slices"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"go.ngs.io/vsop87-api/internal/adapter/store/file"
	"go.ngs.io/vsop87-api/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DataDir string
	Catalog string // Optional YAML catalog path.
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for vsopctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vsopctl",
		Short: "Inspect and evaluate VSOP87D planetary theory files",
		Long: `vsopctl parses VSOP87D coefficient files, evaluates heliocentric
ecliptical positions and precomputes NetCDF ephemeris grids for the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "./data/vsop87", "directory holding VSOP87D.<abbr> files")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "YAML body catalog (default: built-in eight planets)")

	// Add subcommands
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewBodiesCommand(opts))
	cmd.AddCommand(NewGridCommand(opts))

	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func (o *RootOptions) logger() logr.Logger {
	return logging.NewConsoleLogger(o.Verbose)
}

// store opens the coefficient store named by the global flags.
func (o *RootOptions) store() (*file.Store, error) {
	catalog := file.DefaultCatalog()
	if o.Catalog != "" {
		var err error
		if catalog, err = file.LoadCatalog(o.Catalog); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load catalog", err)
		}
	}
	return file.NewStore(o.DataDir, catalog, o.logger()), nil
}
