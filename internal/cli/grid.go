package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"go.ngs.io/vsop87-api/internal/adapter/store/grid"
	"go.ngs.io/vsop87-api/internal/domain"
	"go.ngs.io/vsop87-api/internal/logging"
)

// GridResult describes a written ephemeris grid.
type GridResult struct {
	Body     string  `json:"body"`
	Path     string  `json:"path"`
	Points   int     `json:"points"`
	TauStart float64 `json:"tau_start"`
	TauEnd   float64 `json:"tau_end"`
}

type gridOptions struct {
	tauStart float64
	tauEnd   float64
	step     float64
	out      string
}

// NewGridCommand creates the grid command.
func NewGridCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &gridOptions{}

	cmd := &cobra.Command{
		Use:   "grid <body>",
		Short: "Sample a body's series into a NetCDF ephemeris grid",
		Long: `Evaluate the body's series every --step millennia between --tau-start
and --tau-end and write the samples to a NetCDF file the server can serve
with source=grid. Name the output <abbr>.nc inside the server's GRID_DIR.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrid(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.tauStart, "tau-start", -0.1, "first tau sample")
	cmd.Flags().Float64Var(&opts.tauEnd, "tau-end", 0.1, "last tau sample")
	cmd.Flags().Float64Var(&opts.step, "step", 1.0/domain.DaysPerMillennium, "tau spacing (default one day)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output NetCDF path (default <abbr>.nc)")

	return cmd
}

func runGrid(rootOpts *RootOptions, opts *gridOptions, body string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	log := rootOpts.logger()

	abbr := domain.NormalizeBodyAbbr(body)
	out := opts.out
	if out == "" {
		out = abbr + ".nc"
	}

	model, err := loadModel(rootOpts, abbr, "")
	if err != nil {
		return err
	}

	positions, err := grid.Sample(model, opts.tauStart, opts.tauEnd, opts.step)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid grid range", err)
	}
	log.V(logging.DEBUG).Info("Sampled series", "body", abbr, "points", len(positions))

	if err := grid.Write(out, abbr, positions); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to write %s", out), err)
	}

	result := GridResult{
		Body:     abbr,
		Path:     out,
		Points:   len(positions),
		TauStart: positions[0].Tau,
		TauEnd:   positions[len(positions)-1].Tau,
	}
	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Wrote %d samples of %s (tau %.6f to %.6f) to %s\n",
			result.Points, result.Body, result.TauStart, result.TauEnd, result.Path)
	})
}
