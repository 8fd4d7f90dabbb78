package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"go.ngs.io/vsop87-api/internal/domain"
	"go.ngs.io/vsop87-api/internal/vsop87"
)

// EvalResult is one evaluated position.
type EvalResult struct {
	Body         string  `json:"body"`
	Time         string  `json:"time,omitempty"`
	Tau          float64 `json:"tau"`
	LongitudeRad float64 `json:"longitude_rad"`
	LatitudeRad  float64 `json:"latitude_rad"`
	LongitudeDeg float64 `json:"longitude_deg"`
	LatitudeDeg  float64 `json:"latitude_deg"`
	RadiusAU     float64 `json:"radius_au"`
}

type evalOptions struct {
	tau  float64
	time string
	file string
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval <body>",
		Short: "Evaluate a body's heliocentric position",
		Long: `Evaluate L, B and R for a body at a raw tau (Julian millennia from
J2000.0 TT) or at an RFC 3339 instant, which is taken as TT.
Without either flag the position at J2000.0 is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.tau, "tau", 0, "Julian millennia from J2000.0")
	cmd.Flags().StringVar(&opts.time, "time", "", "RFC 3339 instant")
	cmd.Flags().StringVar(&opts.file, "file", "", "read coefficients from this file instead of the data directory")
	cmd.MarkFlagsMutuallyExclusive("tau", "time")

	return cmd
}

func runEval(rootOpts *RootOptions, opts *evalOptions, body string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	result := EvalResult{Body: domain.NormalizeBodyAbbr(body), Tau: opts.tau}
	if opts.time != "" {
		t, err := time.Parse(time.RFC3339, opts.time)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --time (expected RFC3339)", err)
		}
		result.Time = t.UTC().Format(time.RFC3339Nano)
		result.Tau = domain.Tau(t)
	}

	model, err := loadModel(rootOpts, result.Body, opts.file)
	if err != nil {
		return err
	}

	pos := domain.PositionAt(model, result.Tau)
	result.LongitudeRad = pos.Longitude
	result.LatitudeRad = pos.Latitude
	result.RadiusAU = pos.Radius
	result.LongitudeDeg = domain.Radians(pos.Longitude).NormalizePositive().Deg()
	result.LatitudeDeg = domain.Radians(pos.Latitude).NormalizeAroundZero().Deg()

	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "body  %s\n", result.Body)
		if result.Time != "" {
			fmt.Fprintf(w, "time  %s\n", result.Time)
		}
		fmt.Fprintf(w, "tau   %.12f\n", result.Tau)
		fmt.Fprintf(w, "L     %.12f rad  %.9f°\n", result.LongitudeRad, result.LongitudeDeg)
		fmt.Fprintf(w, "B     %.12f rad  %.9f°\n", result.LatitudeRad, result.LatitudeDeg)
		fmt.Fprintf(w, "R     %.12f AU\n", result.RadiusAU)
	})
}

// loadModel reads the body's series from path, or from the data directory
// when path is empty.
func loadModel(opts *RootOptions, body, path string) (domain.PositionModel, error) {
	if path == "" {
		s, err := opts.store()
		if err != nil {
			return nil, err
		}
		m, err := s.LoadForBody(body)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", body), err)
		}
		return m, nil
	}

	//nolint:gosec // G304: path is a command-line argument.
	f, err := os.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open coefficient file", err)
	}
	defer func() { _ = f.Close() }()

	table, err := vsop87.Parse(f)
	if err != nil {
		return nil, WrapExitError(ExitFailure, fmt.Sprintf("failed to parse %s", path), err)
	}
	return domain.NewSeries(table), nil
}
