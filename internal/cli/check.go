package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go.ngs.io/vsop87-api/internal/domain"
	"go.ngs.io/vsop87-api/internal/logging"
	"go.ngs.io/vsop87-api/internal/vsop87"
)

// CellSummary is the term count of one (variable, power) series.
type CellSummary struct {
	Variable string `json:"variable"`
	Power    int    `json:"power"`
	Terms    int    `json:"terms"`
}

// CheckResult is the outcome of parsing one file.
type CheckResult struct {
	Path  string        `json:"path"`
	Valid bool          `json:"valid"`
	Error string        `json:"error,omitempty"`
	Line  int           `json:"line,omitempty"`
	Cells []CellSummary `json:"cells,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse VSOP87D files and report per-series term counts",
		Long: `Parse each VSOP87D file and print the number of terms in every
series it declares. Exits with status 1 if any file is malformed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()

	results := make([]CheckResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		log.V(logging.DEBUG).Info("Checking file", "path", path)

		result, err := checkFile(path)
		if err != nil {
			var fe *vsop87.FormatError
			if !errors.As(err, &fe) {
				return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", path), err)
			}
			failed++
			result = CheckResult{Path: path, Error: fe.Error(), Line: fe.Line}
		}
		results = append(results, result)
	}

	text := func(w io.Writer) {
		for _, r := range results {
			if !r.Valid {
				fmt.Fprintf(w, "✗ %s\n  %s\n", r.Path, r.Error)
				continue
			}
			fmt.Fprintf(w, "✓ %s\n", r.Path)
			for _, c := range r.Cells {
				fmt.Fprintf(w, "  %s%d %6d terms\n", c.Variable, c.Power, c.Terms)
			}
		}
	}

	if failed > 0 {
		message := fmt.Sprintf("%d of %d file(s) failed to parse", failed, len(paths))
		if err := formatter.Failure(message, results, text); err != nil {
			return err
		}
		return NewExitError(ExitFailure, message)
	}
	return formatter.Success(results, text)
}

func checkFile(path string) (CheckResult, error) {
	//nolint:gosec // G304: path is a command-line argument.
	f, err := os.Open(path)
	if err != nil {
		return CheckResult{}, err
	}
	defer func() { _ = f.Close() }()

	table, err := vsop87.Parse(f)
	if err != nil {
		return CheckResult{}, err
	}

	return CheckResult{Path: path, Valid: true, Cells: summarize(table)}, nil
}

// summarize lists every present cell, including declared empty ones.
func summarize(t *domain.Table) []CellSummary {
	cells := make([]CellSummary, 0)
	for _, v := range domain.Variables {
		for p := 0; p <= domain.MaxPower; p++ {
			if t.Present(v, p) {
				cells = append(cells, CellSummary{Variable: v.String(), Power: p, Terms: len(t.Terms(v, p))})
			}
		}
	}
	return cells
}
