package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// BodyStatus is a catalog entry with data availability.
type BodyStatus struct {
	Abbr      string `json:"abbr"`
	Name      string `json:"name"`
	File      string `json:"file"`
	Available bool   `json:"available"`
}

// NewBodiesCommand creates the bodies command.
func NewBodiesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bodies",
		Short: "List catalogued bodies and whether their data file exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBodies(rootOpts, cmd)
		},
	}
}

func runBodies(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := opts.store()
	if err != nil {
		return err
	}

	available, err := s.ListBodies()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to scan data directory", err)
	}
	availableSet := make(map[string]bool, len(available))
	for _, abbr := range available {
		availableSet[abbr] = true
	}

	bodies := s.Catalog().Bodies()
	statuses := make([]BodyStatus, len(bodies))
	for i, b := range bodies {
		statuses[i] = BodyStatus{Abbr: b.Abbr, Name: b.Name, File: s.Path(b), Available: availableSet[b.Abbr]}
	}

	return formatter.Success(statuses, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ABBR\tNAME\tAVAILABLE\tFILE")
		for _, st := range statuses {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", st.Abbr, st.Name, st.Available, st.File)
		}
		_ = tw.Flush()
	})
}
