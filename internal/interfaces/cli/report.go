package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/molsdg/internal/domain/molecule"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "report [smiles]",
		Short: "Print the per-atom properties of one molecule",
		Long: `Print element symbols, charges, isotopes, hybridizations, degrees, the bond
order matrix and the alpha and beta neighbour lists of one molecule.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			req, err := input.request(args)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()
			rep, err := cliCtx.Service.Report(ctx, req)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "table" {
				return PrintResult(cmd, reportTable{rep})
			}
			return PrintResult(cmd, rep)
		},
	}

	input.register(cmd)
	return cmd
}

// reportTable lists one atom per row.
type reportTable struct {
	*molecule.Report
}

func (t reportTable) TableHeaders() []string {
	return []string{"Atom", "Symbol", "Charge", "Isotope", "Hybridization", "Degree", "Alpha", "Beta"}
}

func (t reportTable) TableRows() [][]string {
	rows := make([][]string, len(t.Symbols))
	for i := range t.Symbols {
		rows[i] = []string{
			strconv.Itoa(i),
			t.Symbols[i],
			strconv.Itoa(t.Charges[i]),
			strconv.Itoa(t.Isotopes[i]),
			t.Hybridizations[i],
			strconv.Itoa(t.Degrees[i]),
			joinInts(t.Alpha[i]),
			joinInts(t.Beta[i]),
		}
	}
	return rows
}

//Personal.AI order the ending
