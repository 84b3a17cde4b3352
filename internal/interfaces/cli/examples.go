package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/molsdg/internal/domain/catalog"
)

// NewExamplesCmd creates the examples command.
func NewExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples [category]",
		Short: "List the built-in example molecules",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			category := ""
			if len(args) == 1 {
				category = args[0]
			}
			entries, err := cliCtx.Service.Examples(cmd.Context(), category)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				if entries == nil {
					entries = []catalog.Entry{}
				}
				return PrintResult(cmd, entries)
			}
			return PrintResult(cmd, entryList(entries))
		},
	}
}

type entryList []catalog.Entry

func (l entryList) TableHeaders() []string { return []string{"Category", "Name", "SMILES"} }

func (l entryList) TableRows() [][]string {
	rows := make([][]string, len(l))
	for i, e := range l {
		rows[i] = []string{e.Category, e.Name, e.SMILES}
	}
	return rows
}

func (l entryList) WriteText(w io.Writer) error {
	width := 0
	for _, e := range l {
		if n := len(e.Key()); n > width {
			width = n
		}
	}
	var sb strings.Builder
	for _, e := range l {
		fmt.Fprintf(&sb, "%-*s  %s\n", width, e.Key(), e.SMILES)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

//Personal.AI order the ending
