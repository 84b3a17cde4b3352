package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

// inputFlags selects the molecule of a one-shot command.
type inputFlags struct {
	example string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.example, "example", "e", "", "catalog example, as name or category/name")
}

// request builds a layout request from the positional SMILES or --example.
func (f *inputFlags) request(args []string) (*layout.Request, error) {
	switch {
	case len(args) == 1 && f.example != "":
		return nil, errors.InvalidParam("give either a SMILES argument or --example, not both")
	case len(args) == 1:
		return &layout.Request{SMILES: args[0]}, nil
	case f.example != "":
		return &layout.Request{Example: f.example}, nil
	default:
		return nil, errors.InvalidParam("a SMILES argument or --example is required")
	}
}

// NewLayoutCmd creates the layout command.
func NewLayoutCmd() *cobra.Command {
	var (
		input inputFlags
		opts  layout.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [smiles]",
		Short: "Lay out one molecule",
		Long: `Parse a SMILES string or catalog example, perceive its rings and chains and
place every ring system. Ring-level problems are reported as diagnostics and do
not fail the command.`,
		Example: `  molsdg layout 'c1ccc2ccccc2c1'
  molsdg layout --example pah/anthracene -o table`,
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
			req.Options = opts

			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()
			res, err := cliCtx.Service.Layout(ctx, req)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return PrintResult(cmd, res)
			}
			return PrintResult(cmd, resultView{res})
		},
	}

	input.register(cmd)
	cmd.Flags().Float64Var(&opts.BondLength, "bond-length", 0, "ring edge length (default from config)")
	cmd.Flags().IntVar(&opts.MaxSharedBonds, "max-shared-bonds", 0, "peeling cutoff on shared bonds (default from config)")
	cmd.Flags().IntVar(&opts.MaxBetaAtoms, "max-beta-atoms", 0, "chain candidate beta atom limit (default from config)")
	return cmd
}

// resultView renders a layout result for the text and table outputs.
type resultView struct {
	*layout.Result
}

func (v resultView) TableHeaders() []string {
	return []string{"Ring", "Group", "Type", "Placed", "Direction", "Center", "Atoms"}
}

func (v resultView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Rings))
	for _, r := range v.Rings {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.Group),
			r.Type,
			strconv.FormatBool(r.Placed),
			r.Direction,
			formatPoint(r.Center),
			joinInts(r.Atoms),
		})
	}
	return rows
}

func (v resultView) WriteText(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "smiles:  %s\n", v.SMILES)
	if v.Example != "" {
		fmt.Fprintf(&sb, "example: %s\n", v.Example)
	}
	fmt.Fprintf(&sb, "atoms:   %d  bonds: %d  rings: %d  chains: %d\n",
		len(v.Atoms), len(v.Bonds), len(v.Rings), len(v.Chains))

	for _, g := range v.RingGroups {
		status := color.GreenString("complete")
		if !g.Complete {
			status = color.YellowString("incomplete")
		}
		fmt.Fprintf(&sb, "group %d: rings [%s] peel order [%s] %s\n",
			g.ID, joinInts(g.Rings), joinInts(g.PeelOrder), status)
	}
	for _, r := range v.Rings {
		fmt.Fprintf(&sb, "ring %d: %-9s %s", r.ID, r.Type, joinInts(r.Atoms))
		if r.Placed {
			fmt.Fprintf(&sb, " center %s", formatPoint(r.Center))
		}
		sb.WriteString("\n")
	}
	for i, c := range v.Chains {
		fmt.Fprintf(&sb, "chain %d: %s caps %d,%d\n", i, joinInts(c.Atoms), c.Caps[0], c.Caps[1])
	}
	if len(v.Unpositioned) > 0 {
		fmt.Fprintf(&sb, "%s %s\n", color.YellowString("unpositioned:"), joinInts(v.Unpositioned))
	}
	for _, d := range v.Diagnostics {
		label := color.YellowString(d.Code)
		if d.Severity == "error" {
			label = color.RedString(d.Code)
		}
		fmt.Fprintf(&sb, "%s %s\n", label, d.Message)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func formatPoint(p *layout.Point) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

//Personal.AI order the ending
