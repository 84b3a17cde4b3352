package molecule

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Report is the per-atom property listing printed by the command line.
type Report struct {
	Symbols        []string    `json:"symbols"`
	Charges        []int       `json:"charges"`
	Isotopes       []int       `json:"isotopes"`
	Hybridizations []string    `json:"hybridizations"`
	Degrees        []int       `json:"degrees"`
	BondOrders     [][]float64 `json:"bond_orders"`
	Alpha          [][]int     `json:"alpha"`
	Beta           [][]int     `json:"beta"`
}

// NewReport collects the derived properties of every atom in g.
func NewReport(g *Graph) *Report {
	n := g.Size()
	r := &Report{
		Symbols:        make([]string, n),
		Charges:        make([]int, n),
		Isotopes:       make([]int, n),
		Hybridizations: make([]string, n),
		Degrees:        make([]int, n),
		BondOrders:     g.BondOrderMatrix(),
		Alpha:          make([][]int, n),
		Beta:           make([][]int, n),
	}
	for i := 0; i < n; i++ {
		a := g.Atom(i)
		r.Symbols[i] = a.Symbol
		if a.Aromatic {
			r.Symbols[i] = strings.ToLower(a.Symbol)
		}
		r.Charges[i] = a.Charge
		r.Isotopes[i] = a.Isotope
		r.Hybridizations[i] = g.Hybridization(i).String()
		r.Degrees[i] = g.Degree(i)
		r.Alpha[i] = append([]int{}, g.Alpha(i)...)
		r.Beta[i] = append([]int{}, g.Beta(i)...)
	}
	return r
}

// WriteText renders the report as aligned plain text.
func (r *Report) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("types:          %s\n", strings.Join(r.Symbols, " "))
	ew.printf("charges:        %s\n", joinInts(r.Charges))
	ew.printf("isotopes:       %s\n", joinInts(r.Isotopes))
	ew.printf("hybridizations: %s\n", strings.Join(r.Hybridizations, " "))
	ew.printf("degrees:        %s\n", joinInts(r.Degrees))

	ew.printf("\nbond orders:\n")
	ew.printf("     ")
	for j := range r.BondOrders {
		ew.printf("%4d", j)
	}
	ew.printf("\n")
	for i, row := range r.BondOrders {
		ew.printf("%4d ", i)
		for _, o := range row {
			ew.printf("%4s", formatOrder(o))
		}
		ew.printf("\n")
	}

	ew.printf("\nalpha atoms:\n")
	for i, nbrs := range r.Alpha {
		ew.printf("%4d %-2s %s\n", i, r.Symbols[i], joinInts(nbrs))
	}
	ew.printf("\nbeta atoms:\n")
	for i, nbrs := range r.Beta {
		ew.printf("%4d %-2s %s\n", i, r.Symbols[i], joinInts(nbrs))
	}
	return ew.err
}

func formatOrder(o float64) string {
	if o == 0 {
		return "."
	}
	return strconv.FormatFloat(o, 'g', -1, 64)
}

func joinInts(vals []int) string {
	if len(vals) == 0 {
		return "-"
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

//Personal.AI order the ending
