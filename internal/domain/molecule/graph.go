// Package molecule holds the molecular graph at the centre of the layout
// pipeline. A Graph is assembled once by a Builder and is read-only
// afterwards; per-atom derived tables (alpha and beta atoms, hybridization,
// degree) are computed on first use and cached for the lifetime of the graph.
package molecule

import (
	"fmt"
	"sync"

	"github.com/turtacn/molsdg/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Value objects
// ─────────────────────────────────────────────────────────────────────────────

// Atom is the per-atom label data carried by the graph.
type Atom struct {
	Symbol   string `json:"symbol"`
	Charge   int    `json:"charge"`
	Isotope  int    `json:"isotope,omitempty"`
	Aromatic bool   `json:"aromatic"`

	// HCount is the explicit hydrogen count from a bracket atom, -1 when implicit.
	HCount int `json:"h_count"`
}

// IsCarbon reports whether the atom is a carbon.
func (a Atom) IsCarbon() bool { return a.Symbol == "C" }

// IsHetero reports whether the atom is neither carbon nor hydrogen.
func (a Atom) IsHetero() bool { return a.Symbol != "C" && a.Symbol != "H" }

// Bond is an unordered atom pair with its order. A is always less than B.
type Bond struct {
	A     int     `json:"a"`
	B     int     `json:"b"`
	Order float64 `json:"order"`
}

// Valid bond orders.
const (
	BondNone     = 0.0
	BondSingle   = 1.0
	BondAromatic = 1.5
	BondDouble   = 2.0
	BondTriple   = 3.0
)

// ─────────────────────────────────────────────────────────────────────────────
// Graph
// ─────────────────────────────────────────────────────────────────────────────

// Graph is an immutable molecular graph. Connected(i, j) holds exactly when
// BondOrder(i, j) > 0. All methods are safe for concurrent use.
type Graph struct {
	atoms []Atom
	order [][]float64
	bonds []Bond

	alphaOnce sync.Once
	alpha     [][]int

	betaOnce sync.Once
	beta     [][]int

	hybOnce sync.Once
	hyb     []Hybridization

	degreeOnce sync.Once
	degree     []int
}

// Size returns the atom count.
func (g *Graph) Size() int { return len(g.atoms) }

// Atom returns the label data for atom i.
func (g *Graph) Atom(i int) Atom { return g.atoms[i] }

// Atoms returns a copy of all atom labels.
func (g *Graph) Atoms() []Atom {
	out := make([]Atom, len(g.atoms))
	copy(out, g.atoms)
	return out
}

// Connected reports whether atoms i and j share a bond.
func (g *Graph) Connected(i, j int) bool {
	return g.order[i][j] > 0
}

// BondOrder returns the order of the bond between i and j, or 0.
func (g *Graph) BondOrder(i, j int) float64 {
	return g.order[i][j]
}

// Bonds returns every bond in row-major order.
func (g *Graph) Bonds() []Bond {
	out := make([]Bond, len(g.bonds))
	copy(out, g.bonds)
	return out
}

// BondCount returns the number of bonds.
func (g *Graph) BondCount() int { return len(g.bonds) }

// BondOrderMatrix returns a copy of the full bond-order matrix.
func (g *Graph) BondOrderMatrix() [][]float64 {
	out := make([][]float64, len(g.order))
	for i, row := range g.order {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// Components returns the number of connected components.
func (g *Graph) Components() int {
	n := g.Size()
	seen := make([]bool, n)
	count := 0
	stack := make([]int, 0, n)
	for s := 0; s < n; s++ {
		if seen[s] {
			continue
		}
		count++
		seen[s] = true
		stack = append(stack[:0], s)
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, w := range g.Alpha(v) {
				if !seen[w] {
					seen[w] = true
					stack = append(stack, w)
				}
			}
		}
	}
	return count
}

// CycleRank returns E - V + C, the number of independent rings.
func (g *Graph) CycleRank() int {
	return g.BondCount() - g.Size() + g.Components()
}

// ─────────────────────────────────────────────────────────────────────────────
// Builder
// ─────────────────────────────────────────────────────────────────────────────

// Builder accumulates atoms and bonds and produces an immutable Graph.
// A Builder must not be reused after Build.
type Builder struct {
	atoms []Atom
	bonds map[[2]int]float64
	keys  [][2]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{bonds: make(map[[2]int]float64)}
}

// AddAtom appends an atom and returns its index.
func (b *Builder) AddAtom(a Atom) int {
	b.atoms = append(b.atoms, a)
	return len(b.atoms) - 1
}

// Atom returns the atom at index i.
func (b *Builder) Atom(i int) Atom { return b.atoms[i] }

// Len returns the number of atoms added so far.
func (b *Builder) Len() int { return len(b.atoms) }

// AddBond connects i and j. Self loops, duplicate bonds, unknown indices and
// orders outside {1, 1.5, 2, 3} are rejected as malformed input.
func (b *Builder) AddBond(i, j int, order float64) error {
	if i < 0 || j < 0 || i >= len(b.atoms) || j >= len(b.atoms) {
		return errors.MalformedInput("bond references unknown atom").
			WithDetail(fmt.Sprintf("atoms=%d,%d size=%d", i, j, len(b.atoms)))
	}
	if i == j {
		return errors.MalformedInput("atom bonded to itself").WithDetail(fmt.Sprintf("atom=%d", i))
	}
	switch order {
	case BondSingle, BondAromatic, BondDouble, BondTriple:
	default:
		return errors.MalformedInput("unsupported bond order").WithDetail(fmt.Sprintf("order=%g", order))
	}
	key := [2]int{i, j}
	if i > j {
		key = [2]int{j, i}
	}
	if _, dup := b.bonds[key]; dup {
		return errors.MalformedInput("duplicate bond").WithDetail(fmt.Sprintf("atoms=%d,%d", key[0], key[1]))
	}
	b.bonds[key] = order
	b.keys = append(b.keys, key)
	return nil
}

// Build returns the finished Graph.
func (b *Builder) Build() *Graph {
	n := len(b.atoms)
	order := make([][]float64, n)
	for i := range order {
		order[i] = make([]float64, n)
	}
	for _, k := range b.keys {
		o := b.bonds[k]
		order[k[0]][k[1]] = o
		order[k[1]][k[0]] = o
	}

	g := &Graph{
		atoms: append([]Atom(nil), b.atoms...),
		order: order,
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if order[i][j] > 0 {
				g.bonds = append(g.bonds, Bond{A: i, B: j, Order: order[i][j]})
			}
		}
	}
	return g
}

//Personal.AI order the ending
