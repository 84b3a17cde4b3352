// Package ring perceives, groups, classifies and draws the rings of a
// molecule.Graph. Perception yields a smallest set of smallest rings,
// grouping partitions it into ring systems, analysis peels each system into
// an ordered list of typed rings and construction places every ring of a
// system as a regular polygon.
package ring

import (
	"fmt"
	"sort"

	"github.com/turtacn/molsdg/internal/domain/geometry"
	"github.com/turtacn/molsdg/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Type
// ─────────────────────────────────────────────────────────────────────────────

// Type is the classification assigned to a ring by peeling.
type Type int

const (
	TypeNone Type = iota
	TypeCore
	TypeToughCore
	TypeFused
	TypeSpiro
	TypeBridged
	TypeIrregular
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeCore:
		return "core"
	case TypeToughCore:
		return "tough_core"
	case TypeFused:
		return "fused"
	case TypeSpiro:
		return "spiro"
	case TypeBridged:
		return "bridged"
	case TypeIrregular:
		return "irregular"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ─────────────────────────────────────────────────────────────────────────────
// Ring
// ─────────────────────────────────────────────────────────────────────────────

type bondKey [2]int

func newBondKey(a, b int) bondKey {
	if a > b {
		a, b = b, a
	}
	return bondKey{a, b}
}

// Ring is a cycle of atoms in traversal order. Consecutive atoms, including
// the last and the first, are bonded. The atom list never changes after
// NewRing; Type and the geometric annotations are filled in by analysis and
// construction.
type Ring struct {
	ID int

	atoms []int
	index map[int]int
	bonds map[bondKey]struct{}

	Type      Type
	Positions []geometry.Point
	Center    geometry.Point
	Placed    bool
}

// NewRing returns the ring through atoms in the given order.
func NewRing(id int, atoms []int) (*Ring, error) {
	if len(atoms) < 3 {
		return nil, errors.New(errors.ErrCodeValidation, "ring needs at least 3 atoms").
			WithDetail(fmt.Sprintf("atoms=%v", atoms))
	}
	r := &Ring{
		ID:        id,
		atoms:     append([]int(nil), atoms...),
		index:     make(map[int]int, len(atoms)),
		bonds:     make(map[bondKey]struct{}, len(atoms)),
		Positions: make([]geometry.Point, len(atoms)),
	}
	for i, a := range r.atoms {
		if _, dup := r.index[a]; dup {
			return nil, errors.New(errors.ErrCodeValidation, "ring repeats an atom").
				WithDetail(fmt.Sprintf("atom=%d", a))
		}
		r.index[a] = i
		r.bonds[newBondKey(a, r.atoms[(i+1)%len(r.atoms)])] = struct{}{}
	}
	return r, nil
}

// Size returns the number of atoms, which equals the number of bonds.
func (r *Ring) Size() int { return len(r.atoms) }

// Atoms returns a copy of the atoms in traversal order.
func (r *Ring) Atoms() []int { return append([]int(nil), r.atoms...) }

// Atom returns the atom at ring position i.
func (r *Ring) Atom(i int) int { return r.atoms[i] }

// Contains reports whether atom a is on the ring.
func (r *Ring) Contains(a int) bool {
	_, ok := r.index[a]
	return ok
}

// Index returns the ring position of atom a, or -1.
func (r *Ring) Index(a int) int {
	if i, ok := r.index[a]; ok {
		return i
	}
	return -1
}

// HasBond reports whether a-b is one of the ring's bonds.
func (r *Ring) HasBond(a, b int) bool {
	_, ok := r.bonds[newBondKey(a, b)]
	return ok
}

// Bonds returns the ring's bonds as sorted atom pairs.
func (r *Ring) Bonds() [][2]int {
	out := make([][2]int, 0, len(r.bonds))
	for k := range r.bonds {
		out = append(out, [2]int(k))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// SameAtoms reports whether r and o contain exactly the same atoms.
func (r *Ring) SameAtoms(o *Ring) bool {
	if len(r.atoms) != len(o.atoms) {
		return false
	}
	for _, a := range o.atoms {
		if !r.Contains(a) {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// Relations
// ─────────────────────────────────────────────────────────────────────────────

// SharedAtoms returns the atoms common to r and o in r's traversal order.
func (r *Ring) SharedAtoms(o *Ring) []int {
	var out []int
	for _, a := range r.atoms {
		if o.Contains(a) {
			out = append(out, a)
		}
	}
	return out
}

// SharedBonds returns the bonds common to r and o, sorted.
func (r *Ring) SharedBonds(o *Ring) [][2]int {
	var out [][2]int
	for _, b := range r.Bonds() {
		if o.HasBond(b[0], b[1]) {
			out = append(out, b)
		}
	}
	return out
}

// SpiroTo reports whether r and o meet in exactly one atom.
func (r *Ring) SpiroTo(o *Ring) bool {
	return r != o && len(r.SharedAtoms(o)) == 1
}

// FusedTo reports whether r and o share exactly one bond.
func (r *Ring) FusedTo(o *Ring) bool {
	return r != o && len(r.SharedBonds(o)) == 1
}

// BridgedTo reports whether r and o share two atoms that are bonded in
// neither ring.
func (r *Ring) BridgedTo(o *Ring) bool {
	if r == o {
		return false
	}
	shared := r.SharedAtoms(o)
	for i := 0; i < len(shared); i++ {
		for j := i + 1; j < len(shared); j++ {
			a, b := shared[i], shared[j]
			if !r.HasBond(a, b) && !o.HasBond(a, b) {
				return true
			}
		}
	}
	return false
}

// Adjacent reports whether r and o are spiro, fused or bridged together.
func (r *Ring) Adjacent(o *Ring) bool {
	return r.SpiroTo(o) || r.FusedTo(o) || r.BridgedTo(o)
}

// Direction returns the winding of the placed ring in index order, or
// Collinear when the ring has not been placed.
func (r *Ring) Direction() geometry.Direction {
	if !r.Placed {
		return geometry.Collinear
	}
	var sum float64
	n := len(r.Positions)
	for i := 0; i < n; i++ {
		sum += geometry.Orientation(r.Center, r.Positions[i], r.Positions[(i+1)%n])
	}
	return geometry.DirectionOf(sum)
}

func (r *Ring) String() string {
	return fmt.Sprintf("ring#%d%v", r.ID, r.atoms)
}

//Personal.AI order the ending
