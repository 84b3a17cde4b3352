// Package chain finds the acyclic carbon backbones of a molecule. A chain is
// the longest shortest path through the atoms that qualify as core chain
// atoms; chains are extracted longest first and never share atoms.
package chain

import "fmt"

// Turn is the side a chain bends to at an interior atom.
type Turn int

const (
	Left Turn = iota
	Right
)

func (t Turn) String() string {
	if t == Right {
		return "R"
	}
	return "L"
}

// MarshalText implements encoding.TextMarshaler.
func (t Turn) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Chain is an ordered run of bonded core chain atoms.
type Chain struct {
	atoms []int

	// Caps holds the substituent bonded to each end atom outside the chain,
	// or -1.
	Caps [2]int `json:"caps"`

	// Zigzag has one entry per interior atom and alternates starting Left.
	Zigzag []Turn `json:"zigzag"`

	// InvertOK is set when the zigzag may be mirrored during assembly.
	InvertOK bool `json:"invert_ok"`
}

// New returns the chain through atoms. Caps are unset.
func New(atoms []int) Chain {
	c := Chain{
		atoms: append([]int(nil), atoms...),
		Caps:  [2]int{-1, -1},
	}
	if n := len(atoms); n > 2 {
		c.Zigzag = make([]Turn, n-2)
		for i := range c.Zigzag {
			c.Zigzag[i] = Turn(i % 2)
		}
	}
	c.InvertOK = len(atoms) >= 3
	return c
}

// Atoms returns a copy of the chain's atoms in path order.
func (c Chain) Atoms() []int { return append([]int(nil), c.atoms...) }

// Len returns the number of atoms.
func (c Chain) Len() int { return len(c.atoms) }

// Contains reports whether atom a belongs to the chain.
func (c Chain) Contains(a int) bool {
	for _, x := range c.atoms {
		if x == a {
			return true
		}
	}
	return false
}

func (c Chain) String() string { return fmt.Sprintf("chain%v", c.atoms) }

//Personal.AI order the ending
