package chain

import (
	"github.com/turtacn/molsdg/internal/domain/molecule"
)

// DefaultMaxBetaAtoms is the beta atom count above which an atom is too
// congested to sit in a chain.
const DefaultMaxBetaAtoms = 6

const (
	maxTerminalHetero = 3
	maxPiNeighbours   = 3
)

// Options tunes chain perception.
type Options struct {
	MaxBetaAtoms int
}

func (o Options) maxBetaAtoms() int {
	if o.MaxBetaAtoms <= 0 {
		return DefaultMaxBetaAtoms
	}
	return o.MaxBetaAtoms
}

// Perceive returns the chains of g, longest first. ringAtoms lists the atoms
// that lie on any ring; they never join a chain.
//
// Only core chain atoms take part. The longest shortest path among them
// becomes a chain, its atoms are cut out of the graph and the search repeats
// until no two core atoms remain connected.
func Perceive(g *molecule.Graph, ringAtoms []int, opts Options) []Chain {
	n := g.Size()
	inRing := make([]bool, n)
	for _, a := range ringAtoms {
		if a >= 0 && a < n {
			inRing[a] = true
		}
	}
	core := CoreAtoms(g, inRing, opts)

	w := newWeights(n, g.Connected)
	var drop []int
	for i, ok := range core {
		if !ok {
			drop = append(drop, i)
		}
	}

	var chains []Chain
	for {
		disconnect(w, drop)
		sp := floydWarshall(w)
		from, to, ok := sp.longest()
		if !ok {
			break
		}
		atoms := sp.path(from, to)
		c := New(atoms)
		c.Caps = [2]int{capOf(g, atoms, 0), capOf(g, atoms, len(atoms)-1)}
		chains = append(chains, c)
		drop = atoms
	}
	return chains
}

// capOf returns the lowest-index neighbour of atoms[end] that is not on the
// chain, or -1.
func capOf(g *molecule.Graph, atoms []int, end int) int {
	on := make(map[int]struct{}, len(atoms))
	for _, a := range atoms {
		on[a] = struct{}{}
	}
	for _, nb := range g.Alpha(atoms[end]) {
		if _, ok := on[nb]; !ok {
			return nb
		}
	}
	return -1
}

// CoreAtoms flags the atoms eligible for chains. An atom qualifies when it is
// acyclic, not sp hybridized, has at least two neighbours, at least one of
// them acyclic, and at least one acyclic beta atom. A qualifying atom is
// then dropped again when its non-core substituents are mostly heteroatoms,
// when it has more beta atoms than allowed, when it carries three terminal
// heteroatoms or when three of its neighbours carry pi bonds.
func CoreAtoms(g *molecule.Graph, inRing []bool, opts Options) []bool {
	n := g.Size()
	core := make([]bool, n)
	for i := 0; i < n; i++ {
		core[i] = isCandidate(g, inRing, i)
	}

	initial := append([]bool(nil), core...)
	maxBeta := opts.maxBetaAtoms()
	for i := 0; i < n; i++ {
		if !initial[i] {
			continue
		}
		nbrs := g.Alpha(i)

		hetero, nonCore := 0, len(nbrs)
		for _, nb := range nbrs {
			switch {
			case initial[nb]:
				nonCore--
			case g.Atom(nb).IsHetero():
				hetero++
			}
		}
		if hetero > 0 && hetero >= nonCore {
			core[i] = false
			continue
		}

		if len(g.Beta(i)) > maxBeta {
			core[i] = false
			continue
		}

		terminal, pi := 0, 0
		for _, nb := range nbrs {
			if g.Atom(nb).IsHetero() && g.Degree(nb) == 1 {
				terminal++
			}
			if g.Hybridization(nb).HasPi() {
				pi++
			}
		}
		if terminal >= maxTerminalHetero || pi >= maxPiNeighbours {
			core[i] = false
		}
	}
	return core
}

func isCandidate(g *molecule.Graph, inRing []bool, i int) bool {
	if inRing[i] {
		return false
	}
	switch g.Hybridization(i) {
	case molecule.SP, molecule.HybridizationError:
		return false
	}
	nbrs := g.Alpha(i)
	if len(nbrs) < 2 {
		return false
	}
	if !anyAcyclic(nbrs, inRing) {
		return false
	}
	return anyAcyclic(g.Beta(i), inRing)
}

func anyAcyclic(atoms []int, inRing []bool) bool {
	for _, a := range atoms {
		if !inRing[a] {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
