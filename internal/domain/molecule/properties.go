package molecule

import "math"

// Hybridization is the orbital hybridization inferred from an atom's pi-bond count.
type Hybridization int

const (
	SP3 Hybridization = iota
	SP2
	SP
	HybridizationError
)

func (h Hybridization) String() string {
	switch h {
	case SP3:
		return "sp3"
	case SP2:
		return "sp2"
	case SP:
		return "sp"
	default:
		return "error"
	}
}

// HasPi reports whether the state implies participation in a pi system.
// The error state counts, since it only arises from an excess of pi bonds.
func (h Hybridization) HasPi() bool { return h != SP3 }

// Alpha returns the direct neighbours of atom i in ascending order. The
// returned slice is shared and must not be modified.
func (g *Graph) Alpha(i int) []int {
	g.alphaOnce.Do(func() {
		n := g.Size()
		g.alpha = make([][]int, n)
		for a := 0; a < n; a++ {
			nbrs := make([]int, 0, 4)
			for b := 0; b < n; b++ {
				if g.order[a][b] > 0 {
					nbrs = append(nbrs, b)
				}
			}
			g.alpha[a] = nbrs
		}
	})
	return g.alpha[i]
}

// Beta returns the neighbours of neighbours of atom i, excluding i itself,
// de-duplicated and in ascending order. An atom that is both an alpha and a
// beta atom (a three-membered ring) appears here too. The returned slice is
// shared and must not be modified.
func (g *Graph) Beta(i int) []int {
	g.betaOnce.Do(func() {
		n := g.Size()
		g.beta = make([][]int, n)
		mark := make([]int, n)
		for a := range mark {
			mark[a] = -1
		}
		for a := 0; a < n; a++ {
			for _, nb := range g.Alpha(a) {
				for _, nbb := range g.Alpha(nb) {
					if nbb != a {
						mark[nbb] = a
					}
				}
			}
			var out []int
			for b := 0; b < n; b++ {
				if mark[b] == a {
					out = append(out, b)
				}
			}
			g.beta[a] = out
		}
	})
	return g.beta[i]
}

// PiBonds returns the number of pi bonds at atom i: each bond of order k
// contributes k-1, aromatic bonds contribute one half, and the sum is
// truncated.
func (g *Graph) PiBonds(i int) int {
	sum := 0.0
	for _, nb := range g.Alpha(i) {
		if o := g.order[i][nb]; o > 1 {
			sum += o - 1
		}
	}
	return int(math.Floor(sum + 1e-9))
}

// Hybridization returns the hybridization of atom i: no pi bonds is sp3, one
// is sp2, two is sp, anything more is an error state.
func (g *Graph) Hybridization(i int) Hybridization {
	g.hybOnce.Do(func() {
		g.hyb = make([]Hybridization, g.Size())
		for a := range g.hyb {
			switch g.PiBonds(a) {
			case 0:
				g.hyb[a] = SP3
			case 1:
				g.hyb[a] = SP2
			case 2:
				g.hyb[a] = SP
			default:
				g.hyb[a] = HybridizationError
			}
		}
	})
	return g.hyb[i]
}

// Degree returns the carbon-relative substitution degree of atom i. For a
// carbon this is its number of carbon neighbours. A heteroatom takes the
// degree of its first carbon neighbour, or -1 when it has none.
func (g *Graph) Degree(i int) int {
	g.degreeOnce.Do(func() {
		n := g.Size()
		carbonCount := make([]int, n)
		for a := 0; a < n; a++ {
			for _, nb := range g.Alpha(a) {
				if g.atoms[nb].IsCarbon() {
					carbonCount[a]++
				}
			}
		}
		g.degree = make([]int, n)
		for a := 0; a < n; a++ {
			if g.atoms[a].IsCarbon() {
				g.degree[a] = carbonCount[a]
				continue
			}
			g.degree[a] = -1
			for _, nb := range g.Alpha(a) {
				if g.atoms[nb].IsCarbon() {
					g.degree[a] = carbonCount[nb]
					break
				}
			}
		}
	})
	return g.degree[i]
}

//Personal.AI order the ending
