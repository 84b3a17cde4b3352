package ring

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/turtacn/molsdg/internal/domain/molecule"
)

// ─────────────────────────────────────────────────────────────────────────────
// Zamora smallest set of smallest rings
// ─────────────────────────────────────────────────────────────────────────────

// connectivityWeight maps a neighbour count to the Zamora k value.
func connectivityWeight(neighbours int) int {
	switch {
	case neighbours <= 1:
		return 0
	case neighbours == 2:
		return 1
	case neighbours == 3:
		return 8
	default:
		return 64
	}
}

// Perceive returns the smallest set of smallest rings of g.
//
// Every atom gets a connectivity index ci = 64*k + l, where k weights the
// atom's own neighbour count and l sums the k of its neighbours. The
// unprocessed atom with the highest ci (lowest index on ties) seeds a
// depth-first search for the smallest ring through it; the atoms of a found
// ring are marked processed, otherwise only the seed is. When the atom pass
// leaves the basis short of E - V + C rings, the smallest ring through each
// bond, uncovered bonds first, is offered until the basis is complete, then
// the shortest-path cycles of every atom and bond, smallest first.
// Rings that duplicate an earlier ring or are spanned by earlier rings are
// not recorded.
func Perceive(g *molecule.Graph) []*Ring {
	want := g.CycleRank()
	if want <= 0 {
		return nil
	}
	basis := newCycleBasis(g)

	n := g.Size()
	k := make([]int, n)
	for i := 0; i < n; i++ {
		k[i] = connectivityWeight(len(g.Alpha(i)))
	}
	ci := make([]int, n)
	for i := 0; i < n; i++ {
		l := 0
		for _, j := range g.Alpha(i) {
			l += k[j]
		}
		ci[i] = 64*k[i] + l
	}

	for basis.len() < want {
		start := -1
		for i := 0; i < n; i++ {
			if ci[i] >= 0 && (start < 0 || ci[i] > ci[start]) {
				start = i
			}
		}
		if start < 0 {
			break
		}
		path := smallestRing(g, start, -1)
		if path == nil {
			ci[start] = -1
			continue
		}
		for _, a := range path {
			ci[a] = -1
		}
		basis.offer(path)
	}

	if basis.len() < want {
		completeBasis(g, basis, want)
	}
	return basis.rings
}

// SmallestRingThroughEdge returns the atoms of the smallest ring containing
// the bond a-b, starting a then b, or nil when the bond is acyclic.
func SmallestRingThroughEdge(g *molecule.Graph, a, b int) []int {
	if !g.Connected(a, b) {
		return nil
	}
	return smallestRing(g, a, b)
}

// completeBasis offers the smallest ring through every bond, bonds not yet on
// a recorded ring first, until the basis holds want rings.
func completeBasis(g *molecule.Graph, basis *cycleBasis, want int) {
	bonds := g.Bonds()
	covered := func(b molecule.Bond) bool {
		for _, r := range basis.rings {
			if r.HasBond(b.A, b.B) {
				return true
			}
		}
		return false
	}
	var uncovered, rest []molecule.Bond
	for _, b := range bonds {
		if covered(b) {
			rest = append(rest, b)
		} else {
			uncovered = append(uncovered, b)
		}
	}
	for _, b := range append(uncovered, rest...) {
		if basis.len() >= want {
			return
		}
		if path := SmallestRingThroughEdge(g, b.A, b.B); path != nil {
			basis.offer(path)
		}
	}
	if basis.len() < want {
		offerCandidates(g, basis, want)
	}
}

// offerCandidates offers every cycle made of a shortest path v..x, the bond
// x-y and a shortest path y..v, smallest first. The set always spans the
// cycle space, so it completes a basis that the per-bond search left short,
// as in coronene where every bond of the inner ring also lies on an outer
// ring found earlier.
func offerCandidates(g *molecule.Graph, basis *cycleBasis, want int) {
	n := g.Size()
	bonds := g.Bonds()
	seen := make(map[string]bool)
	var candidates [][]int

	for v := 0; v < n; v++ {
		parent := shortestPathTree(g, v)
		for _, b := range bonds {
			px := treePath(parent, v, b.A)
			py := treePath(parent, v, b.B)
			if px == nil || py == nil || !disjointBeyondRoot(px, py) {
				continue
			}
			cycle := append([]int(nil), px...)
			for i := len(py) - 1; i >= 1; i-- {
				cycle = append(cycle, py[i])
			}
			if len(cycle) < 3 {
				continue
			}
			key := atomSetKey(cycle)
			if seen[key] {
				continue
			}
			seen[key] = true
			candidates = append(candidates, cycle)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return len(candidates[i]) < len(candidates[j]) })
	for _, c := range candidates {
		if basis.len() >= want {
			return
		}
		basis.offer(c)
	}
}

// shortestPathTree returns the breadth-first parent of every atom reachable
// from root; the root and unreachable atoms have parent -1.
func shortestPathTree(g *molecule.Graph, root int) []int {
	parent := make([]int, g.Size())
	visited := make([]bool, g.Size())
	for i := range parent {
		parent[i] = -1
	}
	visited[root] = true
	queue := []int{root}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range g.Alpha(v) {
			if !visited[w] {
				visited[w] = true
				parent[w] = v
				queue = append(queue, w)
			}
		}
	}
	return parent
}

// treePath returns the tree path root..to, or nil when to is unreachable.
func treePath(parent []int, root, to int) []int {
	var rev []int
	for v := to; v != root; v = parent[v] {
		if v < 0 {
			return nil
		}
		rev = append(rev, v)
	}
	path := make([]int, 0, len(rev)+1)
	path = append(path, root)
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

func disjointBeyondRoot(a, b []int) bool {
	in := make(map[int]bool, len(a))
	for _, v := range a[1:] {
		in[v] = true
	}
	for _, v := range b[1:] {
		if in[v] {
			return false
		}
	}
	return true
}

func atomSetKey(atoms []int) string {
	sorted := append([]int(nil), atoms...)
	sort.Ints(sorted)
	return fmt.Sprint(sorted)
}

// smallestRing runs a bounded depth-first search for the shortest cycle that
// starts and ends at first. When second is not negative the cycle is forced
// through the bond first-second. The search is iterative: next[v] is the
// position in Alpha(v) of the neighbour to try after returning to v.
func smallestRing(g *molecule.Graph, first, second int) []int {
	n := g.Size()
	best := n + 1
	var found []int

	inPath := make([]bool, n)
	next := make([]int, n)
	path := make([]int, 0, n)

	push := func(v int) {
		path = append(path, v)
		inPath[v] = true
		next[v] = 0
	}
	pop := func() {
		v := path[len(path)-1]
		inPath[v] = false
		path = path[:len(path)-1]
	}

	push(first)
	if second >= 0 {
		push(second)
		// the only way back to first is the closing bond
		next[first] = len(g.Alpha(first))
	}

	for len(path) > 0 {
		cur := path[len(path)-1]
		nbrs := g.Alpha(cur)
		if next[cur] >= len(nbrs) {
			pop()
			continue
		}
		w := nbrs[next[cur]]
		next[cur]++

		if len(path) >= 2 && w == path[len(path)-2] {
			continue
		}
		if w == first {
			if len(path) >= 3 && len(path) < best {
				best = len(path)
				found = append(found[:0], path...)
			}
			continue
		}
		if inPath[w] || len(path)+1 >= best {
			continue
		}
		push(w)
	}
	if found == nil {
		return nil
	}
	return append([]int(nil), found...)
}

// ─────────────────────────────────────────────────────────────────────────────
// Cycle basis over GF(2)
// ─────────────────────────────────────────────────────────────────────────────

// cycleBasis keeps the accepted rings together with their bond incidence
// vectors in reduced form, keyed by each vector's highest set bit.
type cycleBasis struct {
	bondIndex map[bondKey]int
	words     int
	pivots    map[int][]uint64
	rings     []*Ring
}

func newCycleBasis(g *molecule.Graph) *cycleBasis {
	idx := make(map[bondKey]int, g.BondCount())
	for i, b := range g.Bonds() {
		idx[newBondKey(b.A, b.B)] = i
	}
	return &cycleBasis{
		bondIndex: idx,
		words:     (g.BondCount() + 63) / 64,
		pivots:    make(map[int][]uint64),
	}
}

func (c *cycleBasis) len() int { return len(c.rings) }

// offer records the ring through path when it is independent of the rings
// already recorded and reports whether it was recorded.
func (c *cycleBasis) offer(path []int) bool {
	r, err := NewRing(len(c.rings), path)
	if err != nil {
		return false
	}
	v := make([]uint64, c.words)
	for i, a := range path {
		bit := c.bondIndex[newBondKey(a, path[(i+1)%len(path)])]
		v[bit/64] |= 1 << uint(bit%64)
	}
	for {
		h := highestBit(v)
		if h < 0 {
			return false
		}
		p, ok := c.pivots[h]
		if !ok {
			c.pivots[h] = v
			break
		}
		for i := range v {
			v[i] ^= p[i]
		}
	}
	c.rings = append(c.rings, r)
	return true
}

func highestBit(v []uint64) int {
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] != 0 {
			return i*64 + 63 - bits.LeadingZeros64(v[i])
		}
	}
	return -1
}

//Personal.AI order the ending
