package ring

import "sort"

// Adjacency is the undirected graph whose nodes are rings and whose edges
// join spiro, fused or bridged pairs. Node i is rings[i].
type Adjacency struct {
	rings []*Ring
	edges [][]int
}

// NewAdjacency builds the ring-adjacency graph over rings.
func NewAdjacency(rings []*Ring) *Adjacency {
	adj := &Adjacency{
		rings: rings,
		edges: make([][]int, len(rings)),
	}
	for i := 0; i < len(rings); i++ {
		for j := i + 1; j < len(rings); j++ {
			if rings[i].Adjacent(rings[j]) {
				adj.edges[i] = append(adj.edges[i], j)
				adj.edges[j] = append(adj.edges[j], i)
			}
		}
	}
	return adj
}

// Len returns the node count.
func (a *Adjacency) Len() int { return len(a.rings) }

// Neighbours returns the nodes adjacent to node i in ascending order.
func (a *Adjacency) Neighbours(i int) []int { return a.edges[i] }

// ArticulationPoints marks every node whose removal splits the connected
// component it belongs to. These are the central rings of a ring system.
func (a *Adjacency) ArticulationPoints() []bool {
	n := len(a.rings)
	cut := make([]bool, n)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	timer := 0

	var visit func(v, parent int)
	visit = func(v, parent int) {
		disc[v] = timer
		low[v] = timer
		timer++
		children := 0
		for _, w := range a.edges[v] {
			if w == parent {
				continue
			}
			if disc[w] >= 0 {
				low[v] = min(low[v], disc[w])
				continue
			}
			children++
			visit(w, v)
			low[v] = min(low[v], low[w])
			if parent >= 0 && low[w] >= disc[v] {
				cut[v] = true
			}
		}
		if parent < 0 && children > 1 {
			cut[v] = true
		}
	}
	for v := 0; v < n; v++ {
		if disc[v] < 0 {
			visit(v, -1)
		}
	}
	return cut
}

// Components returns the connected components as ascending node lists,
// ordered by their lowest node.
func (a *Adjacency) Components() [][]int {
	n := len(a.rings)
	seen := make([]bool, n)
	var out [][]int
	for s := 0; s < n; s++ {
		if seen[s] {
			continue
		}
		seen[s] = true
		comp := []int{s}
		queue := []int{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range a.edges[v] {
				if !seen[w] {
					seen[w] = true
					comp = append(comp, w)
					queue = append(queue, w)
				}
			}
		}
		sort.Ints(comp)
		out = append(out, comp)
	}
	return out
}

//Personal.AI order the ending
