package chain

import "math"

var inf = math.Inf(1)

// shortestPaths is the all-pairs result of Floyd–Warshall over a 0/1 weight
// matrix. next[i][j] is the atom after i on the shortest path to j, -1 when
// j is unreachable.
type shortestPaths struct {
	dist [][]float64
	next [][]int
}

// newWeights returns an n×n matrix with unit weight for every bond and +Inf
// elsewhere.
func newWeights(n int, connected func(i, j int) bool) [][]float64 {
	w := make([][]float64, n)
	for i := range w {
		w[i] = make([]float64, n)
		for j := range w[i] {
			w[i][j] = inf
			if i != j && connected(i, j) {
				w[i][j] = 1
			}
		}
	}
	return w
}

// disconnect removes every edge touching the given atoms.
func disconnect(w [][]float64, atoms []int) {
	for _, a := range atoms {
		for i := range w {
			w[i][a] = inf
			w[a][i] = inf
		}
	}
}

func floydWarshall(w [][]float64) *shortestPaths {
	n := len(w)
	sp := &shortestPaths{
		dist: make([][]float64, n),
		next: make([][]int, n),
	}
	for i := 0; i < n; i++ {
		sp.dist[i] = append([]float64(nil), w[i]...)
		sp.next[i] = make([]int, n)
		for j := 0; j < n; j++ {
			sp.next[i][j] = -1
			if !math.IsInf(w[i][j], 1) {
				sp.next[i][j] = j
			}
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if math.IsInf(sp.dist[i][k], 1) {
				continue
			}
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				if d := sp.dist[i][k] + sp.dist[k][j]; d < sp.dist[i][j] {
					sp.dist[i][j] = d
					sp.next[i][j] = sp.next[i][k]
				}
			}
		}
	}
	return sp
}

// longest returns the pair with the greatest finite distance, scanning in
// row-major order so the first such pair wins. ok is false when no two
// distinct atoms are connected.
func (sp *shortestPaths) longest() (from, to int, ok bool) {
	best := 0.0
	from, to = -1, -1
	for i := range sp.dist {
		for j, d := range sp.dist[i] {
			if i == j || math.IsInf(d, 1) {
				continue
			}
			if d > best {
				best, from, to = d, i, j
			}
		}
	}
	return from, to, from >= 0
}

// path walks the successor table from i to j, both ends included.
func (sp *shortestPaths) path(i, j int) []int {
	if sp.next[i][j] < 0 {
		return nil
	}
	out := []int{i}
	for u := i; u != j; {
		u = sp.next[u][j]
		out = append(out, u)
	}
	return out
}

//Personal.AI order the ending
