package ring

import "sort"

// Group is one ring system: a maximal set of rings linked by spiro, fused or
// bridged adjacency.
type Group struct {
	ID          int          `json:"id"`
	Rings       []*Ring      `json:"-"`
	PeelOrder   []*Ring      `json:"-"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Complete    bool         `json:"complete"`
}

// Atoms returns the distinct atoms of every ring in the group, ascending.
func (g *Group) Atoms() []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range g.Rings {
		for _, a := range r.atoms {
			if _, ok := seen[a]; !ok {
				seen[a] = struct{}{}
				out = append(out, a)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Partition splits rings into groups. The lowest-index ring not yet grouped
// seeds each group, which then absorbs every ring reachable through the
// ring-adjacency graph. Group ids count up from 0 in seed order and rings
// keep their input order inside a group.
func Partition(rings []*Ring) []*Group {
	if len(rings) == 0 {
		return nil
	}
	adj := NewAdjacency(rings)
	comps := adj.Components()
	groups := make([]*Group, 0, len(comps))
	for id, comp := range comps {
		g := &Group{ID: id}
		for _, i := range comp {
			g.Rings = append(g.Rings, rings[i])
		}
		groups = append(groups, g)
	}
	return groups
}


//Personal.AI order the ending
