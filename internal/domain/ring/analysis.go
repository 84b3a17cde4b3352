package ring

import (
	"fmt"

	"github.com/turtacn/molsdg/pkg/errors"
)

// DefaultMaxSharedBonds is the largest number of bonds a ring may share with
// the rest of its system and still be peeled as fused or spiro.
const DefaultMaxSharedBonds = 3

// AnalysisOptions tunes ring peeling.
type AnalysisOptions struct {
	MaxSharedBonds int
}

func (o AnalysisOptions) maxSharedBonds() int {
	if o.MaxSharedBonds <= 0 {
		return DefaultMaxSharedBonds
	}
	return o.MaxSharedBonds
}

type peelState int

const (
	stateSelecting peelState = iota
	stateTerminal
	stateIncomplete
)

// Analyze peels the rings of g one at a time, least connected first, and
// assigns each ring its Type. The final ring is the Core. The peel order is
// stored in g.PeelOrder, oldest first.
//
// A ring is never peeled while it is central, that is while removing it
// would split the remaining rings. Fused and spiro rings are peeled before
// bridged ones. When no ring can be peeled the group is left incomplete,
// its remaining rings keep TypeNone and an IncompleteRingAssignment error is
// returned. Analyze may be called again on the same group and gives the same
// result.
func Analyze(g *Group, opts AnalysisOptions) error {
	g.PeelOrder = nil
	g.Diagnostics = nil
	g.Complete = false
	for _, r := range g.Rings {
		r.Type = TypeNone
	}

	remaining := append([]*Ring(nil), g.Rings...)
	limit := opts.maxSharedBonds()
	state := stateSelecting

	for state == stateSelecting {
		if len(remaining) == 0 {
			state = stateTerminal
			break
		}
		if len(remaining) == 1 {
			remaining[0].Type = TypeCore
			g.PeelOrder = append(g.PeelOrder, remaining[0])
			state = stateTerminal
			break
		}

		central := NewAdjacency(remaining).ArticulationPoints()

		if pos := selectFusedOrSpiro(remaining, central, limit); pos >= 0 {
			r := remaining[pos]
			remaining = append(remaining[:pos], remaining[pos+1:]...)
			r.Type = classifyPeeled(r, remaining)
			if r.Type == TypeIrregular {
				g.Diagnostics = append(g.Diagnostics, Diagnostic{
					Code:     errors.ErrCodeIncompleteRingAssignment,
					Severity: SeverityWarning,
					Message:  "peeled ring is neither fused nor spiro to the remaining rings",
					Group:    g.ID,
					Ring:     r.ID,
					Atoms:    r.Atoms(),
				})
			}
			g.PeelOrder = append(g.PeelOrder, r)
			continue
		}

		if pos := selectBridged(remaining, central); pos >= 0 {
			r := remaining[pos]
			remaining = append(remaining[:pos], remaining[pos+1:]...)
			r.Type = TypeBridged
			g.PeelOrder = append(g.PeelOrder, r)
			continue
		}

		state = stateIncomplete
	}

	if state == stateIncomplete {
		ids := make([]int, len(remaining))
		for i, r := range remaining {
			ids[i] = r.ID
		}
		d := Diagnostic{
			Code:     errors.ErrCodeIncompleteRingAssignment,
			Severity: SeverityError,
			Message:  "no ring of the system can be peeled",
			Group:    g.ID,
			Ring:     -1,
		}
		g.Diagnostics = append(g.Diagnostics, d)
		return d.Err().WithDetail(fmt.Sprintf("group=%d remaining=%v", g.ID, ids))
	}
	g.Complete = true
	return nil
}

// sharedBondCount counts, for every bond of r, the other remaining rings
// that contain it.
func sharedBondCount(r *Ring, remaining []*Ring) int {
	count := 0
	for k := range r.bonds {
		for _, o := range remaining {
			if o == r {
				continue
			}
			if _, ok := o.bonds[k]; ok {
				count++
			}
		}
	}
	return count
}

func bridgedToAny(r *Ring, remaining []*Ring) bool {
	for _, o := range remaining {
		if o != r && r.BridgedTo(o) {
			return true
		}
	}
	return false
}

// selectFusedOrSpiro returns the position of the non-central, non-bridged
// ring with the fewest shared bonds, or -1.
func selectFusedOrSpiro(remaining []*Ring, central []bool, limit int) int {
	best, bestCount := -1, 0
	for i, r := range remaining {
		if central[i] || bridgedToAny(r, remaining) {
			continue
		}
		count := sharedBondCount(r, remaining)
		if count > limit {
			continue
		}
		if best < 0 || count < bestCount {
			best, bestCount = i, count
		}
	}
	return best
}

// selectBridged returns the position of the non-central bridged ring with
// the fewest shared bonds, or -1.
func selectBridged(remaining []*Ring, central []bool) int {
	best, bestCount := -1, 0
	for i, r := range remaining {
		if central[i] || !bridgedToAny(r, remaining) {
			continue
		}
		count := sharedBondCount(r, remaining)
		if best < 0 || count < bestCount {
			best, bestCount = i, count
		}
	}
	return best
}

// classifyPeeled types a ring just removed from remaining. A shared bond
// wins over a shared atom.
func classifyPeeled(r *Ring, remaining []*Ring) Type {
	spiro := false
	for _, o := range remaining {
		if len(r.SharedBonds(o)) > 0 {
			return TypeFused
		}
		if r.SpiroTo(o) {
			spiro = true
		}
	}
	if spiro {
		return TypeSpiro
	}
	return TypeIrregular
}

//Personal.AI order the ending
