// Package layout defines the request and result documents of the structure
// diagram service. These are plain data types shared by the HTTP API, the
// CLI, the batch worker and the result cache and archive.
package layout

import (
	"slices"
	"strings"

	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Requests
// ─────────────────────────────────────────────────────────────────────────────

// Options overrides the configured layout parameters for one request. Zero
// values mean "use the configured value".
type Options struct {
	BondLength     float64 `json:"bond_length,omitempty" yaml:"bond_length,omitempty"`
	MaxSharedBonds int     `json:"max_shared_bonds,omitempty" yaml:"max_shared_bonds,omitempty"`
	MaxBetaAtoms   int     `json:"max_beta_atoms,omitempty" yaml:"max_beta_atoms,omitempty"`
}

// Request asks for the layout of one molecule given either as SMILES or as
// the key of a catalog example.
type Request struct {
	RequestID string  `json:"request_id,omitempty"`
	SMILES    string  `json:"smiles,omitempty"`
	Example   string  `json:"example,omitempty"`
	Options   Options `json:"options,omitempty"`
}

// Validate checks that exactly one input is given and the options are sane.
func (r Request) Validate() error {
	hasSMILES := strings.TrimSpace(r.SMILES) != ""
	hasExample := strings.TrimSpace(r.Example) != ""
	switch {
	case !hasSMILES && !hasExample:
		return errors.InvalidParam("one of smiles or example is required")
	case hasSMILES && hasExample:
		return errors.InvalidParam("smiles and example are mutually exclusive")
	}
	if r.Options.BondLength < 0 || r.Options.MaxSharedBonds < 0 || r.Options.MaxBetaAtoms < 0 {
		return errors.InvalidParam("layout options must not be negative")
	}
	return nil
}

// BatchRequest carries several layout requests.
type BatchRequest struct {
	Items []Request `json:"items"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Results
// ─────────────────────────────────────────────────────────────────────────────

// Point is a drawing coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Atom describes one atom of the laid-out molecule.
type Atom struct {
	Index         int    `json:"index"`
	Symbol        string `json:"symbol"`
	Charge        int    `json:"charge,omitempty"`
	Isotope       int    `json:"isotope,omitempty"`
	Aromatic      bool   `json:"aromatic,omitempty"`
	Hybridization string `json:"hybridization"`
	Degree        int    `json:"degree"`
	Position      *Point `json:"position,omitempty"`
	InRing        bool   `json:"in_ring"`
	InChain       bool   `json:"in_chain"`
}

// Bond is one bond of the molecule.
type Bond struct {
	A     int     `json:"a"`
	B     int     `json:"b"`
	Order float64 `json:"order"`
}

// Ring is one ring of the smallest set of smallest rings.
type Ring struct {
	ID        int     `json:"id"`
	Group     int     `json:"group"`
	Atoms     []int   `json:"atoms"`
	Type      string  `json:"type"`
	Placed    bool    `json:"placed"`
	Direction string  `json:"direction,omitempty"`
	Center    *Point  `json:"center,omitempty"`
	Positions []Point `json:"positions,omitempty"`
}

// RingGroup is one ring system and its peel order, oldest first.
type RingGroup struct {
	ID        int   `json:"id"`
	Rings     []int `json:"rings"`
	PeelOrder []int `json:"peel_order"`
	Complete  bool  `json:"complete"`
}

// Chain is one acyclic backbone.
type Chain struct {
	Atoms    []int    `json:"atoms"`
	Caps     [2]int   `json:"caps"`
	Zigzag   []string `json:"zigzag,omitempty"`
	InvertOK bool     `json:"invert_ok"`
}

// Diagnostic is a recoverable problem met while laying out the molecule.
type Diagnostic struct {
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Group    int    `json:"group"`
	Ring     int    `json:"ring"`
	Atoms    []int  `json:"atoms,omitempty"`
}

// Result is the complete layout of one molecule.
type Result struct {
	ID           common.ID        `json:"id"`
	RequestID    string           `json:"request_id,omitempty"`
	SMILES       string           `json:"smiles"`
	Example      string           `json:"example,omitempty"`
	Options      Options          `json:"options"`
	Atoms        []Atom           `json:"atoms"`
	Bonds        []Bond           `json:"bonds"`
	Rings        []Ring           `json:"rings"`
	RingGroups   []RingGroup      `json:"ring_groups"`
	Chains       []Chain          `json:"chains"`
	Unpositioned []int            `json:"unpositioned"`
	Diagnostics  []Diagnostic     `json:"diagnostics"`
	ElapsedMS    float64          `json:"elapsed_ms"`
	CreatedAt    common.Timestamp `json:"created_at"`
}

// Complete reports whether every ring atom was placed.
func (r *Result) Complete() bool { return len(r.Unpositioned) == 0 }

// Clone returns a deep copy of r. Nil and empty slices keep their form.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Atoms = slices.Clone(r.Atoms)
	for i := range cp.Atoms {
		cp.Atoms[i].Position = clonePoint(cp.Atoms[i].Position)
	}
	cp.Bonds = slices.Clone(r.Bonds)
	cp.Rings = slices.Clone(r.Rings)
	for i := range cp.Rings {
		ring := &cp.Rings[i]
		ring.Atoms = slices.Clone(ring.Atoms)
		ring.Center = clonePoint(ring.Center)
		ring.Positions = slices.Clone(ring.Positions)
	}
	cp.RingGroups = slices.Clone(r.RingGroups)
	for i := range cp.RingGroups {
		g := &cp.RingGroups[i]
		g.Rings = slices.Clone(g.Rings)
		g.PeelOrder = slices.Clone(g.PeelOrder)
	}
	cp.Chains = slices.Clone(r.Chains)
	for i := range cp.Chains {
		c := &cp.Chains[i]
		c.Atoms = slices.Clone(c.Atoms)
		c.Zigzag = slices.Clone(c.Zigzag)
	}
	cp.Unpositioned = slices.Clone(r.Unpositioned)
	cp.Diagnostics = slices.Clone(r.Diagnostics)
	for i := range cp.Diagnostics {
		cp.Diagnostics[i].Atoms = slices.Clone(cp.Diagnostics[i].Atoms)
	}
	return &cp
}

func clonePoint(p *Point) *Point {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// ─────────────────────────────────────────────────────────────────────────────
// Worker messages
// ─────────────────────────────────────────────────────────────────────────────

// Envelope is the message the batch worker publishes for every request it
// consumes. Exactly one of Result and Error is set.
type Envelope struct {
	RequestID string              `json:"request_id"`
	Result    *Result             `json:"result,omitempty"`
	Error     *common.ErrorDetail `json:"error,omitempty"`
	Timestamp common.Timestamp    `json:"timestamp"`
}

//Personal.AI order the ending
