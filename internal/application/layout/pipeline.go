package layout

import (
	"sort"

	"github.com/turtacn/molsdg/internal/domain/chain"
	"github.com/turtacn/molsdg/internal/domain/molecule"
	"github.com/turtacn/molsdg/internal/domain/ring"
	"github.com/turtacn/molsdg/internal/domain/smiles"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

// pipeline carries one molecule through the layout stages.
type pipeline struct {
	smiles string
	opts   layout.Options

	graph     *molecule.Graph
	rings     []*ring.Ring
	groups    []*ring.Group
	ringAtoms []int
	chains    []chain.Chain
}

func newPipeline(smi string, opts layout.Options) *pipeline {
	return &pipeline{smiles: smi, opts: opts}
}

func (p *pipeline) atomCount() int {
	if p.graph == nil {
		return 0
	}
	return p.graph.Size()
}

func (p *pipeline) parse(parser *smiles.Parser) error {
	g, err := parser.Parse(p.smiles)
	if err != nil {
		return err
	}
	p.graph = g
	return nil
}

func (p *pipeline) perceiveRings() error {
	p.rings = ring.Perceive(p.graph)
	p.groups = ring.Partition(p.rings)
	for _, g := range p.groups {
		p.ringAtoms = append(p.ringAtoms, g.Atoms()...)
	}
	sort.Ints(p.ringAtoms)
	return nil
}

func (p *pipeline) perceiveChains() error {
	p.chains = chain.Perceive(p.graph, p.ringAtoms, chain.Options{MaxBetaAtoms: p.opts.MaxBetaAtoms})
	return nil
}

// analyze peels every group. An incomplete group is recorded in the group's
// diagnostics and does not stop the others.
func (p *pipeline) analyze() error {
	for _, g := range p.groups {
		_ = ring.Analyze(g, ring.AnalysisOptions{MaxSharedBonds: p.opts.MaxSharedBonds})
	}
	return nil
}

func (p *pipeline) construct() error {
	for _, g := range p.groups {
		ring.Construct(g, ring.ConstructionOptions{BondLength: p.opts.BondLength})
	}
	return nil
}

// result maps the pipeline state to the transport document.
func (p *pipeline) result() *layout.Result {
	g := p.graph
	n := g.Size()
	res := &layout.Result{
		SMILES:       p.smiles,
		Options:      p.opts,
		Atoms:        make([]layout.Atom, n),
		Bonds:        make([]layout.Bond, 0, g.BondCount()),
		Rings:        make([]layout.Ring, 0, len(p.rings)),
		RingGroups:   make([]layout.RingGroup, 0, len(p.groups)),
		Chains:       make([]layout.Chain, 0, len(p.chains)),
		Unpositioned: []int{},
		Diagnostics:  []layout.Diagnostic{},
	}

	inChain := make([]bool, n)
	for _, c := range p.chains {
		for _, a := range c.Atoms() {
			inChain[a] = true
		}
	}
	inRing := make([]bool, n)
	for _, a := range p.ringAtoms {
		inRing[a] = true
	}

	positions := make([]*layout.Point, n)
	for _, gr := range p.groups {
		for _, r := range gr.Rings {
			if !r.Placed {
				continue
			}
			for i, pt := range r.Positions {
				if a := r.Atom(i); positions[a] == nil {
					positions[a] = &layout.Point{X: pt.X, Y: pt.Y}
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		a := g.Atom(i)
		res.Atoms[i] = layout.Atom{
			Index:         i,
			Symbol:        a.Symbol,
			Charge:        a.Charge,
			Isotope:       a.Isotope,
			Aromatic:      a.Aromatic,
			Hybridization: g.Hybridization(i).String(),
			Degree:        g.Degree(i),
			Position:      positions[i],
			InRing:        inRing[i],
			InChain:       inChain[i],
		}
		if inRing[i] && positions[i] == nil {
			res.Unpositioned = append(res.Unpositioned, i)
		}
	}

	for _, b := range g.Bonds() {
		res.Bonds = append(res.Bonds, layout.Bond{A: b.A, B: b.B, Order: b.Order})
	}

	for _, gr := range p.groups {
		dto := layout.RingGroup{ID: gr.ID, Complete: gr.Complete, Rings: []int{}, PeelOrder: []int{}}
		for _, r := range gr.Rings {
			dto.Rings = append(dto.Rings, r.ID)
			res.Rings = append(res.Rings, ringDTO(r, gr.ID))
		}
		for _, r := range gr.PeelOrder {
			dto.PeelOrder = append(dto.PeelOrder, r.ID)
		}
		res.RingGroups = append(res.RingGroups, dto)
		for _, d := range gr.Diagnostics {
			res.Diagnostics = append(res.Diagnostics, layout.Diagnostic{
				Code:     string(d.Code),
				Severity: string(d.Severity),
				Message:  d.Message,
				Group:    d.Group,
				Ring:     d.Ring,
				Atoms:    d.Atoms,
			})
		}
	}
	sort.Slice(res.Rings, func(i, j int) bool { return res.Rings[i].ID < res.Rings[j].ID })

	for _, c := range p.chains {
		dto := layout.Chain{Atoms: c.Atoms(), Caps: c.Caps, InvertOK: c.InvertOK}
		for _, t := range c.Zigzag {
			dto.Zigzag = append(dto.Zigzag, t.String())
		}
		res.Chains = append(res.Chains, dto)
	}
	return res
}

func ringDTO(r *ring.Ring, group int) layout.Ring {
	dto := layout.Ring{
		ID:     r.ID,
		Group:  group,
		Atoms:  r.Atoms(),
		Type:   r.Type.String(),
		Placed: r.Placed,
	}
	if r.Placed {
		dto.Direction = r.Direction().String()
		dto.Center = &layout.Point{X: r.Center.X, Y: r.Center.Y}
		dto.Positions = make([]layout.Point, len(r.Positions))
		for i, pt := range r.Positions {
			dto.Positions[i] = layout.Point{X: pt.X, Y: pt.Y}
		}
	}
	return dto
}

//Personal.AI order the ending
