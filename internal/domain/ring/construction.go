package ring

import (
	"fmt"
	"sort"

	"github.com/turtacn/molsdg/internal/domain/geometry"
	"github.com/turtacn/molsdg/pkg/errors"
)

// DefaultBondLength is the drawn length of every ring bond.
const DefaultBondLength = 50.0

// ConstructionOptions tunes ring construction.
type ConstructionOptions struct {
	BondLength float64
}

func (o ConstructionOptions) bondLength() float64 {
	if o.BondLength <= 0 {
		return DefaultBondLength
	}
	return o.BondLength
}

// ─────────────────────────────────────────────────────────────────────────────
// Attachments
// ─────────────────────────────────────────────────────────────────────────────

// Attachment describes how a ring joins the part of its system that is
// already drawn. It is one of CoreAttachment, FusedAttachment,
// SpiroAttachment, BridgedAttachment or IrregularAttachment.
type Attachment interface {
	attachment()
}

// CoreAttachment places a ring freely, aligned to the axes.
type CoreAttachment struct{}

// FusedAttachment builds a ring on the bond A-B of an already placed Partner.
// Partner is nil when no placed ring shares a bond with the ring.
type FusedAttachment struct {
	Partner *Ring
	A, B    int
}

// SpiroAttachment joins a ring to Partner through the single atom Atom.
type SpiroAttachment struct {
	Partner *Ring
	Atom    int
}

// BridgedAttachment joins a ring to Partner across a bridge.
type BridgedAttachment struct {
	Partner *Ring
}

// IrregularAttachment is used for rings peeling could not classify.
type IrregularAttachment struct{}

func (CoreAttachment) attachment()      {}
func (FusedAttachment) attachment()     {}
func (SpiroAttachment) attachment()     {}
func (BridgedAttachment) attachment()   {}
func (IrregularAttachment) attachment() {}

// attachmentFor picks the attachment of r given the rings placed so far, in
// placement order.
func attachmentFor(r *Ring, placed []*Ring) Attachment {
	switch r.Type {
	case TypeCore, TypeToughCore:
		return CoreAttachment{}
	case TypeFused:
		for _, p := range placed {
			if shared := r.SharedBonds(p); len(shared) > 0 {
				return FusedAttachment{Partner: p, A: shared[0][0], B: shared[0][1]}
			}
		}
		return FusedAttachment{}
	case TypeSpiro:
		for _, p := range placed {
			if r.SpiroTo(p) {
				return SpiroAttachment{Partner: p, Atom: r.SharedAtoms(p)[0]}
			}
		}
		return SpiroAttachment{}
	case TypeBridged:
		for _, p := range placed {
			if r.BridgedTo(p) {
				return BridgedAttachment{Partner: p}
			}
		}
		return BridgedAttachment{}
	default:
		return IrregularAttachment{}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Construction
// ─────────────────────────────────────────────────────────────────────────────

// Construct draws the rings of an analysed group in reverse peel order: the
// core first, then each ring attached to those already placed. A ring that
// cannot be drawn is reported and left unplaced while the rest of the group
// is still drawn. Incomplete groups are not drawn at all. The diagnostics are
// returned and also appended to g.Diagnostics.
func Construct(g *Group, opts ConstructionOptions) []Diagnostic {
	for _, r := range g.Rings {
		clearPlacement(r)
	}

	var diags []Diagnostic
	report := func(r *Ring, code errors.ErrorCode, msg string) {
		d := Diagnostic{Code: code, Severity: SeverityError, Message: msg, Group: g.ID, Ring: -1}
		if r != nil {
			d.Ring = r.ID
			d.Atoms = r.Atoms()
		}
		diags = append(diags, d)
	}

	if !g.Complete || len(g.PeelOrder) == 0 {
		report(nil, errors.ErrCodeIncompleteRingAssignment, "ring group was not fully analysed; rings left unplaced")
		g.Diagnostics = append(g.Diagnostics, diags...)
		return diags
	}

	l := opts.bondLength()
	var placed []*Ring
	drawn := make(map[int]geometry.Point)
	for i := len(g.PeelOrder) - 1; i >= 0; i-- {
		r := g.PeelOrder[i]
		var err error
		switch att := attachmentFor(r, placed).(type) {
		case CoreAttachment:
			err = placeCore(r, l)
		case FusedAttachment:
			if att.Partner == nil {
				report(r, errors.ErrCodeUnsupportedRingAttachment, "fused ring has no placed partner")
				continue
			}
			err = placeFused(r, att)
		case SpiroAttachment:
			report(r, errors.ErrCodeUnsupportedRingAttachment, "spiro attachment is not supported")
			continue
		case BridgedAttachment:
			report(r, errors.ErrCodeUnsupportedRingAttachment, "bridged attachment is not supported")
			continue
		case IrregularAttachment:
			report(r, errors.ErrCodeUnsupportedRingAttachment, fmt.Sprintf("%s ring cannot be attached", r.Type))
			continue
		}
		if err != nil {
			report(r, errors.GetCode(err), err.Error())
			continue
		}
		if moved := misplacedAtoms(r, drawn); len(moved) > 0 {
			diags = append(diags, Diagnostic{
				Code:     errors.ErrCodeDegenerateGeometry,
				Severity: SeverityError,
				Message:  fmt.Sprintf("ring disagrees with %d atom positions already drawn; ring left unplaced", len(moved)),
				Group:    g.ID,
				Ring:     r.ID,
				Atoms:    moved,
			})
			clearPlacement(r)
			continue
		}
		for i, pt := range r.Positions {
			if _, ok := drawn[r.Atom(i)]; !ok {
				drawn[r.Atom(i)] = pt
			}
		}
		r.Placed = true
		placed = append(placed, r)
	}

	g.Diagnostics = append(g.Diagnostics, diags...)
	return diags
}

func clearPlacement(r *Ring) {
	r.Placed = false
	r.Center = geometry.Point{}
	for i := range r.Positions {
		r.Positions[i] = geometry.Point{}
	}
}

// misplacedAtoms returns, ascending, the atoms of r whose new position differs
// from the one an earlier ring gave them. Rings that cannot be drawn flat,
// such as the faces of cubane, produce them.
func misplacedAtoms(r *Ring, drawn map[int]geometry.Point) []int {
	var moved []int
	for i, pt := range r.Positions {
		if prev, ok := drawn[r.Atom(i)]; ok && !prev.Near(pt) {
			moved = append(moved, r.Atom(i))
		}
	}
	sort.Ints(moved)
	return moved
}

func placeCore(r *Ring, bondLength float64) error {
	a, b := geometry.CoreAnchors(r.Size(), bondLength)
	poly, err := geometry.RegularPolygon(r.Size(), a, b)
	if err != nil {
		return err
	}
	copy(r.Positions, poly.Vertices)
	r.Center = poly.Center
	return nil
}

// placeFused builds r on the shared bond of its partner. The anchors are
// ordered so that the new centre falls on the far side of the bond from the
// partner's centre; the generated vertices are then mapped onto r's own
// atom order, forwards or backwards depending on how r walks the bond.
func placeFused(r *Ring, att FusedAttachment) error {
	p := att.Partner
	a, b := att.A, att.B
	ptA := p.Positions[p.Index(a)]
	ptB := p.Positions[p.Index(b)]

	// RegularPolygon puts the centre left of A→B; keep the partner on the right.
	if geometry.DirectionOf(geometry.Orientation(ptB, p.Center, ptA)) == geometry.CW {
		a, b = b, a
		ptA, ptB = ptB, ptA
	}

	poly, err := geometry.RegularPolygon(r.Size(), ptA, ptB)
	if err != nil {
		return err
	}

	n := r.Size()
	aPt, bPt := -1, -1
	for i, v := range poly.Vertices {
		if aPt < 0 && v.Near(ptA) {
			aPt = i
		} else if bPt < 0 && v.Near(ptB) {
			bPt = i
		}
	}
	if aPt < 0 || bPt < 0 {
		return errors.New(errors.ErrCodeDegenerateGeometry, "generated polygon misses the anchor bond")
	}

	ia, ib := r.Index(a), r.Index(b)
	ringForward := (ia+1)%n == ib
	polyForward := (aPt+1)%n == bPt
	for i := 0; i < n; i++ {
		pi := (aPt + i) % n
		if ringForward != polyForward {
			pi = ((aPt-i)%n + n) % n
		}
		r.Positions[(ia+i)%n] = poly.Vertices[pi]
	}
	r.Positions[ia] = ptA
	r.Positions[ib] = ptB
	r.Center = poly.Center
	return nil
}

//Personal.AI order the ending
