package smiles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/molsdg/internal/domain/molecule"
	"github.com/turtacn/molsdg/pkg/errors"
)

// Option configures a Parser.
type Option func(*Parser)

// WithMaxAtoms rejects input with more than n atoms. n <= 0 disables the limit.
func WithMaxAtoms(n int) Option {
	return func(p *Parser) { p.maxAtoms = n }
}

// Parser converts token streams into graphs. The zero value has no atom limit.
type Parser struct {
	maxAtoms int
}

// NewParser returns a Parser configured by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse tokenizes s and builds its graph with default options.
func Parse(s string) (*molecule.Graph, error) {
	return NewParser().Parse(s)
}

// Parse tokenizes s and builds its graph.
func (p *Parser) Parse(s string) (*molecule.Graph, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.MalformedInput("empty SMILES string")
	}
	tokens, err := Tokenize(s)
	if err != nil {
		return nil, err
	}
	return p.Build(tokens)
}

// closure is an open ring-closure entry.
type closure struct {
	atom     int
	order    float64
	explicit bool
	pos      int
}

// buildState is the graph builder's working state for one token stream.
type buildState struct {
	b        *molecule.Builder
	prev     int
	order    float64
	explicit bool
	bondPos  int
	branches []int
	rings    map[int]closure
}

// Build consumes tokens left to right and returns the resulting graph.
func (p *Parser) Build(tokens []Token) (*molecule.Graph, error) {
	st := &buildState{
		b:     molecule.NewBuilder(),
		prev:  -1,
		rings: make(map[int]closure),
	}

	for i, tok := range tokens {
		switch tok.Kind {
		case TokenAtom:
			if p.maxAtoms > 0 && st.b.Len() >= p.maxAtoms {
				return nil, errors.New(errors.ErrCodeMoleculeTooLarge, "molecule exceeds atom limit").
					WithDetail(fmt.Sprintf("max_atoms=%d", p.maxAtoms))
			}
			id := st.b.AddAtom(tok.Atom)
			if st.prev >= 0 {
				if err := st.b.AddBond(st.prev, id, st.bondOrder(st.prev, id)); err != nil {
					return nil, err
				}
			}
			st.prev = id
			st.resetBond()

		case TokenBond:
			if st.explicit {
				return nil, malformed("consecutive bond symbols", tok.Pos)
			}
			if st.prev < 0 {
				return nil, malformed("bond without a preceding atom", tok.Pos)
			}
			st.order = tok.Order
			st.explicit = true
			st.bondPos = tok.Pos

		case TokenBranchOpen:
			if st.prev < 0 {
				return nil, malformed("branch without a preceding atom", tok.Pos)
			}
			if st.explicit {
				return nil, malformed("bond symbol before branch", tok.Pos)
			}
			if i+1 < len(tokens) && tokens[i+1].Kind == TokenBranchClose {
				return nil, malformed("empty branch", tok.Pos)
			}
			st.branches = append(st.branches, st.prev)

		case TokenBranchClose:
			if len(st.branches) == 0 {
				return nil, malformed("branch closed with no matching open", tok.Pos)
			}
			if st.explicit {
				return nil, malformed("bond symbol without a following atom", st.bondPos)
			}
			st.prev = st.branches[len(st.branches)-1]
			st.branches = st.branches[:len(st.branches)-1]

		case TokenRingClosure:
			if err := st.ringClosure(tok); err != nil {
				return nil, err
			}

		case TokenDot:
			if st.explicit {
				return nil, malformed("bond symbol without a following atom", st.bondPos)
			}
			if len(st.branches) > 0 {
				return nil, malformed("component separator inside a branch", tok.Pos)
			}
			st.prev = -1
		}
	}

	if st.explicit {
		return nil, malformed("bond symbol without a following atom", st.bondPos)
	}
	if len(st.branches) > 0 {
		return nil, errors.MalformedInput("unclosed branch").
			WithDetail(fmt.Sprintf("open=%d", len(st.branches)))
	}
	if len(st.rings) > 0 {
		labels := make([]int, 0, len(st.rings))
		for label := range st.rings {
			labels = append(labels, label)
		}
		sort.Ints(labels)
		return nil, errors.MalformedInput("dangling ring closure").
			WithDetail(fmt.Sprintf("labels=%v", labels))
	}
	if st.b.Len() == 0 {
		return nil, errors.MalformedInput("no atoms in input")
	}
	return st.b.Build(), nil
}

// ringClosure opens the label on first sight and bonds back on the second.
func (st *buildState) ringClosure(tok Token) error {
	if st.prev < 0 {
		return malformed("ring closure without a preceding atom", tok.Pos)
	}
	open, ok := st.rings[tok.Closure]
	if !ok {
		st.rings[tok.Closure] = closure{atom: st.prev, order: st.order, explicit: st.explicit, pos: tok.Pos}
		st.resetBond()
		return nil
	}
	delete(st.rings, tok.Closure)

	order := st.bondOrder(open.atom, st.prev)
	switch {
	case open.explicit && st.explicit && open.order != st.order:
		return malformed("conflicting ring-closure bond orders", tok.Pos)
	case open.explicit:
		order = open.order
	}
	if err := st.b.AddBond(open.atom, st.prev, order); err != nil {
		return err
	}
	st.resetBond()
	return nil
}

// bondOrder returns the pending explicit order, or the implicit order between
// a and b: aromatic when both atoms are aromatic, single otherwise.
func (st *buildState) bondOrder(a, b int) float64 {
	if st.explicit {
		return st.order
	}
	if st.b.Atom(a).Aromatic && st.b.Atom(b).Aromatic {
		return molecule.BondAromatic
	}
	return molecule.BondSingle
}

func (st *buildState) resetBond() {
	st.order = molecule.BondSingle
	st.explicit = false
}

//Personal.AI order the ending
