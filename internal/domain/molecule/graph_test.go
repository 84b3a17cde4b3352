package molecule

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molsdg/pkg/errors"
)

// chainGraph builds a linear chain of symbols joined by the given orders.
func chainGraph(t *testing.T, symbols []string, orders []float64) *Graph {
	t.Helper()
	b := NewBuilder()
	for _, s := range symbols {
		b.AddAtom(Atom{Symbol: s, HCount: -1})
	}
	for i, o := range orders {
		require.NoError(t, b.AddBond(i, i+1, o))
	}
	return b.Build()
}

func ringGraph(t *testing.T, n int, order float64) *Graph {
	t.Helper()
	b := NewBuilder()
	for i := 0; i < n; i++ {
		b.AddAtom(Atom{Symbol: "C", Aromatic: order == BondAromatic, HCount: -1})
	}
	for i := 0; i < n; i++ {
		require.NoError(t, b.AddBond(i, (i+1)%n, order))
	}
	return b.Build()
}

func TestBuilder_RejectsBadBonds(t *testing.T) {
	b := NewBuilder()
	b.AddAtom(Atom{Symbol: "C"})
	b.AddAtom(Atom{Symbol: "C"})

	tests := []struct {
		name  string
		i, j  int
		order float64
	}{
		{"self loop", 0, 0, BondSingle},
		{"unknown atom", 0, 5, BondSingle},
		{"negative atom", -1, 0, BondSingle},
		{"bad order", 0, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.AddBond(tt.i, tt.j, tt.order)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedInput))
		})
	}

	require.NoError(t, b.AddBond(0, 1, BondDouble))
	err := b.AddBond(1, 0, BondSingle)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMalformedInput), "duplicate bond")
}

func TestGraph_ConnectivityMatchesBondOrder(t *testing.T) {
	g := chainGraph(t, []string{"C", "C", "O"}, []float64{BondSingle, BondDouble})

	for i := 0; i < g.Size(); i++ {
		assert.False(t, g.Connected(i, i))
		for j := 0; j < g.Size(); j++ {
			assert.Equal(t, g.BondOrder(i, j) > 0, g.Connected(i, j))
			assert.Equal(t, g.BondOrder(i, j), g.BondOrder(j, i))
		}
	}
	assert.Equal(t, []Bond{{A: 0, B: 1, Order: 1}, {A: 1, B: 2, Order: 2}}, g.Bonds())
	assert.Equal(t, 2, g.BondCount())
}

func TestGraph_AlphaBeta(t *testing.T) {
	// C0-C1(-C3)-C2
	b := NewBuilder()
	for i := 0; i < 4; i++ {
		b.AddAtom(Atom{Symbol: "C"})
	}
	require.NoError(t, b.AddBond(0, 1, 1))
	require.NoError(t, b.AddBond(1, 2, 1))
	require.NoError(t, b.AddBond(1, 3, 1))
	g := b.Build()

	assert.Equal(t, []int{1}, g.Alpha(0))
	assert.Equal(t, []int{0, 2, 3}, g.Alpha(1))
	assert.Equal(t, []int{2, 3}, g.Beta(0))
	assert.Empty(t, g.Beta(1))
}

func TestGraph_BetaIsDeduplicated(t *testing.T) {
	g := ringGraph(t, 4, BondSingle)
	// In a square both neighbours of 0 reach 2.
	assert.Equal(t, []int{2}, g.Beta(0))
}

func TestGraph_Hybridization(t *testing.T) {
	tests := []struct {
		name    string
		symbols []string
		orders  []float64
		atom    int
		want    Hybridization
	}{
		{"ethane", []string{"C", "C"}, []float64{1}, 0, SP3},
		{"ethene", []string{"C", "C"}, []float64{2}, 0, SP2},
		{"ethyne", []string{"C", "C"}, []float64{3}, 0, SP},
		{"allene centre", []string{"C", "C", "C"}, []float64{2, 2}, 1, SP},
		{"over-saturated", []string{"C", "C", "C"}, []float64{3, 2}, 1, HybridizationError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := chainGraph(t, tt.symbols, tt.orders)
			assert.Equal(t, tt.want, g.Hybridization(tt.atom))
		})
	}

	benzene := ringGraph(t, 6, BondAromatic)
	for i := 0; i < 6; i++ {
		assert.Equal(t, SP2, benzene.Hybridization(i), "aromatic carbon %d", i)
	}
}

func TestHybridization_String(t *testing.T) {
	assert.Equal(t, "sp3", SP3.String())
	assert.Equal(t, "sp2", SP2.String())
	assert.Equal(t, "sp", SP.String())
	assert.Equal(t, "error", HybridizationError.String())
	assert.False(t, SP3.HasPi())
	assert.True(t, HybridizationError.HasPi())
}

func TestGraph_Degree(t *testing.T) {
	// C0-C1(-O3)-C2, N4 isolated
	b := NewBuilder()
	for _, s := range []string{"C", "C", "C", "O", "N"} {
		b.AddAtom(Atom{Symbol: s})
	}
	require.NoError(t, b.AddBond(0, 1, 1))
	require.NoError(t, b.AddBond(1, 2, 1))
	require.NoError(t, b.AddBond(1, 3, 1))
	g := b.Build()

	assert.Equal(t, 1, g.Degree(0))
	assert.Equal(t, 2, g.Degree(1))
	assert.Equal(t, 2, g.Degree(3), "heteroatom takes its carbon's degree")
	assert.Equal(t, -1, g.Degree(4))
}

func TestGraph_ComponentsAndCycleRank(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 5; i++ {
		b.AddAtom(Atom{Symbol: "C"})
	}
	require.NoError(t, b.AddBond(0, 1, 1))
	require.NoError(t, b.AddBond(1, 2, 1))
	require.NoError(t, b.AddBond(2, 0, 1))
	require.NoError(t, b.AddBond(3, 4, 1))
	g := b.Build()

	assert.Equal(t, 2, g.Components())
	assert.Equal(t, 1, g.CycleRank())
}

func TestGraph_ConcurrentDerivation(t *testing.T) {
	g := ringGraph(t, 8, BondSingle)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			_ = g.Beta(w)
			_ = g.Hybridization(w)
			_ = g.Degree(w)
		}(w)
	}
	wg.Wait()
	assert.Equal(t, []int{2, 6}, g.Beta(0))
}

func TestBondOrderMatrix_IsCopy(t *testing.T) {
	g := chainGraph(t, []string{"C", "C"}, []float64{1})
	m := g.BondOrderMatrix()
	m[0][1] = 3
	assert.Equal(t, 1.0, g.BondOrder(0, 1))
}

func TestReport(t *testing.T) {
	g := chainGraph(t, []string{"C", "C", "O"}, []float64{1, 2})
	r := NewReport(g)

	assert.Equal(t, []string{"C", "C", "O"}, r.Symbols)
	assert.Equal(t, []string{"sp3", "sp2", "sp2"}, r.Hybridizations)
	assert.Equal(t, []int{1, 1, 1}, r.Degrees)
	assert.Equal(t, [][]int{{1}, {0, 2}, {1}}, r.Alpha)
	assert.Equal(t, [][]int{{2}, {}, {0}}, r.Beta)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "types:          C C O")
	assert.Contains(t, out, "hybridizations: sp3 sp2 sp2")
	assert.Contains(t, out, "bond orders:")
	assert.Contains(t, out, "beta atoms:")
}

func TestIsElement(t *testing.T) {
	assert.True(t, IsElement("C"))
	assert.True(t, IsElement("Cl"))
	assert.False(t, IsElement("cl"))
	assert.False(t, IsElement("Xx"))
}

//Personal.AI order the ending
