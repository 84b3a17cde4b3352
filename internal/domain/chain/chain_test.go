package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molsdg/internal/domain/molecule"
	"github.com/turtacn/molsdg/internal/domain/smiles"
)

func mustParse(t *testing.T, s string) *molecule.Graph {
	t.Helper()
	g, err := smiles.Parse(s)
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	c := New([]int{3, 4, 5, 6, 7})
	assert.Equal(t, []int{3, 4, 5, 6, 7}, c.Atoms())
	assert.Equal(t, [2]int{-1, -1}, c.Caps)
	assert.Equal(t, []Turn{Left, Right, Left}, c.Zigzag)
	assert.True(t, c.InvertOK)
	assert.True(t, c.Contains(5))
	assert.False(t, c.Contains(8))
	assert.Equal(t, "chain[3 4 5 6 7]", c.String())

	short := New([]int{1, 2})
	assert.Empty(t, short.Zigzag)
	assert.False(t, short.InvertOK)
	assert.Equal(t, 2, short.Len())
}

func TestTurn_String(t *testing.T) {
	assert.Equal(t, "L", Left.String())
	assert.Equal(t, "R", Right.String())
	b, err := Right.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "R", string(b))
}

func TestPerceive_Hexane(t *testing.T) {
	chains := Perceive(mustParse(t, "CCCCCC"), nil, Options{})
	require.Len(t, chains, 1)
	assert.Equal(t, []int{1, 2, 3, 4}, chains[0].Atoms())
	assert.Equal(t, [2]int{0, 5}, chains[0].Caps)
	assert.Equal(t, []Turn{Left, Right}, chains[0].Zigzag)
}

func TestPerceive_Butane(t *testing.T) {
	chains := Perceive(mustParse(t, "CCCC"), nil, Options{})
	require.Len(t, chains, 1)
	assert.Equal(t, []int{1, 2}, chains[0].Atoms())
	assert.Equal(t, [2]int{0, 3}, chains[0].Caps)
	assert.False(t, chains[0].InvertOK)
}

func TestPerceive_SkipsRingAtoms(t *testing.T) {
	g := mustParse(t, "CCCCc1ccccc1")
	chains := Perceive(g, []int{4, 5, 6, 7, 8, 9}, Options{})
	require.Len(t, chains, 1)
	assert.Equal(t, []int{1, 2, 3}, chains[0].Atoms())
	assert.Equal(t, [2]int{0, 4}, chains[0].Caps)
}

func TestPerceive_BranchedChainsAreDisjoint(t *testing.T) {
	g := mustParse(t, "CCCCC(CCCC)CCCCCC")
	chains := Perceive(g, nil, Options{})
	require.Len(t, chains, 2)

	assert.Equal(t, []int{1, 2, 3, 4, 9, 10, 11, 12, 13}, chains[0].Atoms())
	assert.Equal(t, [2]int{0, 14}, chains[0].Caps)
	assert.Equal(t, []int{5, 6, 7}, chains[1].Atoms())
	assert.Equal(t, [2]int{4, 8}, chains[1].Caps)

	seen := map[int]bool{}
	for _, c := range chains {
		atoms := c.Atoms()
		for i, a := range atoms {
			assert.False(t, seen[a], "atom %d in two chains", a)
			seen[a] = true
			if i > 0 {
				assert.True(t, g.Connected(atoms[i-1], a))
			}
		}
	}
}

func TestPerceive_NoChains(t *testing.T) {
	for _, s := range []string{"C", "CC", "CC#CC", "C1CCCCC1", "[Na+].[Cl-]"} {
		t.Run(s, func(t *testing.T) {
			g := mustParse(t, s)
			var ring []int
			if g.CycleRank() > 0 {
				for i := 0; i < g.Size(); i++ {
					ring = append(ring, i)
				}
			}
			assert.Empty(t, Perceive(g, ring, Options{}))
		})
	}
}

func TestCoreAtoms_Demotion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts Options
		want []bool
	}{
		{
			name: "heteroatom substituents",
			in:   "CCC(O)(O)O",
			want: []bool{false, true, false, false, false, false},
		},
		{
			name: "pi substituents",
			in:   "C=CC(C=C)C=C",
			want: []bool{false, true, false, true, false, true, false},
		},
		{
			name: "congested at default",
			in:   "CC(C)(C)CC(C)(C)C",
			want: []bool{false, true, false, false, true, true, false, false, false},
		},
		{
			name: "congested with lower limit",
			in:   "CC(C)(C)CC(C)(C)C",
			opts: Options{MaxBetaAtoms: 5},
			want: []bool{false, true, false, false, false, true, false, false, false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustParse(t, tt.in)
			assert.Equal(t, tt.want, CoreAtoms(g, make([]bool, g.Size()), tt.opts))
		})
	}
}

func TestPerceive_CongestionSplitsChain(t *testing.T) {
	g := mustParse(t, "CC(C)(C)CC(C)(C)C")

	chains := Perceive(g, nil, Options{})
	require.Len(t, chains, 1)
	assert.Equal(t, []int{1, 4, 5}, chains[0].Atoms())
	assert.Equal(t, [2]int{0, 6}, chains[0].Caps)

	assert.Empty(t, Perceive(g, nil, Options{MaxBetaAtoms: 5}))
}

func TestFloydWarshall_PathReconstruction(t *testing.T) {
	// 0-1-2-3 with a shortcut 0-3 removed later
	edges := map[[2]int]bool{{0, 1}: true, {1, 2}: true, {2, 3}: true}
	connected := func(i, j int) bool { return edges[[2]int{i, j}] || edges[[2]int{j, i}] }

	w := newWeights(4, connected)
	sp := floydWarshall(w)
	from, to, ok := sp.longest()
	require.True(t, ok)
	assert.Equal(t, 0, from)
	assert.Equal(t, 3, to)
	assert.Equal(t, []int{0, 1, 2, 3}, sp.path(0, 3))
	assert.Equal(t, []int{3, 2, 1}, sp.path(3, 1))

	disconnect(w, []int{1})
	sp = floydWarshall(w)
	assert.Nil(t, sp.path(0, 3))
	from, to, ok = sp.longest()
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, []int{from, to})

	disconnect(w, []int{2})
	_, _, ok = floydWarshall(w).longest()
	assert.False(t, ok)
}

//Personal.AI order the ending
