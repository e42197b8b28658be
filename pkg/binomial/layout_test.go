package binomial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
)

var (
	stockUp   = binomial.Vector{DX: 1.4, DY: 0.6}
	stockDown = binomial.Vector{DX: 1.4, DY: -0.6}
)

func TestLayout_InvalidArguments(t *testing.T) {
	origin := binomial.Point{}
	opts := binomial.DefaultOptions()

	tests := []struct {
		name   string
		depth  int
		origin binomial.Point
		up     binomial.Vector
		opts   binomial.Options
	}{
		{"negative depth", -1, origin, stockUp, opts},
		{"depth too large", binomial.MaxDepth + 1, origin, stockUp, opts},
		{"negative precision", 2, origin, stockUp, binomial.Options{Precision: -1}},
		{"precision too large", 2, origin, stockUp, binomial.Options{Precision: binomial.MaxPrecision + 1}},
		{"unknown policy", 2, origin, stockUp, binomial.Options{Precision: 2, Policy: binomial.Policy(7)}},
		{"nan origin", 2, binomial.Point{X: math.NaN()}, stockUp, opts},
		{"infinite vector", 2, origin, binomial.Vector{DX: 1, DY: math.Inf(1)}, opts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := binomial.Layout(tt.origin, tt.depth, tt.up, stockDown, tt.opts)
			require.Error(t, err)
			assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument), "got %v", err)
		})
	}
}

func TestLayout_DepthZero(t *testing.T) {
	origin := binomial.Point{X: 2, Y: 3}
	res, err := binomial.Layout(origin, 0, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)

	require.Len(t, res.Nodes, 1)
	assert.Empty(t, res.Edges)
	assert.Equal(t, -1, res.Nodes[0].Parent)
	assert.Equal(t, 1, res.Terminals.Len())

	b, ok := res.Terminals.Get(binomial.KeyOf(3, 2))
	require.True(t, ok)
	assert.Equal(t, origin, b.Point)
}

func TestLayout_Counts(t *testing.T) {
	for depth := 0; depth <= 10; depth++ {
		res, err := binomial.Layout(binomial.Point{}, depth, stockUp, stockDown, binomial.DefaultOptions())
		require.NoError(t, err)

		assert.Len(t, res.Nodes, 1<<(depth+1)-1, "depth %d nodes", depth)
		assert.Len(t, res.Edges, 1<<(depth+1)-2, "depth %d edges", depth)
		assert.Equal(t, 1<<depth, res.Terminals.Total(), "depth %d terminals", depth)
		assert.Equal(t, depth+1, res.Terminals.Len(), "depth %d distinct levels", depth)
	}
}

func TestLayout_EdgesFormTree(t *testing.T) {
	res, err := binomial.Layout(binomial.Point{}, 6, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)

	incoming := make(map[int]int)
	for _, e := range res.Edges {
		assert.Less(t, e.From, e.To)
		assert.Equal(t, e.From, res.Node(e.To).Parent)
		assert.Equal(t, res.Node(e.From).Depth+1, res.Node(e.To).Depth)
		incoming[e.To]++
	}
	assert.Zero(t, incoming[0], "root has no parent edge")
	for id := 1; id < len(res.Nodes); id++ {
		assert.Equal(t, 1, incoming[id], "node %d", id)
	}
}

func TestLayout_GenerationOrder(t *testing.T) {
	up := binomial.Vector{DX: 1, DY: 1}
	down := binomial.Vector{DX: 1, DY: -1}
	res, err := binomial.Layout(binomial.Point{}, 2, up, down, binomial.Options{})
	require.NoError(t, err)

	want := []binomial.Point{
		{X: 0, Y: 0},
		{X: 1, Y: 1}, {X: 1, Y: -1},
		{X: 2, Y: 2}, {X: 2, Y: 0},
		{X: 2, Y: 0}, {X: 2, Y: -2},
	}
	wantParent := []int{-1, 0, 0, 1, 1, 2, 2}
	for i, n := range res.Nodes {
		assert.Equal(t, i, n.ID)
		assert.Equal(t, want[i], n.Point, "node %d", i)
		assert.Equal(t, wantParent[i], n.Parent, "node %d", i)
	}
	assert.Equal(t, []binomial.Key{2, 0, -2}, res.Terminals.Keys())

	b, ok := res.Terminals.Get(0)
	require.True(t, ok)
	assert.Equal(t, 5, b.Node, "last writer is the down-up terminal")
	assert.Equal(t, 2, b.Count)
}

func TestLayout_Idempotent(t *testing.T) {
	a, err := binomial.Layout(binomial.Point{X: 1}, 7, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)
	b, err := binomial.Layout(binomial.Point{X: 1}, 7, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Nodes, b.Nodes)
	assert.Equal(t, a.Edges, b.Edges)
	assert.Equal(t, a.Terminals.Buckets(), b.Terminals.Buckets())
}

func TestLayout_MaxDepth(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates two million nodes")
	}
	res, err := binomial.Layout(binomial.Point{}, binomial.MaxDepth, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Nodes, 1<<(binomial.MaxDepth+1)-1)
	assert.Equal(t, binomial.MaxDepth+1, res.Terminals.Len())
}

func TestParsePolicy(t *testing.T) {
	p, err := binomial.ParsePolicy("merge")
	require.NoError(t, err)
	assert.Equal(t, binomial.Merge, p)

	p, err = binomial.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, binomial.LastWriteWins, p)
	assert.Equal(t, "last-write-wins", p.String())

	_, err = binomial.ParsePolicy("first")
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument))
}
