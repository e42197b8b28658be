package binomial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/triangle"
)

func TestLabel_StockTree(t *testing.T) {
	res, labels, err := binomial.LayoutLabeled(binomial.Point{}, 5, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, labels, 6)

	wantValues := []uint64{1, 5, 10, 10, 5, 1}
	for i, l := range labels {
		assert.Equal(t, wantValues[i], l.Value, "label %d", i)
		assert.Equal(t, int(l.Value), l.Count, "arrivals match the row at level %d", i)
		if i > 0 {
			assert.Greater(t, labels[i-1].Point.Y, l.Point.Y, "labels run top to bottom")
		}
	}
}

func TestLabel_SizeMismatch(t *testing.T) {
	res, err := binomial.Layout(binomial.Point{}, 4, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)

	for _, n := range []int{4, 6} {
		row, err := triangle.RowAt(n)
		require.NoError(t, err)

		_, err = binomial.Label(res.Terminals, row)
		require.Error(t, err)
		assert.True(t, merr.Is(err, merr.ErrCodeSizeMismatch), "row %d: %v", n, err)
	}
}

func TestLabel_Degenerate(t *testing.T) {
	same := binomial.Vector{DX: 1, DY: 0.5}
	res, err := binomial.Layout(binomial.Point{}, 3, same, same, binomial.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Terminals.Len())

	_, _, err = binomial.LayoutLabeled(binomial.Point{}, 3, same, same, binomial.DefaultOptions())
	assert.True(t, merr.Is(err, merr.ErrCodeSizeMismatch))
}

func TestLabel_NilAggregate(t *testing.T) {
	_, err := binomial.Label(nil, triangle.Row{1})
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument))
}

func TestLabel_DepthZero(t *testing.T) {
	_, labels, err := binomial.LayoutLabeled(binomial.Point{X: 1, Y: 1}, 0, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, uint64(1), labels[0].Value)
	assert.Equal(t, binomial.Point{X: 1, Y: 1}, labels[0].Point)
}
