package binomial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/triangle"
)

// Vertical steps of 0.004 put +0.004 and -0.004 on the same two-decimal key.
var (
	tinyUp   = binomial.Vector{DX: 1, DY: 0.004}
	tinyDown = binomial.Vector{DX: 1, DY: -0.004}
)

func TestKeyOf(t *testing.T) {
	tests := []struct {
		y         float64
		precision int
		want      binomial.Key
	}{
		{-1.2, 2, -120},
		{3.0000000000000004, 2, 300},
		{0.004, 2, 0},
		{-0.004, 2, 0},
		{0.012, 2, 1},
		{1.25, 1, 13},
		{-1.25, 1, -13},
		{7.9, 0, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, binomial.KeyOf(tt.y, tt.precision), "KeyOf(%v, %d)", tt.y, tt.precision)
	}
	assert.InDelta(t, -1.2, binomial.Key(-120).Value(2), 1e-12)
}

func TestLayout_KeyRange(t *testing.T) {
	up := binomial.Vector{DX: 1, DY: 1e10}
	down := binomial.Vector{DX: 1, DY: -1e10}

	// At nine decimals the outer terminals at +-2e10 scale past int64.
	_, err := binomial.Layout(binomial.Point{}, 2, up, down, binomial.Options{Precision: 9})
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument), "got %v", err)

	_, _, err = binomial.LayoutLabeled(binomial.Point{}, 2, up, down, binomial.Options{Precision: 9})
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument), "got %v", err)

	// A large origin alone is enough.
	_, err = binomial.Layout(binomial.Point{Y: 1e17}, 0, up, down, binomial.DefaultOptions())
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument), "got %v", err)

	// Huge but finite steps whose sum overflows to +Inf.
	big := binomial.Vector{DX: 1, DY: math.MaxFloat64}
	_, err = binomial.Layout(binomial.Point{}, 3, big, down, binomial.DefaultOptions())
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument), "got %v", err)

	// The same tree keys cleanly at two decimals: three distinct levels in
	// descending order, labeled 1 2 1.
	res, labels, err := binomial.LayoutLabeled(binomial.Point{}, 2, up, down, binomial.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []binomial.Key{2e12, 0, -2e12}, res.Terminals.SortedKeys(true))
	require.Len(t, labels, 3)
	for i, want := range []uint64{1, 2, 1} {
		assert.Equal(t, want, labels[i].Value)
	}
}

func TestAggregate_SortedKeys(t *testing.T) {
	res, err := binomial.Layout(binomial.Point{}, 5, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)

	desc := res.Terminals.SortedKeys(true)
	assert.Equal(t, []binomial.Key{300, 180, 60, -60, -180, -300}, desc)

	asc := res.Terminals.SortedKeys(false)
	assert.Equal(t, []binomial.Key{-300, -180, -60, 60, 180, 300}, asc)

	_, ok := res.Terminals.Get(1)
	assert.False(t, ok)
}

func TestAggregate_LastWriteWins(t *testing.T) {
	res, err := binomial.Layout(binomial.Point{}, 5, stockUp, stockDown, binomial.DefaultOptions())
	require.NoError(t, err)

	wantCounts := map[binomial.Key]int{300: 1, 180: 5, 60: 10, -60: 10, -180: 5, -300: 1}
	for k, want := range wantCounts {
		b, ok := res.Terminals.Get(k)
		require.True(t, ok, "key %d", k)
		assert.Equal(t, want, b.Count, "key %d", k)
		assert.Len(t, b.Points, 1, "key %d", k)
		assert.Equal(t, b.Point, b.Points[0])
	}

	// The last path ending at y=0.6 is down, down, up, up, up.
	b, _ := res.Terminals.Get(60)
	assert.InDelta(t, 7.0, b.Point.X, 1e-9)
	assert.InDelta(t, 0.6, b.Point.Y, 1e-9)
}

func TestAggregate_Merge(t *testing.T) {
	opts := binomial.Options{Precision: 2, Policy: binomial.Merge}
	res, err := binomial.Layout(binomial.Point{}, 6, stockUp, stockDown, opts)
	require.NoError(t, err)

	row, err := triangle.RowAt(6)
	require.NoError(t, err)

	for i, k := range res.Terminals.SortedKeys(true) {
		b, ok := res.Terminals.Get(k)
		require.True(t, ok)
		assert.Equal(t, int(row[i]), b.Count, "level %d", i)
		assert.Len(t, b.Points, b.Count, "merge keeps every arrival")
	}
}

func TestAggregate_ForcedCollision(t *testing.T) {
	t.Run("last write wins", func(t *testing.T) {
		res, err := binomial.Layout(binomial.Point{}, 5, tinyUp, tinyDown, binomial.DefaultOptions())
		require.NoError(t, err)

		assert.Equal(t, []binomial.Key{2, 1, 0, -1, -2}, res.Terminals.SortedKeys(true))

		b, ok := res.Terminals.Get(0)
		require.True(t, ok)
		assert.Equal(t, 20, b.Count)
		assert.Len(t, b.Points, 1)
		assert.InDelta(t, -0.004, b.Point.Y, 1e-12, "last arrival was two up, three down")
	})

	t.Run("merge", func(t *testing.T) {
		res, err := binomial.Layout(binomial.Point{}, 5, tinyUp, tinyDown,
			binomial.Options{Precision: 2, Policy: binomial.Merge})
		require.NoError(t, err)

		b, ok := res.Terminals.Get(0)
		require.True(t, ok)
		assert.Equal(t, 20, b.Count)
		assert.Len(t, b.Points, 20)
		assert.InDelta(t, 0.004, b.Point.Y, 1e-12, "first arrival was three up, two down")
	})

	t.Run("label reports mismatch", func(t *testing.T) {
		_, _, err := binomial.LayoutLabeled(binomial.Point{}, 5, tinyUp, tinyDown, binomial.DefaultOptions())
		require.Error(t, err)
		assert.True(t, merr.Is(err, merr.ErrCodeSizeMismatch), "got %v", err)
	})

	t.Run("higher precision separates levels", func(t *testing.T) {
		_, labels, err := binomial.LayoutLabeled(binomial.Point{}, 5, tinyUp, tinyDown,
			binomial.Options{Precision: 3})
		require.NoError(t, err)
		assert.Len(t, labels, 6)
	})
}

func TestAggregate_CopiesAreIndependent(t *testing.T) {
	res, err := binomial.Layout(binomial.Point{}, 3, stockUp, stockDown,
		binomial.Options{Precision: 2, Policy: binomial.Merge})
	require.NoError(t, err)

	keys := res.Terminals.Keys()
	keys[0] = 12345
	assert.NotEqual(t, binomial.Key(12345), res.Terminals.Keys()[0])

	b, _ := res.Terminals.Get(60)
	b.Points[0] = binomial.Point{X: -1}
	again, _ := res.Terminals.Get(60)
	assert.NotEqual(t, binomial.Point{X: -1}, again.Points[0])
}
