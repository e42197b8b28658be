package binomial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
)

func TestCone_Shape(t *testing.T) {
	rows, err := binomial.Cone(binomial.Point{}, 5, binomial.DefaultConeOptions())
	require.NoError(t, err)
	require.Len(t, rows, 6)

	for s, row := range rows {
		assert.Len(t, row, s+1)
	}
	assert.Equal(t, []binomial.Point{{}}, rows[0])

	last := rows[5]
	assert.InDelta(t, 6.0, last[0].X, 1e-9)
	assert.InDelta(t, 3.5, last[0].Y, 1e-9)
	assert.InDelta(t, 0.5, last[5].Y, 1e-9)
	for k := 1; k < len(last); k++ {
		assert.InDelta(t, 0.6, last[k-1].Y-last[k].Y, 1e-9)
	}
}

func TestCone_Invalid(t *testing.T) {
	_, err := binomial.Cone(binomial.Point{}, -1, binomial.DefaultConeOptions())
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument))

	nan, inf := math.NaN(), math.Inf(1)
	bad := []struct {
		name   string
		origin binomial.Point
		opts   func(*binomial.ConeOptions)
	}{
		{"nan origin x", binomial.Point{X: nan}, nil},
		{"inf origin y", binomial.Point{Y: -inf}, nil},
		{"nan step_x", binomial.Point{}, func(o *binomial.ConeOptions) { o.StepX = nan }},
		{"inf trend", binomial.Point{}, func(o *binomial.ConeOptions) { o.TrendY = inf }},
		{"nan spread", binomial.Point{}, func(o *binomial.ConeOptions) { o.SpreadY = nan }},
		{"inf widen", binomial.Point{}, func(o *binomial.ConeOptions) { o.Widen = -inf }},
		{"unkeyable spread", binomial.Point{}, func(o *binomial.ConeOptions) { o.SpreadY = 1e17 }},
	}
	for _, tt := range bad {
		opts := binomial.DefaultConeOptions()
		if tt.opts != nil {
			tt.opts(&opts)
		}
		rows, err := binomial.Cone(tt.origin, 2, opts)
		assert.Nil(t, rows, tt.name)
		assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument), "%s: got %v", tt.name, err)
	}

	_, err = binomial.LabelCone(nil)
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument))

	_, err = binomial.LabelCone([][]binomial.Point{{{}}, {{}}})
	assert.True(t, merr.Is(err, merr.ErrCodeSizeMismatch))
}

func TestLabelCone(t *testing.T) {
	rows, err := binomial.Cone(binomial.Point{X: 1, Y: 1}, 5, binomial.DefaultConeOptions())
	require.NoError(t, err)

	labels, err := binomial.LabelCone(rows)
	require.NoError(t, err)

	values := make([]uint64, len(labels))
	for i, l := range labels {
		values[i] = l.Value
	}
	assert.Equal(t, []uint64{1, 5, 10, 10, 5, 1}, values)
}
