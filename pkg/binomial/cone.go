package binomial

import (
	"math"

	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/triangle"
)

// ConeOptions set the grid of a cone.
type ConeOptions struct {
	// StepX is the horizontal distance between rows.
	StepX float64 `json:"step_x" yaml:"step_x" toml:"step_x"`
	// TrendY shifts every row up by TrendY per step.
	TrendY float64 `json:"trend_y" yaml:"trend_y" toml:"trend_y"`
	// SpreadY is the vertical gap between neighbours within a row.
	SpreadY float64 `json:"spread_y" yaml:"spread_y" toml:"spread_y"`
	// Widen shifts every row up by Widen per step, re-centering the spread.
	Widen float64 `json:"widen" yaml:"widen" toml:"widen"`
}

// DefaultConeOptions returns the grid used by the weather drawing.
func DefaultConeOptions() ConeOptions {
	return ConeOptions{StepX: 1.2, TrendY: 0.5, SpreadY: 0.6, Widen: 0.2}
}

// Cone returns steps+1 rows of points. Row s holds s+1 points:
//
//	x = origin.X + s*StepX
//	y = origin.Y + s*TrendY - k*SpreadY + s*Widen    (k = 0..s)
//
// It returns an INVALID_ARGUMENT error if steps lies outside [0, MaxDepth],
// any coordinate or grid option is not finite, or the last row lies too far
// from zero to be keyed at DefaultPrecision.
func Cone(origin Point, steps int, opts ConeOptions) ([][]Point, error) {
	if err := merr.ValidateRange("steps", steps, 0, MaxDepth); err != nil {
		return nil, err
	}
	if !finite(origin.X) || !finite(origin.Y) {
		return nil, merr.New(merr.ErrCodeInvalidArgument, "origin must be finite, got (%v, %v)", origin.X, origin.Y)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"step_x", opts.StepX},
		{"trend_y", opts.TrendY},
		{"spread_y", opts.SpreadY},
		{"widen", opts.Widen},
	} {
		if !finite(f.v) {
			return nil, merr.New(merr.ErrCodeInvalidArgument, "%s must be finite, got %v", f.name, f.v)
		}
	}
	n := float64(steps)
	reach := math.Abs(origin.Y) + n*(math.Abs(opts.TrendY)+math.Abs(opts.Widen)+math.Abs(opts.SpreadY))
	if err := checkKeyRange("cone", reach, DefaultPrecision); err != nil {
		return nil, err
	}
	rows := make([][]Point, steps+1)
	for s := range rows {
		step := float64(s)
		row := make([]Point, s+1)
		for k := range row {
			row[k] = Point{
				X: origin.X + step*opts.StepX,
				Y: origin.Y + step*opts.TrendY - float64(k)*opts.SpreadY + step*opts.Widen,
			}
		}
		rows[s] = row
	}
	return rows, nil
}

// LabelCone pairs the last row of a cone with the matching triangle row.
func LabelCone(rows [][]Point) ([]LabeledPoint, error) {
	if len(rows) == 0 {
		return nil, merr.New(merr.ErrCodeInvalidArgument, "cone has no rows")
	}
	last := rows[len(rows)-1]
	row, err := triangle.RowAt(len(rows) - 1)
	if err != nil {
		return nil, err
	}
	if len(last) != len(row) {
		return nil, merr.New(merr.ErrCodeSizeMismatch,
			"cone row of %d points cannot be labeled with a row of %d values", len(last), len(row))
	}
	out := make([]LabeledPoint, len(last))
	for i, p := range last {
		out[i] = LabeledPoint{Key: KeyOf(p.Y, DefaultPrecision), Point: p, Value: row[i], Count: 1}
	}
	return out, nil
}
