package binomial

import (
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/triangle"
)

// LabeledPoint is a terminal level paired with its triangle value.
type LabeledPoint struct {
	Key   Key    `json:"key" yaml:"key"`
	Point Point  `json:"point" yaml:"point"`
	Value uint64 `json:"value" yaml:"value"`
	// Count is how many terminals arrived at this level.
	Count int `json:"count" yaml:"count"`
}

// Label pairs the aggregate's levels, highest first, with the entries of row.
//
// It returns a SIZE_MISMATCH error when the number of levels differs from
// len(row), and an INVALID_ARGUMENT error for a nil aggregate.
func Label(agg *Aggregate, row triangle.Row) ([]LabeledPoint, error) {
	if agg == nil {
		return nil, merr.New(merr.ErrCodeInvalidArgument, "aggregate is nil")
	}
	keys := agg.SortedKeys(true)
	if len(keys) != len(row) {
		return nil, merr.New(merr.ErrCodeSizeMismatch,
			"%d terminal levels cannot be labeled with a row of %d values", len(keys), len(row))
	}

	out := make([]LabeledPoint, len(keys))
	for i, k := range keys {
		b := agg.buckets[k]
		out[i] = LabeledPoint{Key: k, Point: b.Point, Value: row[i], Count: b.Count}
	}
	return out, nil
}

// LayoutLabeled lays out the tree and labels its terminals with row depth of
// the triangle.
func LayoutLabeled(origin Point, depth int, up, down Vector, opts Options) (*Result, []LabeledPoint, error) {
	res, err := Layout(origin, depth, up, down, opts)
	if err != nil {
		return nil, nil, err
	}
	row, err := triangle.RowAt(depth)
	if err != nil {
		return nil, nil, err
	}
	labels, err := Label(res.Terminals, row)
	if err != nil {
		return res, nil, err
	}
	return res, labels, nil
}
