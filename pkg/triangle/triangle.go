package triangle

import (
	merr "github.com/matzehuels/meru/pkg/errors"
)

// MaxRows is the largest row count [Build] accepts. Row MaxRows-1 is the last
// row whose values all fit in a uint64.
const MaxRows = 68

// Row is one level of the triangle. Row i has length i+1.
type Row []uint64

// Index returns the row index (length minus one).
func (r Row) Index() int { return len(r) - 1 }

// Sum returns the sum of the row modulo 2^64. That is 2^Index for rows
// below 64; rows 64 and up wrap, and row 64 sums to 0.
func (r Row) Sum() uint64 {
	var s uint64
	for _, v := range r {
		s += v
	}
	return s
}

// Parity reports, for each entry, whether the value is odd.
func (r Row) Parity() []bool {
	out := make([]bool, len(r))
	for i, v := range r {
		out[i] = v%2 == 1
	}
	return out
}

// Equal reports whether two rows hold the same values.
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if r[i] != o[i] {
			return false
		}
	}
	return true
}

// Build returns the first rowCount rows of the triangle.
//
// It returns an INVALID_ARGUMENT error if rowCount < 1 or rowCount > MaxRows.
func Build(rowCount int) ([]Row, error) {
	if err := merr.ValidateRange("row count", rowCount, 1, MaxRows); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, rowCount)
	rows = append(rows, Row{1})
	for i := 1; i < rowCount; i++ {
		rows = append(rows, next(rows[i-1]))
	}
	return rows, nil
}

// RowAt returns row index i (0-based) without keeping earlier rows around.
func RowAt(i int) (Row, error) {
	if err := merr.ValidateRange("row index", i, 0, MaxRows-1); err != nil {
		return nil, err
	}
	row := Row{1}
	for range i {
		row = next(row)
	}
	return row, nil
}

// Binomial returns C(n, k), read from row n of the triangle.
// It returns 0 when k lies outside [0, n].
func Binomial(n, k int) (uint64, error) {
	row, err := RowAt(n)
	if err != nil {
		return 0, err
	}
	if k < 0 || k > n {
		return 0, nil
	}
	return row[k], nil
}

func next(prev Row) Row {
	row := make(Row, len(prev)+1)
	row[0] = 1
	for j := 0; j < len(prev)-1; j++ {
		row[j+1] = prev[j] + prev[j+1]
	}
	row[len(prev)] = 1
	return row
}
