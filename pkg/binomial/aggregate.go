package binomial

import (
	"math"
	"slices"
)

var pow10 = [MaxPrecision + 1]float64{1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9}

// Key is a vertical coordinate rounded to a fixed number of decimal places
// and scaled to an integer: with precision 2, y = -1.2 has key -120.
type Key int64

// KeyOf returns the key for y at the given precision, which must lie in
// [0, MaxPrecision]. Halves round away from zero. The result is only
// defined while |y|*10^precision fits in an int64; [Layout] and [Cone]
// reject inputs that could leave that range.
func KeyOf(y float64, precision int) Key {
	return Key(math.Round(y * pow10[precision]))
}

// Value converts k back to a coordinate at the given precision.
func (k Key) Value(precision int) float64 {
	return float64(k) / pow10[precision]
}

// Bucket collects the terminals that share a key.
type Bucket struct {
	Key Key `json:"key" yaml:"key"`
	// Point is the stored terminal: the latest arrival under LastWriteWins,
	// the first under Merge.
	Point Point `json:"point" yaml:"point"`
	// Node is the ID of the terminal held in Point.
	Node int `json:"node" yaml:"node"`
	// Points lists every kept terminal in arrival order. Under LastWriteWins
	// it holds only Point.
	Points []Point `json:"points" yaml:"points"`
	// Count is the number of terminals that arrived with this key.
	Count int `json:"count" yaml:"count"`
}

// Aggregate maps keys to buckets and remembers the order in which keys
// first appeared.
type Aggregate struct {
	precision int
	policy    Policy
	order     []Key
	buckets   map[Key]*Bucket
}

func newAggregate(opts Options) *Aggregate {
	return &Aggregate{
		precision: opts.Precision,
		policy:    opts.Policy,
		buckets:   make(map[Key]*Bucket),
	}
}

func (a *Aggregate) add(n Node) {
	key := KeyOf(n.Point.Y, a.precision)
	b, ok := a.buckets[key]
	if !ok {
		a.order = append(a.order, key)
		a.buckets[key] = &Bucket{
			Key:    key,
			Point:  n.Point,
			Node:   n.ID,
			Points: []Point{n.Point},
			Count:  1,
		}
		return
	}

	b.Count++
	switch a.policy {
	case Merge:
		b.Points = append(b.Points, n.Point)
	default:
		b.Point = n.Point
		b.Node = n.ID
		b.Points[0] = n.Point
	}
}

// Precision returns the decimal places used for keys.
func (a *Aggregate) Precision() int { return a.precision }

// Policy returns the collision policy.
func (a *Aggregate) Policy() Policy { return a.policy }

// Len returns the number of distinct keys.
func (a *Aggregate) Len() int { return len(a.order) }

// Keys returns the keys in first-arrival order.
func (a *Aggregate) Keys() []Key { return slices.Clone(a.order) }

// SortedKeys returns the keys in ascending order, or descending if desc.
func (a *Aggregate) SortedKeys(desc bool) []Key {
	keys := slices.Clone(a.order)
	slices.Sort(keys)
	if desc {
		slices.Reverse(keys)
	}
	return keys
}

// Get returns a copy of the bucket for k.
func (a *Aggregate) Get(k Key) (Bucket, bool) {
	b, ok := a.buckets[k]
	if !ok {
		return Bucket{}, false
	}
	out := *b
	out.Points = slices.Clone(b.Points)
	return out, true
}

// Buckets returns copies of every bucket in first-arrival order.
func (a *Aggregate) Buckets() []Bucket {
	out := make([]Bucket, 0, len(a.order))
	for _, k := range a.order {
		b, _ := a.Get(k)
		out = append(out, b)
	}
	return out
}

// Total returns the number of terminals that arrived, counting collisions.
func (a *Aggregate) Total() int {
	n := 0
	for _, b := range a.buckets {
		n += b.Count
	}
	return n
}
