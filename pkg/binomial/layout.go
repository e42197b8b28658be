package binomial

import (
	"fmt"
	"math"

	merr "github.com/matzehuels/meru/pkg/errors"
)

const (
	// MaxDepth is the deepest tree [Layout] builds (2^21 - 1 nodes).
	MaxDepth = 20

	// DefaultPrecision is the number of decimal places used for keys.
	DefaultPrecision = 2

	// MaxPrecision bounds Options.Precision so scaled keys stay exact.
	MaxPrecision = 9
)

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p displaced by v.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.DX, Y: p.Y + v.DY}
}

// Vector is a displacement applied at every branching step.
type Vector struct {
	DX float64 `json:"dx" yaml:"dx"`
	DY float64 `json:"dy" yaml:"dy"`
}

// Node is one vertex of the tree. The root has ID 0 and Parent -1.
type Node struct {
	ID     int   `json:"id" yaml:"id"`
	Point  Point `json:"point" yaml:"point"`
	Depth  int   `json:"depth" yaml:"depth"`
	Parent int   `json:"parent" yaml:"parent"`
}

// Edge connects a parent node to one of its children.
type Edge struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

// Policy selects how terminals with equal keys are stored.
type Policy int

const (
	// LastWriteWins keeps the latest terminal for each key.
	LastWriteWins Policy = iota
	// Merge keeps every terminal for each key.
	Merge
)

// String returns the policy name used by the CLI, config files and HTTP API.
func (p Policy) String() string {
	switch p {
	case LastWriteWins:
		return "last-write-wins"
	case Merge:
		return "merge"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses a policy name. The empty string selects LastWriteWins.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "last-write-wins", "lww", "last":
		return LastWriteWins, nil
	case "merge":
		return Merge, nil
	}
	return 0, merr.New(merr.ErrCodeInvalidArgument, "unknown collision policy %q (want last-write-wins or merge)", s)
}

// Options tune how terminals are grouped. The zero value keys on whole units
// with LastWriteWins; use [DefaultOptions] for two decimal places.
type Options struct {
	// Precision is the number of decimal places kept in a Key (0..MaxPrecision).
	Precision int
	// Policy is the collision policy.
	Policy Policy
}

// DefaultOptions returns the options used by the reference drawings.
func DefaultOptions() Options {
	return Options{Precision: DefaultPrecision, Policy: LastWriteWins}
}

// Validate checks the options without modifying them.
func (o Options) Validate() error {
	if err := merr.ValidateRange("precision", o.Precision, 0, MaxPrecision); err != nil {
		return err
	}
	if o.Policy != LastWriteWins && o.Policy != Merge {
		return merr.New(merr.ErrCodeInvalidArgument, "unknown collision policy %d", int(o.Policy))
	}
	return nil
}

// Result holds a laid out tree and its terminal aggregate.
type Result struct {
	Depth     int
	Nodes     []Node
	Edges     []Edge
	Terminals *Aggregate
}

// Node returns the node with the given ID.
func (r *Result) Node(id int) Node { return r.Nodes[id] }

// Layout builds a depth-level binary tree rooted at origin. Every node below
// depth gets an up child (origin + up) and then a down child (origin + down),
// numbered consecutively. The up subtree is walked before the down subtree,
// so terminals arrive in pre-order.
//
// The tree has 2^(depth+1)-1 nodes, 2^(depth+1)-2 edges and 2^depth
// terminals. It returns an INVALID_ARGUMENT error if depth < 0,
// depth > MaxDepth, any coordinate is not finite, opts is invalid, or a
// terminal could land too far from zero to be keyed at opts.Precision.
func Layout(origin Point, depth int, up, down Vector, opts Options) (*Result, error) {
	if err := merr.ValidateRange("depth", depth, 0, MaxDepth); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for _, c := range []struct {
		name string
		x, y float64
	}{
		{"origin", origin.X, origin.Y},
		{"up", up.DX, up.DY},
		{"down", down.DX, down.DY},
	} {
		if !finite(c.x) || !finite(c.y) {
			return nil, merr.New(merr.ErrCodeInvalidArgument, "%s must be finite, got (%v, %v)", c.name, c.x, c.y)
		}
	}
	reach := math.Abs(origin.Y) + float64(depth)*max(math.Abs(up.DY), math.Abs(down.DY))
	if err := checkKeyRange("tree", reach, opts.Precision); err != nil {
		return nil, err
	}

	total := 1<<(depth+1) - 1
	res := &Result{
		Depth:     depth,
		Nodes:     make([]Node, 0, total),
		Edges:     make([]Edge, 0, total-1),
		Terminals: newAggregate(opts),
	}
	res.Nodes = append(res.Nodes, Node{ID: 0, Point: origin, Parent: -1})

	stack := make([]int, 0, 2*depth+1)
	stack = append(stack, 0)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := res.Nodes[id]
		if n.Depth == depth {
			res.Terminals.add(n)
			continue
		}
		u := res.branch(n, up)
		d := res.branch(n, down)
		stack = append(stack, d, u)
	}
	return res, nil
}

func (r *Result) branch(parent Node, v Vector) int {
	id := len(r.Nodes)
	r.Nodes = append(r.Nodes, Node{
		ID:     id,
		Point:  parent.Point.Add(v),
		Depth:  parent.Depth + 1,
		Parent: parent.ID,
	})
	r.Edges = append(r.Edges, Edge{From: parent.ID, To: id})
	return id
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// keyLimit bounds |y|*10^precision for any height that gets keyed, with one
// power of two of headroom under the int64 range.
const keyLimit = 1 << 62

// checkKeyRange rejects heights up to reach that KeyOf cannot represent.
func checkKeyRange(what string, reach float64, precision int) error {
	if reach*pow10[precision] >= keyLimit {
		return merr.New(merr.ErrCodeInvalidArgument,
			"%s heights reach %g, too far from zero to key at precision %d", what, reach, precision)
	}
	return nil
}
