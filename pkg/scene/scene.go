package scene

import (
	"math"
	"slices"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
)

// =============================================================================
// Kinds
// =============================================================================

// Kind names the generator a Scene came from.
type Kind string

const (
	KindTriangle Kind = "triangle"
	KindPatterns Kind = "patterns"
	KindTree     Kind = "tree"
	KindCone     Kind = "cone"
	KindWalk     Kind = "walk"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindTriangle, KindPatterns, KindTree, KindCone, KindWalk}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if slices.Contains(Kinds, k) {
		return k, nil
	}
	return "", merr.New(merr.ErrCodeInvalidKind, "unknown scene kind %q (want one of %v)", s, Kinds)
}

// =============================================================================
// Params - Generator Inputs
// =============================================================================

// Params are the inputs of one scene. Only the fields used by Kind matter.
type Params struct {
	Kind Kind `json:"kind" yaml:"kind" toml:"kind" bson:"kind" validate:"required,oneof=triangle patterns tree cone walk"`

	// triangle
	Rows int `json:"rows,omitempty" yaml:"rows,omitempty" toml:"rows" bson:"rows,omitempty" validate:"min=0,max=68"`

	// patterns
	Length int `json:"length,omitempty" yaml:"length,omitempty" toml:"length" bson:"length,omitempty" validate:"min=0,max=20"`

	// tree, cone and walk
	Origin binomial.Point `json:"origin" yaml:"origin" toml:"origin" bson:"origin"`

	// tree
	Depth     int             `json:"depth,omitempty" yaml:"depth,omitempty" toml:"depth" bson:"depth,omitempty" validate:"min=0,max=20"`
	Up        binomial.Vector `json:"up" yaml:"up" toml:"up" bson:"up"`
	Down      binomial.Vector `json:"down" yaml:"down" toml:"down" bson:"down"`
	Precision *int            `json:"precision,omitempty" yaml:"precision,omitempty" toml:"precision" bson:"precision,omitempty" validate:"omitempty,min=0,max=9"`
	Policy    string          `json:"policy,omitempty" yaml:"policy,omitempty" toml:"policy" bson:"policy,omitempty" validate:"omitempty,oneof=last-write-wins lww last merge"`

	// cone
	Steps int                  `json:"steps,omitempty" yaml:"steps,omitempty" toml:"steps" bson:"steps,omitempty" validate:"min=0,max=10000"`
	Cone  binomial.ConeOptions `json:"cone" yaml:"cone" toml:"cone" bson:"cone"`

	// walk (Steps is shared with cone). Lo and Hi bound the price change per
	// step; FanLo and FanHi bound the vertical move of each fan path step.
	Start float64 `json:"start,omitempty" yaml:"start,omitempty" toml:"start" bson:"start,omitempty"`
	Lo    float64 `json:"lo,omitempty" yaml:"lo,omitempty" toml:"lo" bson:"lo,omitempty"`
	Hi    float64 `json:"hi,omitempty" yaml:"hi,omitempty" toml:"hi" bson:"hi,omitempty"`
	Paths int     `json:"paths,omitempty" yaml:"paths,omitempty" toml:"paths" bson:"paths,omitempty" validate:"min=0,max=1000"`
	DX    float64 `json:"dx,omitempty" yaml:"dx,omitempty" toml:"dx" bson:"dx,omitempty"`
	FanLo float64 `json:"fan_lo,omitempty" yaml:"fan_lo,omitempty" toml:"fan_lo" bson:"fan_lo,omitempty"`
	FanHi float64 `json:"fan_hi,omitempty" yaml:"fan_hi,omitempty" toml:"fan_hi" bson:"fan_hi,omitempty"`
	Seed  uint64  `json:"seed,omitempty" yaml:"seed,omitempty" toml:"seed" bson:"seed,omitempty"`
}

// Default tree vectors, taken from the stock market drawing.
var (
	DefaultUp   = binomial.Vector{DX: 1.4, DY: 0.6}
	DefaultDown = binomial.Vector{DX: 1.4, DY: -0.6}
)

// Default fan interval, taken from the weather drawing.
const (
	DefaultFanLo = -0.5
	DefaultFanHi = 1.0
)

// WithDefaults returns a copy of p with unset vectors, cone grid, fan
// interval and key precision filled in. A pair (up/down, fan_lo/fan_hi) is
// only defaulted when both halves are zero, so setting either one keeps
// the other as given, zero included. Counts (rows, length, depth, steps)
// are never defaulted since zero is meaningful for most of them.
func (p Params) WithDefaults() Params {
	switch p.Kind {
	case KindTree:
		if p.Up == (binomial.Vector{}) && p.Down == (binomial.Vector{}) {
			p.Up, p.Down = DefaultUp, DefaultDown
		}
		if p.Precision == nil {
			prec := binomial.DefaultPrecision
			p.Precision = &prec
		}
	case KindCone:
		if p.Cone == (binomial.ConeOptions{}) {
			p.Cone = binomial.DefaultConeOptions()
		}
	case KindWalk:
		if p.FanLo == 0 && p.FanHi == 0 {
			p.FanLo, p.FanHi = DefaultFanLo, DefaultFanHi
		}
	}
	return p
}

// ValidateFinite rejects NaN and infinite coordinates in any float field,
// whether or not the kind uses it: every field ends up in the Scene.
func (p Params) ValidateFinite() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"origin.x", p.Origin.X}, {"origin.y", p.Origin.Y},
		{"up.dx", p.Up.DX}, {"up.dy", p.Up.DY},
		{"down.dx", p.Down.DX}, {"down.dy", p.Down.DY},
		{"cone.step_x", p.Cone.StepX}, {"cone.trend_y", p.Cone.TrendY},
		{"cone.spread_y", p.Cone.SpreadY}, {"cone.widen", p.Cone.Widen},
		{"start", p.Start}, {"lo", p.Lo}, {"hi", p.Hi},
		{"dx", p.DX}, {"fan_lo", p.FanLo}, {"fan_hi", p.FanHi},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return merr.New(merr.ErrCodeInvalidArgument, "%s must be finite, got %v", f.name, f.v)
		}
	}
	return nil
}

// TreeOptions converts the tree fields to binomial options.
func (p Params) TreeOptions() (binomial.Options, error) {
	policy, err := binomial.ParsePolicy(p.Policy)
	if err != nil {
		return binomial.Options{}, err
	}
	opts := binomial.DefaultOptions()
	opts.Policy = policy
	if p.Precision != nil {
		opts.Precision = *p.Precision
	}
	return opts, nil
}

// =============================================================================
// Scene - Serialized Result
// =============================================================================

// Scene is the serialized output of one generator run.
type Scene struct {
	Kind   Kind   `json:"kind" yaml:"kind" bson:"kind"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty" bson:"title,omitempty"`
	Params Params `json:"params" yaml:"params" bson:"params"`

	// triangle
	Rows [][]uint64 `json:"rows,omitempty" yaml:"rows,omitempty" bson:"rows,omitempty"`

	// patterns
	Patterns   []string `json:"patterns,omitempty" yaml:"patterns,omitempty" bson:"patterns,omitempty"`
	LongCounts []uint64 `json:"long_counts,omitempty" yaml:"long_counts,omitempty" bson:"long_counts,omitempty"`

	// tree
	Nodes   []binomial.Node   `json:"nodes,omitempty" yaml:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges   []binomial.Edge   `json:"edges,omitempty" yaml:"edges,omitempty" bson:"edges,omitempty"`
	Buckets []binomial.Bucket `json:"buckets,omitempty" yaml:"buckets,omitempty" bson:"buckets,omitempty"`

	// tree and cone
	Labels []binomial.LabeledPoint `json:"labels,omitempty" yaml:"labels,omitempty" bson:"labels,omitempty"`

	// cone
	Cone [][]binomial.Point `json:"cone,omitempty" yaml:"cone,omitempty" bson:"cone,omitempty"`

	// walk
	Prices []float64          `json:"prices,omitempty" yaml:"prices,omitempty" bson:"prices,omitempty"`
	Tracks [][]binomial.Point `json:"tracks,omitempty" yaml:"tracks,omitempty" bson:"tracks,omitempty"`
}

// Validate checks that the fields required by Kind are present.
func (s *Scene) Validate() error {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	missing := func(what string) error {
		return merr.New(merr.ErrCodeInvalidFormat, "%s scene must contain %s", s.Kind, what)
	}
	switch s.Kind {
	case KindTriangle:
		if len(s.Rows) == 0 {
			return missing("rows")
		}
	case KindPatterns:
		if len(s.Patterns) == 0 {
			return missing("patterns")
		}
	case KindTree:
		if len(s.Nodes) == 0 {
			return missing("nodes")
		}
	case KindCone:
		if len(s.Cone) == 0 {
			return missing("cone rows")
		}
	case KindWalk:
		if len(s.Prices) == 0 && len(s.Tracks) == 0 {
			return missing("prices or tracks")
		}
	}
	return nil
}

// Size is the number of generated elements: triangle cells, patterns,
// tree nodes, cone points or walk samples.
func (s *Scene) Size() int {
	n := len(s.Patterns) + len(s.Nodes) + len(s.Prices)
	for _, row := range s.Rows {
		n += len(row)
	}
	for _, row := range s.Cone {
		n += len(row)
	}
	for _, t := range s.Tracks {
		n += len(t)
	}
	return n
}
