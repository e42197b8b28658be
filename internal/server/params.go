package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/pipeline"
	"github.com/matzehuels/meru/pkg/scene"
)

// query reads typed values from URL query parameters and keeps the first
// parse error.
type query struct {
	v   url.Values
	err error
}

func (q *query) has(name string) bool { return q.v.Has(name) }

func (q *query) int(name string, def int) int {
	s := q.v.Get(name)
	if s == "" || q.err != nil {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		q.err = merr.New(merr.ErrCodeInvalidArgument, "query parameter %s must be an integer, got %q", name, s)
		return def
	}
	return n
}

func (q *query) float(name string, def float64) float64 {
	s := q.v.Get(name)
	if s == "" || q.err != nil {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		q.err = merr.New(merr.ErrCodeInvalidArgument, "query parameter %s must be a number, got %q", name, s)
		return def
	}
	return f
}

func (q *query) uint(name string, def uint64) uint64 {
	s := q.v.Get(name)
	if s == "" || q.err != nil {
		return def
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		q.err = merr.New(merr.ErrCodeInvalidArgument, "query parameter %s must be a non-negative integer, got %q", name, s)
		return def
	}
	return n
}

func (q *query) bool(name string) bool {
	s := q.v.Get(name)
	if s == "" || q.err != nil {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		q.err = merr.New(merr.ErrCodeInvalidArgument, "query parameter %s must be a boolean, got %q", name, s)
	}
	return b
}

// sceneParams reads the parameters of kind from the query string. Values
// left unset keep the same defaults as the CLI.
func sceneParams(kind scene.Kind, v url.Values) (scene.Params, error) {
	q := &query{v: v}
	p := scene.Params{Kind: kind}
	p.Origin = binomial.Point{X: q.float("ox", 0), Y: q.float("oy", 0)}

	switch kind {
	case scene.KindTriangle:
		p.Rows = q.int("rows", 5)
	case scene.KindPatterns:
		p.Length = q.int("length", 3)
	case scene.KindTree:
		p.Depth = q.int("depth", 4)
		p.Up = binomial.Vector{DX: q.float("ux", scene.DefaultUp.DX), DY: q.float("uy", scene.DefaultUp.DY)}
		p.Down = binomial.Vector{DX: q.float("dx", scene.DefaultDown.DX), DY: q.float("dy", scene.DefaultDown.DY)}
		if q.has("precision") {
			prec := q.int("precision", binomial.DefaultPrecision)
			p.Precision = &prec
		}
		p.Policy = v.Get("policy")
	case scene.KindCone:
		c := binomial.DefaultConeOptions()
		p.Steps = q.int("steps", 5)
		p.Cone = binomial.ConeOptions{
			StepX:   q.float("step_x", c.StepX),
			TrendY:  q.float("trend", c.TrendY),
			SpreadY: q.float("spread", c.SpreadY),
			Widen:   q.float("widen", c.Widen),
		}
	case scene.KindWalk:
		p.Steps = q.int("steps", 6)
		p.Start = q.float("start", 60)
		p.Lo = q.float("lo", -5)
		p.Hi = q.float("hi", 7)
		p.Paths = q.int("paths", 0)
		p.DX = q.float("dx", 1)
		p.FanLo = q.float("fan_lo", scene.DefaultFanLo)
		p.FanHi = q.float("fan_hi", scene.DefaultFanHi)
		p.Seed = q.uint("seed", 42)
	}
	return p, q.err
}

// renderOptions builds pipeline options for one artifact format.
func renderOptions(p scene.Params, format string, v url.Values) (pipeline.Options, error) {
	q := &query{v: v}
	opts := pipeline.Options{
		Params:   p,
		Formats:  []string{format},
		Engine:   strings.ToLower(v.Get("engine")),
		Scale:    q.float("scale", 0),
		PNGScale: q.float("png_scale", 0),
		Parity:   q.bool("parity"),
		NoLabels: q.has("labels") && !q.bool("labels"),
		Refresh:  q.bool("refresh"),
	}
	return opts, q.err
}

// formatParam returns ?format=, defaulting to json.
func formatParam(v url.Values) string {
	if f := v.Get("format"); f != "" {
		return f
	}
	return "json"
}
