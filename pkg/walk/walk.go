// Package walk draws seeded random paths: the price line shown before the
// binomial tree, and the fan of forecast tracks shown before the cone.
//
// The same seed always yields the same path, so scenes render identically
// between runs and across machines.
package walk

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
)

const (
	// MaxSteps bounds the length of a single path.
	MaxSteps = 10_000
	// MaxPaths bounds the number of paths in a fan.
	MaxPaths = 1_000
)

// Price returns steps+1 values starting at start, each one the previous
// value plus a change drawn uniformly from [lo, hi).
func Price(start float64, steps int, lo, hi float64, seed uint64) ([]float64, error) {
	if err := merr.ValidateRange("steps", steps, 0, MaxSteps); err != nil {
		return nil, err
	}
	if !finite(start) {
		return nil, merr.New(merr.ErrCodeInvalidArgument, "start must be finite, got %v", start)
	}
	if err := validateInterval(lo, hi); err != nil {
		return nil, err
	}

	rng := newRand(seed)
	prices := make([]float64, 0, steps+1)
	prices = append(prices, start)
	for range steps {
		prices = append(prices, prices[len(prices)-1]+uniform(rng, lo, hi))
	}
	return prices, nil
}

// Fan returns paths jagged tracks leaving origin. Every step moves dx to the
// right and a vertical amount drawn uniformly from [dyLo, dyHi). All paths
// share one generator, so path i depends on the paths before it.
func Fan(origin binomial.Point, paths, steps int, dx, dyLo, dyHi float64, seed uint64) ([][]binomial.Point, error) {
	if err := merr.ValidateRange("paths", paths, 0, MaxPaths); err != nil {
		return nil, err
	}
	if err := merr.ValidateRange("steps", steps, 0, MaxSteps); err != nil {
		return nil, err
	}
	if !finite(origin.X) || !finite(origin.Y) {
		return nil, merr.New(merr.ErrCodeInvalidArgument, "origin must be finite, got (%v, %v)", origin.X, origin.Y)
	}
	if !finite(dx) {
		return nil, merr.New(merr.ErrCodeInvalidArgument, "dx must be finite, got %v", dx)
	}
	if err := validateInterval(dyLo, dyHi); err != nil {
		return nil, err
	}

	rng := newRand(seed)
	out := make([][]binomial.Point, paths)
	for i := range out {
		track := make([]binomial.Point, 0, steps+1)
		cur := origin
		track = append(track, cur)
		for range steps {
			cur = cur.Add(binomial.Vector{DX: dx, DY: uniform(rng, dyLo, dyHi)})
			track = append(track, cur)
		}
		out[i] = track
	}
	return out, nil
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validateInterval(lo, hi float64) error {
	if !finite(lo) || !finite(hi) {
		return merr.New(merr.ErrCodeInvalidArgument, "interval bounds must be finite, got [%v, %v)", lo, hi)
	}
	if lo > hi {
		return merr.New(merr.ErrCodeInvalidArgument, "interval lower bound %v exceeds upper bound %v", lo, hi)
	}
	return nil
}
