package scene

import (
	"fmt"

	"github.com/matzehuels/meru/pkg/binomial"
	"github.com/matzehuels/meru/pkg/pingala"
	"github.com/matzehuels/meru/pkg/triangle"
	"github.com/matzehuels/meru/pkg/walk"
)

// Generate runs the generator selected by p.Kind. Defaults are applied
// first; the returned Scene records the effective params. Any NaN or
// infinite float in p is an INVALID_ARGUMENT error.
func Generate(p Params) (*Scene, error) {
	if _, err := ParseKind(string(p.Kind)); err != nil {
		return nil, err
	}
	if err := p.ValidateFinite(); err != nil {
		return nil, err
	}
	p = p.WithDefaults()

	sc := &Scene{Kind: p.Kind, Params: p}
	var err error
	switch p.Kind {
	case KindTriangle:
		err = genTriangle(sc)
	case KindPatterns:
		err = genPatterns(sc)
	case KindTree:
		err = genTree(sc)
	case KindCone:
		err = genCone(sc)
	case KindWalk:
		err = genWalk(sc)
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func genTriangle(sc *Scene) error {
	rows, err := triangle.Build(sc.Params.Rows)
	if err != nil {
		return err
	}
	sc.Title = fmt.Sprintf("Meru Prastara, %d rows", len(rows))
	sc.Rows = make([][]uint64, len(rows))
	for i, r := range rows {
		sc.Rows[i] = r
	}
	return nil
}

func genPatterns(sc *Scene) error {
	seqs, err := pingala.Enumerate(sc.Params.Length)
	if err != nil {
		return err
	}
	counts, err := pingala.CountByLong(sc.Params.Length)
	if err != nil {
		return err
	}
	sc.Title = fmt.Sprintf("Pingala patterns of length %d", sc.Params.Length)
	sc.Patterns = make([]string, len(seqs))
	for i, s := range seqs {
		sc.Patterns[i] = s.String()
	}
	sc.LongCounts = counts
	return nil
}

func genTree(sc *Scene) error {
	p := sc.Params
	opts, err := p.TreeOptions()
	if err != nil {
		return err
	}
	res, labels, err := binomial.LayoutLabeled(p.Origin, p.Depth, p.Up, p.Down, opts)
	if err != nil {
		return err
	}
	sc.Title = fmt.Sprintf("Binomial tree, %d steps", p.Depth)
	sc.Nodes = res.Nodes
	sc.Edges = res.Edges
	sc.Buckets = res.Terminals.Buckets()
	sc.Labels = labels
	return nil
}

func genCone(sc *Scene) error {
	rows, err := binomial.Cone(sc.Params.Origin, sc.Params.Steps, sc.Params.Cone)
	if err != nil {
		return err
	}
	labels, err := binomial.LabelCone(rows)
	if err != nil {
		return err
	}
	sc.Title = fmt.Sprintf("Cone of uncertainty, %d steps", sc.Params.Steps)
	sc.Cone = rows
	sc.Labels = labels
	return nil
}

func genWalk(sc *Scene) error {
	p := sc.Params
	prices, err := walk.Price(p.Start, p.Steps, p.Lo, p.Hi, p.Seed)
	if err != nil {
		return err
	}
	sc.Title = fmt.Sprintf("Random walk, %d steps", p.Steps)
	sc.Prices = prices
	if p.Paths > 0 {
		tracks, err := walk.Fan(p.Origin, p.Paths, p.Steps, p.DX, p.FanLo, p.FanHi, p.Seed)
		if err != nil {
			return err
		}
		sc.Tracks = tracks
	}
	return nil
}
