// Package pkg provides the core libraries behind meru.
//
// # Overview
//
// Meru computes the combinatorics of the Meru Prastara (Pascal's triangle),
// enumerates Pingala's short/long syllable patterns and lays out recombining
// binomial trees whose terminal heights are labeled with triangle values.
// The pkg directory is organized into four areas:
//
//  1. Domain logic: [triangle], [pingala], [binomial], [walk]
//  2. Scenes: [scene] ties parameters to generator output and serializes it
//  3. Rendering: [render] and its svg and dot subpackages
//  4. Infrastructure: [pipeline], [cache], [store], [config], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	scene.Params
//	     ↓
//	[scene] package (triangle / patterns / tree / cone / walk)
//	     ↓
//	[render] package (svg, dot, png, pdf, json, yaml)
//	     ↓
//	[cache] and [store]
//
// # Quick Start
//
// Build a tree and label its terminals:
//
//	import (
//	    "github.com/matzehuels/meru/pkg/binomial"
//	    "github.com/matzehuels/meru/pkg/triangle"
//	)
//
//	up := binomial.Vector{DX: 1.4, DY: 0.6}
//	down := binomial.Vector{DX: 1.4, DY: -0.6}
//	res, err := binomial.Layout(binomial.Point{}, 4, up, down, binomial.DefaultOptions())
//	row, err := triangle.RowAt(4)
//	labels, err := binomial.Label(res.Terminals, row)
//
// Or run the whole pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Params:  scene.Params{Kind: scene.KindTree, Depth: 4},
//	    Formats: []string{"svg", "json"},
//	})
//
// # Main Packages
//
// [triangle] - Rows of the Meru Prastara, built row by row from the
// previous one. Entries are uint64; rows past [triangle.MaxRows] overflow
// and are rejected.
//
// [pingala] - Every sequence of short and long syllables of a length, in
// short-first binary order, plus the per-long-count totals that equal a
// triangle row.
//
// [binomial] - Tree layout from an origin and two step vectors,
// aggregation of terminals by rounded height and labeling with a triangle
// row. Also the cone of uncertainty grid.
//
// [walk] - Seeded random price walks and the path fan drawn over a cone.
//
// [scene] - Generator parameters, the serialized Scene and its JSON/YAML
// codecs.
//
// [render] - Format names and SVG to PNG/PDF conversion via rsvg-convert.
// [render/svg] draws scenes from coordinates; [render/dot] exports DOT and
// lays it out with Graphviz.
//
// [pipeline] - Generate → render → save, shared by the CLI and the HTTP
// server. Both stages are cached.
//
// [cache] - Content-addressed scene and artifact cache with file, Redis and
// null backends.
//
// [store] - Saved scenes in files or MongoDB.
//
// [config] - Settings file, XDG paths and TOML presets.
//
// [observability] - Hooks for pipeline, cache and HTTP events, with a
// Prometheus implementation in [observability/prom].
//
// [errors] - Structured error codes shared by every package.
package pkg
