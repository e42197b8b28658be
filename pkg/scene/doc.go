// Package scene provides the serialization format shared by the CLI, the
// render pipeline, the cache, the scene store and the HTTP API.
//
// # Architecture
//
// A [Scene] sits at the boundary between the pure generators and everything
// that stores or draws their output:
//
//   - pkg/triangle, pkg/pingala, pkg/binomial, pkg/walk: generators
//   - [Scene]: serialized result (this package)
//   - pkg/render/...: SVG and DOT drawings of a Scene
//
// # Kinds
//
// Scene is a discriminated union. Check Kind to see which fields are set:
//
//	triangle  Rows
//	patterns  Patterns, LongCounts
//	tree      Nodes, Edges, Buckets, Labels
//	cone      Cone, Labels
//	walk      Prices, Tracks
//
// Params always records the inputs, so a Scene can be regenerated with
// [Generate] and compared.
//
// # Formats
//
// Scenes serialize to indented JSON and to YAML:
//
//	sc, _ := scene.Generate(scene.Params{Kind: scene.KindTriangle, Rows: 8})
//	data, _ := scene.Marshal(sc, scene.FormatJSON)
//	scene.WriteFile(sc, "triangle.yaml")    // format from the extension
//	again, _ := scene.ReadFile("triangle.yaml")
//
// # Concurrency
//
// Generate is pure. A Scene must not be mutated while it is being rendered.
package scene
