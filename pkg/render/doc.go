// Package render turns scenes into static artifacts.
//
// # Overview
//
// Scenes produced by pkg/scene are drawn by two renderers and converted to
// raster and print formats here:
//
//   - [svg] draws a scene at its own coordinates (nodes, cones, paths)
//   - [dot] describes a scene as a Graphviz graph and lays it out
//   - [ToPDF] and [ToPNG] convert any SVG using rsvg-convert
//
// # Formats
//
// [Format] names every artifact the pipeline can emit. [ParseFormat]
// validates user input:
//
//	svg   coordinate drawing
//	dot   Graphviz source
//	png   rasterized SVG
//	pdf   vector PDF of the SVG
//	json  serialized scene
//	yaml  serialized scene
//
// # Format Conversion
//
//	out, err := svg.Render(sc)
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/meru/pkg/render/svg
// [dot]: github.com/matzehuels/meru/pkg/render/dot
package render
