// Package dot describes scenes as Graphviz graphs.
//
// # Overview
//
// [ToDOT] converts a scene to DOT source and [RenderSVG] lays it out with
// the embedded Graphviz from github.com/goccy/go-graphviz. Unlike package
// svg, positions come from Graphviz rather than from the scene, which makes
// the structure (who feeds whom) easier to read than the geometry.
//
//	triangle  one node per entry, edges from the two parents
//	patterns  the binary choice tree whose leaves are the patterns
//	tree      the binomial tree left to right, terminals labeled
//	cone      the recombining lattice of cone points
//	walk      the price chain and each forecast track
//
// Graphs larger than [Options.MaxNodes] are refused with INVALID_ARGUMENT.
//
//	src, _ := dot.ToDOT(sc, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
package dot
