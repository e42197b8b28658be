// Package svg draws scenes at their own coordinates.
//
// Tree, cone and walk scenes carry plane coordinates; they are drawn as-is,
// scaled to fit and flipped so that larger y is higher on the page. Triangle
// and pattern scenes carry no geometry and are laid out on a fixed grid:
// the triangle as centered rows of cells, the patterns as a table of
// short and long syllable bars next to their notation.
//
//	out, err := svg.Render(sc, svg.WithParity(), svg.WithScale(80))
//
// Colors follow one fixed dark palette.
package svg
