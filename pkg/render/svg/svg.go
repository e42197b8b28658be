package svg

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/scene"
)

const (
	background = "#000814"
	gold       = "#FFD700"
	ancient    = "#C5B358"
	cyan       = "#00FFFF"
	neon       = "#00FFAA"
	text       = "#E0E0E0"
)

// DefaultScale is the number of pixels per scene unit.
const DefaultScale = 60.0

const margin = 40.0

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	scale  float64
	parity bool
	labels bool
}

// WithScale sets pixels per scene unit.
func WithScale(px float64) Option {
	return func(r *renderer) {
		if px > 0 {
			r.scale = px
		}
	}
}

// WithParity highlights odd triangle entries.
func WithParity() Option { return func(r *renderer) { r.parity = true } }

// WithoutLabels omits triangle values next to terminals.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// Render draws a scene as a standalone SVG document.
func Render(sc *scene.Scene, opts ...Option) ([]byte, error) {
	if sc == nil {
		return nil, merr.New(merr.ErrCodeInvalidArgument, "scene is nil")
	}
	r := renderer{scale: DefaultScale, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var body bytes.Buffer
	var w, h float64
	switch sc.Kind {
	case scene.KindTriangle:
		w, h = r.triangle(&body, sc.Rows)
	case scene.KindPatterns:
		w, h = r.patterns(&body, sc.Patterns)
	case scene.KindTree:
		w, h = r.tree(&body, sc)
	case scene.KindCone:
		w, h = r.cone(&body, sc)
	case scene.KindWalk:
		w, h = r.walk(&body, sc)
	default:
		return nil, merr.New(merr.ErrCodeInvalidKind, "unknown scene kind %q", sc.Kind)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, "  <rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", background)
	if sc.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(sc.Title))
	}
	buf.Write(body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// =============================================================================
// Grid Scenes
// =============================================================================

func (r *renderer) triangle(buf *bytes.Buffer, rows [][]uint64) (float64, float64) {
	const gapX, gapY, radius = 56.0, 48.0, 20.0
	n := len(rows)
	w := 2*margin + float64(n)*gapX
	h := 2*margin + float64(n)*gapY
	cx := w / 2

	for i, row := range rows {
		y := margin + gapY/2 + float64(i)*gapY
		for j, v := range row {
			x := cx + (float64(j)-float64(i)/2)*gapX
			fill, stroke := "none", ancient
			if r.parity && v%2 == 1 {
				fill, stroke = gold, gold
			}
			fmt.Fprintf(buf, "  <circle class=\"cell\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\" stroke=\"%s\"/>\n",
				x, y, radius, fill, stroke)
			fmt.Fprintf(buf, "  <text x=\"%.1f\" y=\"%.1f\" fill=\"%s\" font-size=\"%s\" text-anchor=\"middle\" dominant-baseline=\"central\">%d</text>\n",
				x, y, textColor(fill), fontSize(v), v)
		}
	}
	return w, h
}

func (r *renderer) patterns(buf *bytes.Buffer, patterns []string) (float64, float64) {
	const rowH, shortW, longW, gap, barH = 22.0, 10.0, 30.0, 6.0, 10.0
	width := 0
	for _, p := range patterns {
		width = max(width, len(p))
	}
	w := 2*margin + float64(width)*(longW+gap) + 16*float64(width) + 40
	h := 2*margin + float64(len(patterns))*rowH

	for i, p := range patterns {
		y := margin + float64(i)*rowH
		x := margin
		for _, c := range p {
			bw, fill := shortW, cyan
			if c == 'S' {
				bw, fill = longW, gold
			}
			fmt.Fprintf(buf, "  <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" rx=\"2\" fill=\"%s\"/>\n",
				x, y+(rowH-barH)/2, bw, barH, fill)
			x += bw + gap
		}
		fmt.Fprintf(buf, "  <text x=\"%.1f\" y=\"%.1f\" fill=\"%s\" font-family=\"monospace\" font-size=\"14\" dominant-baseline=\"central\">%s</text>\n",
			margin+float64(width)*(longW+gap)+16, y+rowH/2, text, escape(p))
	}
	return w, h
}

// =============================================================================
// Coordinate Scenes
// =============================================================================

// frame maps scene coordinates to page coordinates.
type frame struct {
	minX, maxY float64
	scale      float64
	w, h       float64
}

func newFrame(scale float64, pts ...[]binomial.Point) frame {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, group := range pts {
		for _, p := range group {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		minX, maxX, minY, maxY = 0, 0, 0, 0
	}
	return frame{
		minX:  minX,
		maxY:  maxY,
		scale: scale,
		w:     (maxX-minX)*scale + 2*margin + 40,
		h:     (maxY-minY)*scale + 2*margin,
	}
}

func (f frame) at(p binomial.Point) (float64, float64) {
	return margin + (p.X-f.minX)*f.scale, margin + (f.maxY-p.Y)*f.scale
}

func (r *renderer) tree(buf *bytes.Buffer, sc *scene.Scene) (float64, float64) {
	pts := make([]binomial.Point, len(sc.Nodes))
	for i, n := range sc.Nodes {
		pts[i] = n.Point
	}
	f := newFrame(r.scale, pts)

	for _, e := range sc.Edges {
		line(buf, f, sc.Nodes[e.From].Point, sc.Nodes[e.To].Point, gold, 0.7)
	}
	for _, n := range sc.Nodes {
		radius := 3.0
		if n.Parent < 0 {
			radius = 5
		}
		dot(buf, f, n.Point, radius, gold)
	}
	if r.labels {
		for _, l := range sc.Labels {
			label(buf, f, l)
		}
	}
	return f.w, f.h
}

func (r *renderer) cone(buf *bytes.Buffer, sc *scene.Scene) (float64, float64) {
	f := newFrame(r.scale, sc.Cone...)
	if len(sc.Cone) == 0 {
		return f.w, f.h
	}
	origin := sc.Cone[0][0]
	for _, row := range sc.Cone[1:] {
		for _, p := range row {
			line(buf, f, origin, p, gold, 0.2)
		}
	}
	for _, row := range sc.Cone {
		for _, p := range row {
			dot(buf, f, p, 3.5, gold)
		}
	}
	if r.labels {
		for _, l := range sc.Labels {
			label(buf, f, l)
		}
	}
	return f.w, f.h
}

func (r *renderer) walk(buf *bytes.Buffer, sc *scene.Scene) (float64, float64) {
	price := make([]binomial.Point, len(sc.Prices))
	for i, v := range sc.Prices {
		price[i] = binomial.Point{X: float64(i), Y: v}
	}
	groups := append([][]binomial.Point{price}, sc.Tracks...)
	f := newFrame(r.scale, groups...)

	for _, t := range sc.Tracks {
		polyline(buf, f, t, "#FFFFFF", 0.3, 1)
	}
	polyline(buf, f, price, neon, 1, 3)
	return f.w, f.h
}

// =============================================================================
// Primitives
// =============================================================================

func line(buf *bytes.Buffer, f frame, a, b binomial.Point, color string, opacity float64) {
	x1, y1 := f.at(a)
	x2, y2 := f.at(b)
	fmt.Fprintf(buf, "  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"2\" stroke-opacity=\"%.2f\"/>\n",
		x1, y1, x2, y2, color, opacity)
}

func dot(buf *bytes.Buffer, f frame, p binomial.Point, radius float64, color string) {
	x, y := f.at(p)
	fmt.Fprintf(buf, "  <circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", x, y, radius, color)
}

func label(buf *bytes.Buffer, f frame, l binomial.LabeledPoint) {
	x, y := f.at(l.Point)
	fmt.Fprintf(buf, "  <text class=\"label\" x=\"%.1f\" y=\"%.1f\" fill=\"%s\" font-family=\"Georgia, serif\" font-size=\"16\" dominant-baseline=\"central\">%d</text>\n",
		x+12, y, gold, l.Value)
}

func polyline(buf *bytes.Buffer, f frame, pts []binomial.Point, color string, opacity, width float64) {
	if len(pts) == 0 {
		return
	}
	var coords bytes.Buffer
	for i, p := range pts {
		if i > 0 {
			coords.WriteByte(' ')
		}
		x, y := f.at(p)
		fmt.Fprintf(&coords, "%.1f,%.1f", x, y)
	}
	fmt.Fprintf(buf, "  <polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.0f\" stroke-opacity=\"%.2f\"/>\n",
		coords.String(), color, width, opacity)
}

func textColor(fill string) string {
	if fill == "none" {
		return text
	}
	return background
}

func fontSize(v uint64) string {
	switch {
	case v >= 100_000:
		return "8"
	case v >= 1000:
		return "10"
	default:
		return "14"
	}
}

func escape(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
