package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/scene"
)

// DefaultMaxNodes caps graph size when Options.MaxNodes is zero.
const DefaultMaxNodes = 4096

const (
	gold    = "#FFD700"
	ancient = "#C5B358"
	cyan    = "#00FFFF"
)

// Options configures DOT generation.
type Options struct {
	// Parity fills odd triangle entries, revealing the Sierpinski pattern.
	Parity bool
	// MaxNodes refuses larger graphs. Zero means DefaultMaxNodes.
	MaxNodes int
}

// ToDOT converts a scene to Graphviz DOT source.
func ToDOT(sc *scene.Scene, opts Options) (string, error) {
	if sc == nil {
		return "", merr.New(merr.ErrCodeInvalidArgument, "scene is nil")
	}
	limit := opts.MaxNodes
	if limit <= 0 {
		limit = DefaultMaxNodes
	}
	if n := nodeCount(sc); n > limit {
		return "", merr.New(merr.ErrCodeInvalidArgument,
			"%s scene has %d nodes, more than the %d a DOT graph may hold", sc.Kind, n, limit)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph meru {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	switch sc.Kind {
	case scene.KindTriangle:
		writeTriangle(&buf, sc, opts)
	case scene.KindPatterns:
		writePatterns(&buf, sc)
	case scene.KindTree:
		writeTree(&buf, sc)
	case scene.KindCone:
		writeCone(&buf, sc)
	case scene.KindWalk:
		writeWalk(&buf, sc)
	default:
		return "", merr.New(merr.ErrCodeInvalidKind, "unknown scene kind %q", sc.Kind)
	}
	buf.WriteString("}\n")
	return buf.String(), nil
}

func nodeCount(sc *scene.Scene) int {
	switch sc.Kind {
	case scene.KindTriangle:
		n := len(sc.Rows)
		return n * (n + 1) / 2
	case scene.KindPatterns:
		if len(sc.Patterns) == 0 {
			return 0
		}
		return 2*len(sc.Patterns) - 1
	case scene.KindTree:
		return len(sc.Nodes)
	case scene.KindCone:
		n := 0
		for _, row := range sc.Cone {
			n += len(row)
		}
		return n
	case scene.KindWalk:
		n := len(sc.Prices)
		for _, t := range sc.Tracks {
			n += len(t)
		}
		return n
	}
	return 0
}

func writeTriangle(buf *bytes.Buffer, sc *scene.Scene, opts Options) {
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ranksep=0.35;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n\n")

	for i, row := range sc.Rows {
		ids := make([]string, len(row))
		for j, v := range row {
			ids[j] = cellID(i, j)
			attrs := []string{fmt.Sprintf("label=%q", fmt.Sprint(v))}
			if opts.Parity && v%2 == 1 {
				attrs = append(attrs, fmt.Sprintf("fillcolor=%q", gold))
			}
			fmt.Fprintf(buf, "  %q [%s];\n", ids[j], strings.Join(attrs, ", "))
		}
		fmt.Fprintf(buf, "  { rank=same; %s; }\n", quoteAll(ids))
	}

	buf.WriteString("\n")
	for i := 1; i < len(sc.Rows); i++ {
		for j := range sc.Rows[i] {
			if j > 0 {
				fmt.Fprintf(buf, "  %q -> %q;\n", cellID(i-1, j-1), cellID(i, j))
			}
			if j < i {
				fmt.Fprintf(buf, "  %q -> %q;\n", cellID(i-1, j), cellID(i, j))
			}
		}
	}
}

func writePatterns(buf *bytes.Buffer, sc *scene.Scene) {
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Courier\", fontsize=14];\n\n")

	fmt.Fprintf(buf, "  %q [label=\"\", shape=point];\n", prefixID(""))
	seen := map[string]bool{"": true}
	for _, p := range sc.Patterns {
		for end := 1; end <= len(p); end++ {
			prefix := p[:end]
			if seen[prefix] {
				continue
			}
			seen[prefix] = true
			label := prefix
			attrs := []string{fmt.Sprintf("label=%q", label)}
			if end == len(p) {
				attrs = append(attrs, fmt.Sprintf("fillcolor=%q", ancient))
			}
			fmt.Fprintf(buf, "  %q [%s];\n", prefixID(prefix), strings.Join(attrs, ", "))
			edge := "short"
			if p[end-1] == 'S' {
				edge = "long"
			}
			fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", prefixID(p[:end-1]), prefixID(prefix), edge)
		}
	}
}

func writeTree(buf *bytes.Buffer, sc *scene.Scene) {
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3];\n\n")

	precision := binomial.DefaultPrecision
	if sc.Params.Precision != nil {
		precision = *sc.Params.Precision
	}
	values := make(map[binomial.Key]uint64, len(sc.Labels))
	for _, l := range sc.Labels {
		values[l.Key] = l.Value
	}

	depth := 0
	for _, n := range sc.Nodes {
		depth = max(depth, n.Depth)
	}
	for _, n := range sc.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", fmt.Sprintf("%.2f", n.Point.Y))}
		if n.Depth == depth {
			if v, ok := values[binomial.KeyOf(n.Point.Y, precision)]; ok {
				attrs = append(attrs, fmt.Sprintf("xlabel=%q", fmt.Sprint(v)), fmt.Sprintf("fillcolor=%q", gold))
			}
		}
		fmt.Fprintf(buf, "  %q [%s];\n", nodeID("t", n.ID), strings.Join(attrs, ", "))
	}
	buf.WriteString("\n")
	for i, e := range sc.Edges {
		dir := "up"
		if i%2 == 1 {
			dir = "down"
		}
		fmt.Fprintf(buf, "  %q -> %q [class=%q];\n", nodeID("t", e.From), nodeID("t", e.To), dir)
	}
}

func writeCone(buf *bytes.Buffer, sc *scene.Scene) {
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3];\n\n")

	last := len(sc.Cone) - 1
	for s, row := range sc.Cone {
		ids := make([]string, len(row))
		for k := range row {
			ids[k] = fmt.Sprintf("c%d_%d", s, k)
			attrs := []string{"label=\"\""}
			if s == last && k < len(sc.Labels) {
				attrs = []string{fmt.Sprintf("label=%q", fmt.Sprint(sc.Labels[k].Value)), fmt.Sprintf("fillcolor=%q", gold)}
			}
			fmt.Fprintf(buf, "  %q [%s];\n", ids[k], strings.Join(attrs, ", "))
		}
		fmt.Fprintf(buf, "  { rank=same; %s; }\n", quoteAll(ids))
	}
	buf.WriteString("\n")
	for s := 0; s < last; s++ {
		for k := range sc.Cone[s] {
			fmt.Fprintf(buf, "  \"c%d_%d\" -> \"c%d_%d\";\n", s, k, s+1, k)
			fmt.Fprintf(buf, "  \"c%d_%d\" -> \"c%d_%d\";\n", s, k, s+1, k+1)
		}
	}
}

func writeWalk(buf *bytes.Buffer, sc *scene.Scene) {
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10];\n\n")

	for i, p := range sc.Prices {
		fmt.Fprintf(buf, "  %q [label=%q];\n", nodeID("w", i), fmt.Sprintf("%.2f", p))
		if i > 0 {
			fmt.Fprintf(buf, "  %q -> %q [color=%q];\n", nodeID("w", i-1), nodeID("w", i), cyan)
		}
	}
	for t, track := range sc.Tracks {
		for i, p := range track {
			id := fmt.Sprintf("f%d_%d", t, i)
			fmt.Fprintf(buf, "  %q [label=%q, shape=point];\n", id, fmt.Sprintf("%.2f", p.Y))
			if i > 0 {
				fmt.Fprintf(buf, "  \"f%d_%d\" -> %q;\n", t, i-1, id)
			}
		}
	}
}

func cellID(row, col int) string { return fmt.Sprintf("r%dc%d", row, col) }

func nodeID(prefix string, id int) string { return fmt.Sprintf("%s%d", prefix, id) }

func prefixID(prefix string) string {
	return "p_" + strings.NewReplacer("|", "0", "S", "1").Replace(prefix)
}

func quoteAll(ids []string) string {
	q := make([]string, len(ids))
	for i, id := range ids {
		q[i] = fmt.Sprintf("%q", id)
	}
	return strings.Join(q, "; ")
}
