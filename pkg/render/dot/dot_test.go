package dot

import (
	"context"
	"strings"
	"testing"

	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/scene"
)

func generate(t *testing.T, p scene.Params) *scene.Scene {
	t.Helper()
	sc, err := scene.Generate(p)
	if err != nil {
		t.Fatalf("Generate(%+v): %v", p, err)
	}
	return sc
}

func TestToDOT(t *testing.T) {
	tests := []struct {
		name     string
		params   scene.Params
		opts     Options
		contains []string
		absent   []string
	}{
		{
			name:   "Triangle",
			params: scene.Params{Kind: scene.KindTriangle, Rows: 4},
			contains: []string{
				`"r3c1" [label="3"]`,
				`"r2c1" -> "r3c1";`,
				`"r2c2" -> "r3c2";`,
				"rank=same",
			},
			absent: []string{"fillcolor=\"#FFD700\""},
		},
		{
			name:     "TriangleParity",
			params:   scene.Params{Kind: scene.KindTriangle, Rows: 3},
			opts:     Options{Parity: true},
			contains: []string{`"r2c1" [label="2"];`, `"r2c0" [label="1", fillcolor="#FFD700"];`},
		},
		{
			name:   "Patterns",
			params: scene.Params{Kind: scene.KindPatterns, Length: 2},
			contains: []string{
				`"p_" -> "p_0" [label="short"];`,
				`"p_1" -> "p_11" [label="long"];`,
				`"p_01" [label="|S", fillcolor="#C5B358"];`,
			},
		},
		{
			name:     "Tree",
			params:   scene.Params{Kind: scene.KindTree, Depth: 2},
			contains: []string{"rankdir=LR", `"t0" -> "t1" [class="up"];`, `"t0" -> "t2" [class="down"];`, `xlabel="2"`},
		},
		{
			name:     "Cone",
			params:   scene.Params{Kind: scene.KindCone, Steps: 2},
			contains: []string{`"c1_1" -> "c2_2";`, `"c2_1" [label="2", fillcolor="#FFD700"];`},
		},
		{
			name:     "Walk",
			params:   scene.Params{Kind: scene.KindWalk, Start: 60, Steps: 2, Lo: 1, Hi: 1},
			contains: []string{`"w0" [label="60.00"];`, `"w1" -> "w2"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := ToDOT(generate(t, tt.params), tt.opts)
			if err != nil {
				t.Fatalf("ToDOT: %v", err)
			}
			if !strings.HasPrefix(src, "digraph meru {") || !strings.HasSuffix(src, "}\n") {
				t.Errorf("malformed graph:\n%s", src)
			}
			for _, want := range tt.contains {
				if !strings.Contains(src, want) {
					t.Errorf("missing %q in:\n%s", want, src)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(src, bad) {
					t.Errorf("unexpected %q in:\n%s", bad, src)
				}
			}
		})
	}
}

func TestToDOTLimits(t *testing.T) {
	sc := generate(t, scene.Params{Kind: scene.KindTree, Depth: 6})
	if _, err := ToDOT(sc, Options{MaxNodes: 100}); !merr.Is(err, merr.ErrCodeInvalidArgument) {
		t.Errorf("error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := ToDOT(nil, Options{}); !merr.Is(err, merr.ErrCodeInvalidArgument) {
		t.Errorf("nil scene error = %v", err)
	}
	if _, err := ToDOT(&scene.Scene{Kind: "spiral"}, Options{}); !merr.Is(err, merr.ErrCodeInvalidKind) {
		t.Errorf("unknown kind error = %v", err)
	}
}

func TestRenderSVG(t *testing.T) {
	src, err := ToDOT(generate(t, scene.Params{Kind: scene.KindTriangle, Rows: 3}), Options{})
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(context.Background(), src)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("root element not normalized: %.200s", s)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox = %s, want %s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}
