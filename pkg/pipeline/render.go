package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/meru/pkg/render"
	"github.com/matzehuels/meru/pkg/render/dot"
	"github.com/matzehuels/meru/pkg/render/svg"
	"github.com/matzehuels/meru/pkg/scene"
)

// Render produces every format in opts.Formats for sc. Formats are
// rendered concurrently; PNG and PDF share one SVG rendering.
func Render(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	var base []byte
	if needsSVG(opts.Formats) {
		var err error
		if base, err = renderSVG(ctx, sc, opts); err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
	}

	out := make([][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, sc, render.Format(name), base, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", name, err)
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(out))
	for i, name := range opts.Formats {
		artifacts[name] = out[i]
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, sc *scene.Scene, f render.Format, base []byte, opts Options) ([]byte, error) {
	switch f {
	case render.FormatSVG:
		return base, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, base, opts.PNGScale)
	case render.FormatPDF:
		return render.ToPDF(ctx, base)
	case render.FormatDOT:
		src, err := dot.ToDOT(sc, dot.Options{Parity: opts.Parity})
		if err != nil {
			return nil, err
		}
		return []byte(src), nil
	case render.FormatJSON:
		return scene.Marshal(sc, scene.FormatJSON)
	case render.FormatYAML:
		return scene.Marshal(sc, scene.FormatYAML)
	}
	return nil, fmt.Errorf("unsupported format: %s", f)
}

func renderSVG(ctx context.Context, sc *scene.Scene, opts Options) ([]byte, error) {
	if opts.Engine == EngineGraphviz {
		src, err := dot.ToDOT(sc, dot.Options{Parity: opts.Parity})
		if err != nil {
			return nil, err
		}
		return dot.RenderSVG(ctx, src)
	}
	svgOpts := []svg.Option{svg.WithScale(opts.Scale)}
	if opts.Parity {
		svgOpts = append(svgOpts, svg.WithParity())
	}
	if opts.NoLabels {
		svgOpts = append(svgOpts, svg.WithoutLabels())
	}
	return svg.Render(sc, svgOpts...)
}

func needsSVG(formats []string) bool {
	for _, f := range formats {
		switch render.Format(f) {
		case render.FormatSVG, render.FormatPNG, render.FormatPDF:
			return true
		}
	}
	return false
}
