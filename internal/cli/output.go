package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meru/pkg/pipeline"
	"github.com/matzehuels/meru/pkg/render"
	"github.com/matzehuels/meru/pkg/scene"
)

// outputOpts are the artifact flags shared by the generator commands.
type outputOpts struct {
	output   string
	formats  string
	engine   string
	scale    float64
	parity   bool
	noLabels bool
	noCache  bool
	refresh  bool
	save     bool
	name     string
}

func (o *outputOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "write artifacts to this file (one format) or base path (several)")
	f.StringVarP(&o.formats, "format", "f", "", "artifact format(s): svg, dot, png, pdf, json, yaml (comma-separated)")
	f.StringVar(&o.engine, "engine", pipeline.EngineNative, "svg engine: native, graphviz")
	f.Float64Var(&o.scale, "scale", pipeline.DefaultScale, "svg pixels per layout unit")
	f.BoolVar(&o.parity, "parity", false, "highlight odd entries")
	f.BoolVar(&o.noLabels, "no-labels", false, "omit value labels in drawings")
	f.BoolVar(&o.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&o.refresh, "refresh", false, "regenerate even if the scene is cached")
	f.BoolVar(&o.save, "save", false, "save the scene to the store")
	f.StringVar(&o.name, "name", "", "name for the saved scene")
}

func (o *outputOpts) wantsPipeline() bool {
	return o.output != "" || o.formats != "" || o.save
}

// resolveFormats picks the formats to render: --format if given, else the
// extension of --output, else svg. A bare --save renders json only.
func (o *outputOpts) resolveFormats() ([]string, error) {
	if o.formats != "" {
		fs, err := render.ParseFormats(o.formats)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(fs))
		for i, f := range fs {
			out[i] = string(f)
		}
		return out, nil
	}
	if o.output == "" {
		return []string{string(render.FormatJSON)}, nil
	}
	if ext := strings.TrimPrefix(filepath.Ext(o.output), "."); ext != "" {
		if f, err := render.ParseFormat(ext); err == nil {
			return []string{string(f)}, nil
		}
	}
	return []string{string(render.FormatSVG)}, nil
}

func (o *outputOpts) pipelineOptions(p scene.Params, formats []string) pipeline.Options {
	return pipeline.Options{
		Params:   p,
		Refresh:  o.refresh,
		Formats:  formats,
		Engine:   o.engine,
		Scale:    o.scale,
		Parity:   o.parity,
		NoLabels: o.noLabels,
		Save:     o.save,
		Name:     o.name,
	}
}

func (c *CLI) runPipeline(ctx context.Context, p scene.Params, out *outputOpts) error {
	formats, err := out.resolveFormats()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, out.noCache, out.save)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %s", p.Kind))
	spinner.Start()
	result, err := runner.Execute(ctx, out.pipelineOptions(p, formats))
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("%s", result.Scene.Title)
	printStats(result.Stats.Elements, "elements", result.CacheInfo.SceneHit)

	if out.output != "" {
		paths, err := writeArtifacts(out.output, formats, result.Artifacts)
		if err != nil {
			return err
		}
		for _, path := range paths {
			printFile(path)
		}
	}
	if result.RecordID != "" {
		printDetail("saved as %s", result.RecordID)
		printNextStep("Show it", "meru store show "+result.RecordID)
	}
	return nil
}

// writeArtifacts writes one file per format at output with its extension
// replaced by the format name. An output without a known format extension
// gets one appended.
func writeArtifacts(output string, formats []string, artifacts map[string][]byte) ([]string, error) {
	base := output
	if ext := filepath.Ext(output); ext != "" {
		if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
			base = strings.TrimSuffix(output, ext)
		}
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
