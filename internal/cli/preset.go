package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meru/pkg/config"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/pipeline"
)

type presetOpts struct {
	dir     string
	only    []string
	list    bool
	noCache bool
	save    bool
}

func (c *CLI) presetCommand() *cobra.Command {
	var opts presetOpts

	cmd := &cobra.Command{
		Use:   "preset [file.toml]",
		Short: "Render every scene of a TOML preset",
		Long: `Render every scene listed in a preset file. Without a file the built-in
preset is used, which reproduces the scenes of the Meru Prastara series.

A preset looks like:

  name = "demo"

  [[scene]]
  name = "meru"
  kind = "triangle"
  rows = 8
  parity = true
  formats = ["svg", "json"]`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := config.Builtin()
			if len(args) == 1 {
				var err error
				if p, err = config.LoadPreset(args[0]); err != nil {
					return err
				}
			}
			if opts.list {
				printPreset(p)
				return nil
			}
			return c.runPreset(cmd.Context(), p, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "output directory")
	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "render only these scene names")
	cmd.Flags().BoolVar(&opts.list, "list", false, "list the preset's scenes and exit")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save every scene to the store")
	return cmd
}

func printPreset(p *config.Preset) {
	fmt.Fprintln(stdout, StyleTitle.Render(p.Name))
	if p.Description != "" {
		printDetail("%s", p.Description)
	}
	for _, s := range p.Scenes {
		printKeyValue(s.Name, fmt.Sprintf("%s %v", s.Kind, s.Formats))
	}
}

func (c *CLI) runPreset(ctx context.Context, p *config.Preset, opts presetOpts) error {
	for _, name := range opts.only {
		if _, ok := p.Find(name); !ok {
			return merr.New(merr.ErrCodeNotFound, "preset %q has no scene %q", p.Name, name)
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.save)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+p.Name)
	spinner.Start()
	defer spinner.Stop()

	var written []string
	for _, s := range p.Scenes {
		if len(opts.only) > 0 && !slices.Contains(opts.only, s.Name) {
			continue
		}
		spinner.Update("Rendering " + s.Name)

		res, err := runner.Execute(ctx, pipeline.Options{
			Params:   s.Params,
			Formats:  s.Formats,
			Engine:   s.Engine,
			Scale:    s.Scale,
			Parity:   s.Parity,
			NoLabels: !s.ShowLabels(),
			Save:     opts.save || s.Save,
			Name:     s.Name,
		})
		if err != nil {
			return fmt.Errorf("scene %s: %w", s.Name, err)
		}
		paths, err := writeArtifacts(s.OutputBase(opts.dir), res.Formats, res.Artifacts)
		if err != nil {
			return err
		}
		written = append(written, paths...)
		logger.Debug("rendered preset scene", "scene", s.Name, "cached", res.CacheInfo.RenderHit)
	}
	spinner.Stop()
	prog.done("rendered preset", "preset", p.Name, "files", len(written))

	printSuccess("Rendered preset %s", p.Name)
	for _, path := range written {
		printFile(path)
	}
	return nil
}
