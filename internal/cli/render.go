package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meru/pkg/scene"
)

func (c *CLI) renderCommand() *cobra.Command {
	var out outputOpts

	cmd := &cobra.Command{
		Use:   "render <scene.json|scene.yaml>",
		Short: "Render a saved scene file to artifacts",
		Long: `Render a scene written by "meru <generator> -f json" (or yaml) without
regenerating it. Artifacts are written next to the input unless -o is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &out)
		},
	}
	out.register(cmd)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, out *outputOpts) error {
	logger := loggerFromContext(ctx)

	sc, err := scene.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded scene", "path", input, "kind", sc.Kind, "elements", sc.Size())

	if out.output == "" {
		out.output = strings.TrimSuffix(input, filepath.Ext(input))
	}
	if out.formats == "" && filepath.Ext(out.output) == "" {
		out.formats = "svg"
	}
	formats, err := out.resolveFormats()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, out.noCache, out.save)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	opts := out.pipelineOptions(sc.Params, formats)
	artifacts, _, cached, err := runner.RenderWithCacheInfo(ctx, sc, opts)
	if err != nil {
		return err
	}
	prog.done("rendered scene", "formats", formats)

	printSuccess("Rendered %s", sc.Title)
	printStats(sc.Size(), "elements", cached)
	paths, err := writeArtifacts(out.output, formats, artifacts)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}

	if out.save {
		id, err := runner.Save(ctx, sc, out.name)
		if err != nil {
			return err
		}
		printDetail("saved as %s", id)
	}
	return nil
}
