package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meru/pkg/binomial"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/scene"
)

// =============================================================================
// rows
// =============================================================================

func (c *CLI) rowsCommand() *cobra.Command {
	var out outputOpts

	cmd := &cobra.Command{
		Use:   "rows <count>",
		Short: "Build the first rows of the Meru Prastara (Pascal's triangle)",
		Example: `  meru rows 8 --parity
  meru rows 12 -o meru.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseCount("count", args[0])
			if err != nil {
				return err
			}
			return c.runScene(cmd.Context(), scene.Params{Kind: scene.KindTriangle, Rows: n}, &out)
		},
	}
	out.register(cmd)
	return cmd
}

// =============================================================================
// patterns
// =============================================================================

func (c *CLI) patternsCommand() *cobra.Command {
	var out outputOpts

	cmd := &cobra.Command{
		Use:   "patterns <length>",
		Short: "Enumerate Pingala's short/long patterns of a given length",
		Long: `Enumerate every sequence of short (|) and long (S) syllables of the given
length, short-first. The totals by number of long syllables form row
<length> of the Meru Prastara.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseCount("length", args[0])
			if err != nil {
				return err
			}
			return c.runScene(cmd.Context(), scene.Params{Kind: scene.KindPatterns, Length: n}, &out)
		},
	}
	out.register(cmd)
	return cmd
}

// =============================================================================
// tree
// =============================================================================

func (c *CLI) treeCommand() *cobra.Command {
	var (
		out              outputOpts
		origin, up, down string
		precision        int
		policy           string
	)

	cmd := &cobra.Command{
		Use:   "tree [depth]",
		Short: "Lay out a recombining binomial tree and label its terminals",
		Long: `Lay out a binary tree of the given depth where every node branches along
the up and down vectors. Terminals are grouped by height (rounded to
--precision decimals) and the groups, highest first, are labeled with the
matching row of the Meru Prastara.`,
		Example: `  meru tree 5
  meru tree 4 --up 1,0.5 --down 1,-0.5 --policy merge -f svg,json -o tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := scene.Params{Kind: scene.KindTree, Depth: 4, Policy: policy}
			if len(args) == 1 {
				d, err := parseCount("depth", args[0])
				if err != nil {
					return err
				}
				p.Depth = d
			}
			var err error
			if p.Origin, err = parsePoint("origin", origin); err != nil {
				return err
			}
			p.Up, p.Down = scene.DefaultUp, scene.DefaultDown
			if up != "" {
				if p.Up, err = parseVector("up", up); err != nil {
					return err
				}
			}
			if down != "" {
				if p.Down, err = parseVector("down", down); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("precision") {
				p.Precision = &precision
			}
			return c.runScene(cmd.Context(), p, &out)
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&origin, "origin", "0,0", "root position x,y")
	cmd.Flags().StringVar(&up, "up", "", "up branch dx,dy (default 1.4,0.6)")
	cmd.Flags().StringVar(&down, "down", "", "down branch dx,dy (default 1.4,-0.6)")
	cmd.Flags().IntVar(&precision, "precision", binomial.DefaultPrecision, "decimal places used to group terminal heights")
	cmd.Flags().StringVar(&policy, "policy", "", "collision policy: last-write-wins (default), merge")
	return cmd
}

// =============================================================================
// cone
// =============================================================================

func (c *CLI) coneCommand() *cobra.Command {
	var (
		out    outputOpts
		origin string
		cone   = binomial.DefaultConeOptions()
	)

	cmd := &cobra.Command{
		Use:   "cone [steps]",
		Short: "Build the cone of uncertainty grid",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := scene.Params{Kind: scene.KindCone, Steps: 5, Cone: cone}
			if len(args) == 1 {
				n, err := parseCount("steps", args[0])
				if err != nil {
					return err
				}
				p.Steps = n
			}
			var err error
			if p.Origin, err = parsePoint("origin", origin); err != nil {
				return err
			}
			return c.runScene(cmd.Context(), p, &out)
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&origin, "origin", "0,0", "apex position x,y")
	cmd.Flags().Float64Var(&cone.StepX, "step-x", cone.StepX, "horizontal distance between steps")
	cmd.Flags().Float64Var(&cone.TrendY, "trend", cone.TrendY, "vertical drift per step")
	cmd.Flags().Float64Var(&cone.SpreadY, "spread", cone.SpreadY, "vertical gap between outcomes")
	cmd.Flags().Float64Var(&cone.Widen, "widen", cone.Widen, "extra opening per step")
	return cmd
}

// =============================================================================
// walk
// =============================================================================

func (c *CLI) walkCommand() *cobra.Command {
	var (
		out    outputOpts
		origin string
		p      = scene.Params{
			Kind: scene.KindWalk, Steps: 6, Start: 60, Lo: -5, Hi: 7,
			DX: 1, FanLo: scene.DefaultFanLo, FanHi: scene.DefaultFanHi, Seed: 42,
		}
	)

	cmd := &cobra.Command{
		Use:   "walk [steps]",
		Short: "Draw a seeded random price walk and optional path fan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				n, err := parseCount("steps", args[0])
				if err != nil {
					return err
				}
				p.Steps = n
			}
			var err error
			if p.Origin, err = parsePoint("origin", origin); err != nil {
				return err
			}
			return c.runScene(cmd.Context(), p, &out)
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&origin, "origin", "0,0", "fan start position x,y")
	cmd.Flags().Float64Var(&p.Start, "start", p.Start, "starting price")
	cmd.Flags().Float64Var(&p.Lo, "lo", p.Lo, "smallest change per step")
	cmd.Flags().Float64Var(&p.Hi, "hi", p.Hi, "largest change per step")
	cmd.Flags().IntVar(&p.Paths, "paths", 0, "number of fan paths to draw")
	cmd.Flags().Float64Var(&p.DX, "dx", p.DX, "horizontal step of fan paths")
	cmd.Flags().Float64Var(&p.FanLo, "fan-lo", p.FanLo, "smallest vertical move per fan path step")
	cmd.Flags().Float64Var(&p.FanHi, "fan-hi", p.FanHi, "largest vertical move per fan path step")
	cmd.Flags().Uint64Var(&p.Seed, "seed", p.Seed, "random seed")
	return cmd
}

// =============================================================================
// Shared
// =============================================================================

// runScene prints the scene to the terminal, or runs the full pipeline
// when artifacts or a saved record were requested.
func (c *CLI) runScene(ctx context.Context, p scene.Params, out *outputOpts) error {
	if out.wantsPipeline() {
		return c.runPipeline(ctx, p, out)
	}

	prog := newProgress(loggerFromContext(ctx))
	sc, err := scene.Generate(p)
	if err != nil {
		return err
	}
	prog.done("generated scene", "kind", sc.Kind, "elements", sc.Size())
	printScene(sc, out.parity)
	return nil
}

func printScene(sc *scene.Scene, parity bool) {
	fmt.Fprintln(stdout, StyleTitle.Render(sc.Title))
	printNewline()
	switch sc.Kind {
	case scene.KindTriangle:
		fmt.Fprint(stdout, formatTriangle(sc.Rows, parity))
	case scene.KindPatterns:
		fmt.Fprint(stdout, formatPatterns(sc.Patterns, sc.LongCounts))
	case scene.KindTree:
		precision := binomial.DefaultPrecision
		if sc.Params.Precision != nil {
			precision = *sc.Params.Precision
		}
		fmt.Fprint(stdout, formatLabels(sc.Labels, precision))
		printStats(len(sc.Nodes), "nodes", false)
		printDetail("%d edges · %d heights · policy %s", len(sc.Edges), len(sc.Buckets), policyName(sc.Params.Policy))
	case scene.KindCone:
		fmt.Fprint(stdout, formatLabels(sc.Labels, 2))
		printStats(sc.Size(), "points", false)
	case scene.KindWalk:
		prices := make([]string, len(sc.Prices))
		for i, v := range sc.Prices {
			prices[i] = StyleNumber.Render(strconv.FormatFloat(v, 'f', 2, 64))
		}
		fmt.Fprintln(stdout, "  "+strings.Join(prices, StyleDim.Render(" → ")))
		if len(sc.Tracks) > 0 {
			printDetail("%d fan paths", len(sc.Tracks))
		}
	}
}

func policyName(s string) string {
	p, err := binomial.ParsePolicy(s)
	if err != nil {
		return s
	}
	return p.String()
}

func parseCount(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, merr.New(merr.ErrCodeInvalidArgument, "%s must be an integer, got %q", name, s)
	}
	return n, nil
}

func parsePair(name, s string) (float64, float64, error) {
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, merr.New(merr.ErrCodeInvalidArgument, "%s must be two numbers separated by a comma, got %q", name, s)
	}
	x, err1 := strconv.ParseFloat(strings.TrimSpace(a), 64)
	y, err2 := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, merr.New(merr.ErrCodeInvalidArgument, "%s must be two numbers separated by a comma, got %q", name, s)
	}
	return x, y, nil
}

func parsePoint(name, s string) (binomial.Point, error) {
	x, y, err := parsePair(name, s)
	return binomial.Point{X: x, Y: y}, err
}

func parseVector(name, s string) (binomial.Vector, error) {
	dx, dy, err := parsePair(name, s)
	return binomial.Vector{DX: dx, DY: dy}, err
}
