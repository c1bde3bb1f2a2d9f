package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

// renderOpts holds the render-only flags.
type renderOpts struct {
	output   string  // output file (single format) or base path (multiple)
	formats  string  // comma-separated output formats
	renderer string  // layout or graphviz
	scale    float64 // PNG scale factor
	noLabels bool    // omit node labels
	title    string  // diagram title
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro    renderOpts
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a BPMN document or graph",
		Long: `Render a BPMN document or node-link graph.

Formats: svg (default), png, pdf, json (the layout), bpmn (BPMN input only)
and dot. PNG and PDF are converted from the SVG with rsvg-convert.

The layout renderer draws the computed layout directly. The graphviz
renderer hands the graph to Graphviz instead, which ignores the layout tiers
but keeps back edges dashed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.PipelineOptions())
			opts.Formats = parseFormats(ro.formats)
			opts.Renderer = ro.renderer
			opts.Scale = ro.scale
			opts.NoLabels = ro.noLabels
			opts.Title = ro.title
			return c.runRender(cmd, args[0], &ro, opts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, bpmn, dot (comma-separated)")
	cmd.Flags().StringVar(&ro.renderer, "renderer", pipeline.DefaultRenderer, "renderer: layout (default), graphviz")
	cmd.Flags().Float64Var(&ro.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&ro.noLabels, "no-labels", false, "omit node labels")
	cmd.Flags().StringVar(&ro.title, "title", "", "diagram title")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, ro *renderOpts, opts pipeline.Options, noCache bool) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	src, err := pipeline.LoadFile(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded input", "file", input, "kind", src.Kind, "nodes", src.Graph.NodeCount())

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := c.execute(ctx, runner, src, opts, "Rendering...")
	if err != nil {
		return err
	}

	formats := slices.Compact(parseFormats(ro.formats))
	single := len(formats) == 1 && ro.output != ""
	if ro.output == "-" {
		if !single {
			return fmt.Errorf("stdout output needs exactly one format")
		}
		return writeOutput(cmd.OutOrStdout(), "-", res.Artifacts[formats[0]])
	}
	base := basePath(ro.output, input)

	printSuccess("Rendered %s", input)
	for _, format := range formats {
		path := base + "." + outputExt(format)
		if single {
			path = ro.output
		}
		if err := writeOutput(cmd.OutOrStdout(), path, res.Artifacts[format]); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Layout.Tier, res.CacheInfo.LayoutHit)
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(res.Artifacts)))
	return nil
}

// outputExt names rendered files. Layout JSON and BPMN get a ".layout"
// infix so they never overwrite the input.
func outputExt(format string) string {
	switch format {
	case pipeline.FormatJSON, pipeline.FormatBPMN:
		return "layout." + format
	}
	return format
}
