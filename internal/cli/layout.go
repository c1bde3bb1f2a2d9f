package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute a layout for a BPMN document or graph",
		Long: `Compute a layout for a BPMN document or node-link graph.

For a BPMN file the output is the same document with a BPMNDiagram section
holding one shape per flow element and one edge per sequence flow
(default: <input>.layout.bpmn). A document that already has a diagram is
left alone unless --force is given.

For a graph.json the output is a layout.json with node boxes, edge waypoints
and the tier that produced them (default: <input>.layout.json).

Use -o - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.PipelineOptions())
			return c.runLayout(cmd, args[0], output, opts, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(cmd *cobra.Command, input, output string, opts pipeline.Options, noCache bool) error {
	ctx := cmd.Context()
	src, err := pipeline.LoadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	format := pipeline.FormatJSON
	if src.IsBPMN() {
		format = pipeline.FormatBPMN
	}
	opts.Formats = []string{format}

	res, err := c.execute(ctx, runner, src, opts, "Computing layout...")
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + "." + outputExt(format)
	}
	if err := writeOutput(cmd.OutOrStdout(), outputPath, res.Artifacts[format]); err != nil {
		return err
	}
	if outputPath == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Layout.Tier, res.CacheInfo.LayoutHit)
	if len(res.Layout.BackEdges) > 0 {
		printDetail("%d back edges: %s", len(res.Layout.BackEdges), backEdgeList(res.Layout))
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

// execute runs the pipeline behind a spinner.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, src *pipeline.Source, opts pipeline.Options, message string) (*pipeline.Result, error) {
	spinner := newSpinnerWithContext(ctx, message)
	spinner.Start()

	res, err := runner.Execute(ctx, src, opts)
	if err != nil {
		spinner.StopWithError("Failed")
		return nil, err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return res, nil
}

func backEdgeList(l graph.Layout) string {
	var s string
	for i, e := range l.BackEdges {
		if i > 0 {
			s += ", "
		}
		if i == 5 {
			s += fmt.Sprintf("and %d more", len(l.BackEdges)-i)
			break
		}
		s += e.From + "→" + e.To
	}
	return s
}
