package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain bool
		flags layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse the computed layout of a BPMN document or graph",
		Long: `Browse the computed layout of a BPMN document or graph.

Shows every node with its category, layer and box, and the incoming and
outgoing edges of the selected node. --plain prints the table once instead
of starting the interactive view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config.PipelineOptions())
			return c.runInspect(cmd, args[0], opts, flags.noCache, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a static table")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, input string, opts pipeline.Options, noCache, plain bool) error {
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

	l, err := runner.Layout(ctx, src.Graph, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if plain {
		fmt.Fprintln(out, layoutSummary(l))
		fmt.Fprintln(out, renderPlainTable(l))
		return nil
	}

	p := tea.NewProgram(NewInspectModel(filepath.Base(input), l), tea.WithContext(ctx), tea.WithOutput(out))
	_, err = p.Run()
	return err
}
