package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bpmnlayout/internal/config"
	"github.com/matzehuels/bpmnlayout/pkg/buildinfo"
	"github.com/matzehuels/bpmnlayout/pkg/cache"
	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "bpmnlayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "bpmnlayout computes diagram layouts for BPMN processes",
		Long: `bpmnlayout places the elements of BPMN processes left to right by flow and
writes the result back as diagram interchange, so modelers open the file with
a readable diagram. It also renders layouts to SVG, PNG and PDF and serves the
same pipeline over HTTP.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies its log level. --verbose wins
// over the file.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = LogInfo
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	store, err := cache.Open(ctx, c.Config.Cache)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", c.Config.Cache.Backend, "error", err)
		store = cache.NewNullCache()
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// =============================================================================
// Shared Flags
// =============================================================================

// layoutFlags are the layout options every pipeline command accepts. Only
// flags set on the command line override the configuration.
type layoutFlags struct {
	spacing    float64
	graphviz   bool
	routing    string
	sweeps     int
	cycleLimit int
	timeout    time.Duration
	force      bool
	refresh    bool
	noCache    bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.spacing, "spacing", 0, "spacing factor between layers and rows (default 1.5)")
	fs.BoolVar(&f.graphviz, "graphviz", false, "try the Graphviz tier before the native one")
	fs.StringVar(&f.routing, "routing", "", "edge routing: straight (default), orthogonal")
	fs.IntVar(&f.sweeps, "sweeps", 0, "barycenter sweeps (default 3)")
	fs.IntVar(&f.cycleLimit, "cycle-limit", 0, "cap on enumerated cycles before falling back")
	fs.DurationVar(&f.timeout, "timeout", 0, "time budget of the native tier")
	fs.BoolVar(&f.force, "force", false, "replace existing diagram interchange")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

func (f *layoutFlags) options(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	opts := base
	fs := cmd.Flags()
	if fs.Changed("spacing") {
		opts.SpacingFactor = f.spacing
	}
	if fs.Changed("graphviz") {
		opts.Graphviz = f.graphviz
	}
	if fs.Changed("routing") {
		opts.Routing = f.routing
	}
	if fs.Changed("sweeps") {
		opts.Sweeps = f.sweeps
	}
	if fs.Changed("cycle-limit") {
		opts.CycleLimit = f.cycleLimit
	}
	if fs.Changed("timeout") {
		opts.Timeout = f.timeout
	}
	opts.Force = f.force
	opts.Refresh = f.refresh
	return opts
}

// =============================================================================
// Paths and Output
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// basePath derives the output base from the output flag and input path,
// stripping a known format extension from either.
func basePath(output, input string) string {
	p := output
	if p == "" {
		p = input
	}
	ext := filepath.Ext(p)
	if output == "" || isFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(p, ext)
	}
	return p
}

func isFormat(s string) bool {
	return slices.Contains(pipeline.SupportedFormats, s)
}

// writeOutput writes data to path, or to w when path is "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := w.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
