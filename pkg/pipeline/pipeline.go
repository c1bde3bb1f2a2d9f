// Package pipeline provides the load → layout → render pipeline for bpmnlayout.
//
// This package implements the complete pipeline used by the CLI and the HTTP
// service. By centralizing this logic, both entry points share defaults,
// cache keys and output formats.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a BPMN document or a node-link JSON graph
//  2. Layout: Compute positions through the layout fallback chain
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, BPMN, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, src, pipeline.Options{
//	    Formats: []string{"bpmn", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	src, err := pipeline.Load(data)
//	l, err := runner.Layout(ctx, src.Graph, opts)
//	artifacts, err := runner.Render(ctx, l, src, opts)
package pipeline

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bpmnlayout/pkg/cache"
	"github.com/matzehuels/bpmnlayout/pkg/dag"
	"github.com/matzehuels/bpmnlayout/pkg/dag/transform"
	bperrors "github.com/matzehuels/bpmnlayout/pkg/errors"
	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and HTTP service
// =============================================================================

const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultRenderer draws computed positions.
	DefaultRenderer = RendererLayout
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatBPMN = "bpmn"
	FormatDOT  = "dot"
)

// Renderer names. The layout renderer draws the computed layout; the
// graphviz renderer lets Graphviz place the graph itself.
const (
	RendererLayout   = "layout"
	RendererGraphviz = "graphviz"
)

// SupportedFormats lists the output formats in the order they are reported.
var SupportedFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatBPMN, FormatDOT}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	SpacingFactor float64       `json:"spacing_factor,omitempty" validate:"gte=0,lte=10"`
	Graphviz      bool          `json:"graphviz,omitempty"`
	Routing       string        `json:"routing,omitempty" validate:"omitempty,oneof=straight orthogonal"`
	Sweeps        int           `json:"sweeps,omitempty" validate:"gte=0,lte=100"`
	CycleLimit    int           `json:"cycle_limit,omitempty" validate:"gte=0"`
	Timeout       time.Duration `json:"timeout,omitempty" validate:"gte=0"`
	Force         bool          `json:"force,omitempty"`   // Replace existing diagram interchange
	Refresh       bool          `json:"refresh,omitempty"` // Bypass cache reads

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Renderer string   `json:"renderer,omitempty" validate:"omitempty,oneof=layout graphviz"`
	Scale    float64  `json:"scale,omitempty" validate:"gte=0,lte=8"`
	NoLabels bool     `json:"no_labels,omitempty"`
	Title    string   `json:"title,omitempty" validate:"max=200"`

	// Runtime options (not serialized)
	Logger *log.Logger          `json:"-"`
	Scorer transform.EdgeScorer `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Source is the loaded input.
	Source *Source

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the placed nodes and routes.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	d := layout.DefaultOptions()
	if o.SpacingFactor == 0 {
		o.SpacingFactor = d.SpacingFactor
	}
	if o.Routing == "" {
		o.Routing = string(layout.RouteStraight)
	}
	if o.Sweeps == 0 {
		o.Sweeps = d.Sweeps
	}
	if o.CycleLimit == 0 {
		o.CycleLimit = d.CycleLimit
	}
	if o.Timeout == 0 {
		o.Timeout = d.Timeout
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	if err := bperrors.ValidateSpacingFactor(o.SpacingFactor); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	return bperrors.ValidateStruct(o)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = slices.Clone(o.Formats)
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if o.Renderer == "" {
		o.Renderer = DefaultRenderer
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := bperrors.ValidateFormats(o.Formats, SupportedFormats); err != nil {
		return err
	}
	return bperrors.ValidateStruct(o)
}

// Wants reports whether format is among the requested formats.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

// LayoutOptions converts to the layout engine's options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		SpacingFactor: o.SpacingFactor,
		Graphviz:      o.Graphviz,
		Sweeps:        o.Sweeps,
		CycleLimit:    o.CycleLimit,
		Timeout:       o.Timeout,
		Scorer:        o.Scorer,
		Logger:        o.Logger,
	}
}

// RouteStyle returns the parsed routing style, straight when unset.
func (o *Options) RouteStyle() layout.RouteStyle {
	style, err := layout.ParseRouteStyle(o.Routing)
	if err != nil {
		return layout.RouteStraight
	}
	return style
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		SpacingFactor: o.SpacingFactor,
		Graphviz:      o.Graphviz,
		Routing:       o.Routing,
		Sweeps:        o.Sweeps,
		CycleLimit:    o.CycleLimit,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   format,
		Renderer: o.Renderer,
		Labels:   !o.NoLabels,
		Title:    o.Title,
	}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatBPMN:
		opts.Force = o.Force
	}
	return opts
}

// graphHash hashes the node-link form of g, the identity used in cache keys.
func graphHash(g *dag.DAG) string {
	data, _ := graph.MarshalGraph(g)
	return cache.Hash(data)
}
