package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/bpmnlayout/pkg/bpmn"
	"github.com/matzehuels/bpmnlayout/pkg/dag"
	bperrors "github.com/matzehuels/bpmnlayout/pkg/errors"
	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/render"
	"github.com/matzehuels/bpmnlayout/pkg/render/nodelink"
)

// RenderFromLayout renders every requested format. src supplies the graph
// for the graphviz renderer and DOT output and the document for BPMN
// output; it may be nil when neither is requested.
func RenderFromLayout(ctx context.Context, l graph.Layout, src *Source, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgOnce := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = renderSVG(ctx, l, src, opts)
		return svg, err
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgOnce()
		case FormatPNG:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
		case FormatPDF:
			if data, err = svgOnce(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatBPMN:
			data, err = renderBPMN(l, src, opts)
		case FormatDOT:
			if src == nil || src.Graph == nil {
				return nil, bperrors.New(bperrors.ErrCodeUnsupported, "dot output needs the source graph")
			}
			data = []byte(nodelink.ToDOT(src.Graph, nodelink.Options{BackEdges: backEdges(l)}))
		default:
			return nil, bperrors.New(bperrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderSVG(ctx context.Context, l graph.Layout, src *Source, opts Options) ([]byte, error) {
	if opts.Renderer == RendererGraphviz {
		if src == nil || src.Graph == nil {
			return nil, bperrors.New(bperrors.ErrCodeUnsupported, "graphviz renderer needs the source graph")
		}
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(src.Graph, nodelink.Options{BackEdges: backEdges(l)}))
	}

	var svgOpts []render.SVGOption
	if opts.NoLabels {
		svgOpts = append(svgOpts, render.WithoutLabels())
	}
	if opts.Title != "" {
		svgOpts = append(svgOpts, render.WithTitle(opts.Title))
	}
	return render.RenderSVG(l, svgOpts...), nil
}

func renderBPMN(l graph.Layout, src *Source, opts Options) ([]byte, error) {
	if !src.IsBPMN() {
		return nil, bperrors.New(bperrors.ErrCodeUnsupported, "bpmn output needs a BPMN input")
	}
	out, err := bpmn.Inject(src.Data, src.Document, l, bpmn.InjectOptions{Force: opts.Force})
	if err != nil {
		return nil, bperrors.Wrap(bperrors.ErrCodeInternal, err, "write diagram")
	}
	return out, nil
}

func backEdges(l graph.Layout) []dag.Edge {
	out := make([]dag.Edge, len(l.BackEdges))
	for i, e := range l.BackEdges {
		out[i] = dag.Edge{ID: e.ID, From: e.From, To: e.To}
	}
	return out
}
