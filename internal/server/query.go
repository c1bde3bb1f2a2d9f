package server

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	bperrors "github.com/matzehuels/bpmnlayout/pkg/errors"
	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

// queryParser reads typed query parameters, keeping the first error.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) fail(key string, err error) {
	if p.err == nil {
		p.err = bperrors.Wrap(bperrors.ErrCodeInvalidInput, err, "query parameter %s", key)
	}
}

func (p *queryParser) float(key string, dst *float64) {
	if v := p.q.Get(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = f
	}
}

func (p *queryParser) int(key string, dst *int) {
	if v := p.q.Get(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = n
	}
}

func (p *queryParser) bool(key string, dst *bool) {
	if v := p.q.Get(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = b
	}
}

func (p *queryParser) duration(key string, dst *time.Duration) {
	if v := p.q.Get(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(key, err)
			return
		}
		*dst = d
	}
}

func (p *queryParser) string(key string, dst *string) {
	if v := strings.TrimSpace(p.q.Get(key)); v != "" {
		*dst = v
	}
}

// options overlays the request's query parameters on the server defaults.
func (s *Server) options(q url.Values) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = nil

	p := &queryParser{q: q}
	p.float("spacing_factor", &opts.SpacingFactor)
	p.bool("graphviz", &opts.Graphviz)
	p.string("routing", &opts.Routing)
	p.int("sweeps", &opts.Sweeps)
	p.int("cycle_limit", &opts.CycleLimit)
	p.duration("timeout", &opts.Timeout)
	p.bool("force", &opts.Force)
	p.bool("refresh", &opts.Refresh)
	p.string("renderer", &opts.Renderer)
	p.float("scale", &opts.Scale)
	p.bool("no_labels", &opts.NoLabels)
	p.string("title", &opts.Title)
	if p.err != nil {
		return pipeline.Options{}, p.err
	}
	return opts, nil
}
