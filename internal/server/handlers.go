package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/bpmnlayout/pkg/buildinfo"
	bperrors "github.com/matzehuels/bpmnlayout/pkg/errors"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

// TierHeader reports which layout tier produced the response.
const TierHeader = "X-Layout-Tier"

// CacheHeader is "hit" when the layout came from the cache.
const CacheHeader = "X-Cache"

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatBPMN: "application/xml",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// computeRequest is the plain node and edge list of layout.ComputeNodes.
// Unknown edge endpoints and duplicate nodes are dropped, not rejected.
type computeRequest struct {
	Nodes         []layout.NodeSpec `json:"nodes" validate:"max=100000"`
	Edges         []layout.EdgeSpec `json:"edges" validate:"max=500000"`
	SpacingFactor *float64          `json:"spacing_factor" validate:"omitempty,gt=0,lte=10"`
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := bperrors.ValidateStruct(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	spacing := layout.DefaultSpacingFactor
	if req.SpacingFactor != nil {
		spacing = *req.SpacingFactor
	}
	writeJSON(w, http.StatusOK, layout.ComputeNodes(r.Context(), req.Nodes, req.Edges, spacing))
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	src, opts, ok := s.prepare(w, r)
	if !ok {
		return
	}
	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), src.Graph, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(TierHeader, l.Tier)
	w.Header().Set(CacheHeader, cacheStatus(hit))
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleBPMNLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, l, err := s.runner.LayoutDocument(r.Context(), body, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(TierHeader, l.Tier)
	writeBytes(w, contentTypes[pipeline.FormatBPMN], out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	src, opts, ok := s.prepare(w, r)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), src, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set(TierHeader, res.Layout.Tier)
	w.Header().Set(CacheHeader, cacheStatus(res.CacheInfo.LayoutHit))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Artifacts[format])))
	writeBytes(w, contentTypes[format], res.Artifacts[format])
}

// prepare parses options and loads the body as BPMN or graph JSON.
func (s *Server) prepare(w http.ResponseWriter, r *http.Request) (*pipeline.Source, pipeline.Options, bool) {
	opts, err := s.options(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return nil, opts, false
	}
	body, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, opts, false
	}
	src, err := pipeline.Load(body)
	if err != nil {
		s.writeError(w, r, err)
		return nil, opts, false
	}
	return src, opts, true
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
