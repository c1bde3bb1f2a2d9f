package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bpmnlayout/internal/config"
	"github.com/matzehuels/bpmnlayout/pkg/cache"
	bperrors "github.com/matzehuels/bpmnlayout/pkg/errors"
	"github.com/matzehuels/bpmnlayout/pkg/graph"
	"github.com/matzehuels/bpmnlayout/pkg/layout"
	"github.com/matzehuels/bpmnlayout/pkg/observability"
	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

const testBPMN = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL" id="Defs">
  <process id="Process_1">
    <startEvent id="start"/>
    <userTask id="review" name="Review"/>
    <endEvent id="stop"/>
    <sequenceFlow id="f1" sourceRef="start" targetRef="review"/>
    <sequenceFlow id="f2" sourceRef="review" targetRef="stop"/>
  </process>
</definitions>
`

const testGraph = `{
  "nodes": [
    {"id": "a", "category": "startEvent"},
    {"id": "b", "category": "task"},
    {"id": "c", "category": "endEvent"}
  ],
  "edges": [
    {"from": "a", "to": "b"},
    {"from": "b", "to": "c"}
  ]
}`

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
	cfg := config.Default().Server
	cfg.MaxBodyBytes = 4096
	return New(runner, cfg, logger, opts...)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var v map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Contains(t, v, "version")
	assert.Contains(t, v, "commit")
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123<script>")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123script", rec.Header().Get(RequestIDHeader))
}

func TestCompute(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"nodes": [{"id": "s", "category": "startEvent"}, {"id": "t", "category": "task"}, {"id": "e", "category": "endEvent"}],
		"edges": [{"source": "s", "target": "t"}, {"source": "t", "target": "e"}, {"source": "t", "target": "ghost"}]
	}`
	rec := do(t, s, http.MethodPost, "/v1/compute", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pos layout.Positions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pos))
	require.Len(t, pos, 3)
	assert.Less(t, pos["s"].X, pos["t"].X)
	assert.Less(t, pos["t"].X, pos["e"].X)
}

func TestComputeEmpty(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/compute", `{"nodes": [], "edges": []}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestComputeErrors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/compute", `{"nodes": [`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, bperrors.ErrCodeInvalidInput, decodeError(t, rec).Code)

	rec = do(t, s, http.MethodPost, "/v1/compute", `{"nodes": [], "spacing_factor": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "SpacingFactor")
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/layout?routing=orthogonal&spacing_factor=2", testGraph)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "native", rec.Header().Get(TierHeader))
	assert.Equal(t, "miss", rec.Header().Get(CacheHeader))

	l, err := graph.UnmarshalLayout(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, l.Nodes, 3)
	assert.Equal(t, "orthogonal", l.Routing)
	assert.Equal(t, 2.0, l.SpacingFactor)

	rec = do(t, s, http.MethodPost, "/v1/layout?routing=orthogonal&spacing_factor=2", testGraph)
	assert.Equal(t, "hit", rec.Header().Get(CacheHeader))
}

func TestLayoutErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   bperrors.Code
	}{
		{"BadQuery", "/v1/layout?sweeps=many", testGraph, http.StatusBadRequest, bperrors.ErrCodeInvalidInput},
		{"BadRouting", "/v1/layout?routing=curved", testGraph, http.StatusBadRequest, bperrors.ErrCodeInvalidInput},
		{"Empty", "/v1/layout", "", http.StatusBadRequest, bperrors.ErrCodeInvalidInput},
		{"UnknownFormat", "/v1/layout", "hello", http.StatusBadRequest, bperrors.ErrCodeInvalidFormat},
		{"DanglingEdge", "/v1/layout", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, http.StatusBadRequest, bperrors.ErrCodeInvalidGraph},
		{"TooLarge", "/v1/layout", `{"nodes":[` + strings.Repeat(" ", 5000) + `]}`, http.StatusRequestEntityTooLarge, bperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestBPMNLayout(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/bpmn/layout", testBPMN)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "native", rec.Header().Get(TierHeader))
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	assert.Equal(t, 3, strings.Count(out, "<bpmndi:BPMNShape"))
	assert.Equal(t, 2, strings.Count(out, "<bpmndi:BPMNEdge"))
	assert.True(t, strings.HasPrefix(out, testBPMN[:strings.Index(testBPMN, "</definitions>")]))
}

func TestBPMNLayoutRejectsGraph(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/bpmn/layout", testGraph)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, bperrors.ErrCodeInvalidDocument, decodeError(t, rec).Code)
}

func TestRender(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/render?title=Order", testBPMN)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "Order")

	rec = do(t, s, http.MethodPost, "/v1/render?format=DOT", testGraph)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/vnd.graphviz", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "rankdir=LR")
}

func TestRenderErrors(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/render?format=gif", testGraph)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, bperrors.ErrCodeInvalidFormat, decodeError(t, rec).Code)

	rec = do(t, s, http.MethodPost, "/v1/render?format=bpmn", testGraph)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, bperrors.ErrCodeUnsupported, decodeError(t, rec).Code)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, bperrors.ErrCodeNotFound, decodeError(t, rec).Code)
}

func TestMetrics(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, do(t, newTestServer(t), http.MethodGet, "/metrics", "").Code)

	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t, WithMetrics(reg))
	do(t, s, http.MethodGet, "/healthz", "")

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/healthz"`)
}

func TestWithDefaults(t *testing.T) {
	s := newTestServer(t, WithDefaults(pipeline.Options{Routing: "orthogonal"}))
	rec := do(t, s, http.MethodPost, "/v1/layout", testGraph)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	l, err := graph.UnmarshalLayout(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "orthogonal", l.Routing)
}

func TestServeShutdown(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
