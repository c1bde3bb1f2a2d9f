package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks records layout, cache and HTTP events as Prometheus
// metrics. A single value implements [LayoutHooks], [CacheHooks] and
// [HTTPHooks].
type PrometheusHooks struct {
	LayoutsTotal       *prometheus.CounterVec
	TierFailuresTotal  *prometheus.CounterVec
	TierDuration       *prometheus.HistogramVec
	LayoutDuration     *prometheus.HistogramVec
	LayoutNodes        prometheus.Histogram
	RendersTotal       *prometheus.CounterVec
	RenderDuration     prometheus.Histogram
	CacheHitsTotal     *prometheus.CounterVec
	CacheMissesTotal   *prometheus.CounterVec
	CacheSetBytes      *prometheus.HistogramVec
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
	HTTPErrorsTotal    *prometheus.CounterVec
}

// NewPrometheusHooks creates the metrics and registers them with reg.
// Registering twice on the same registerer panics, as with promauto.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		LayoutsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpmnlayout_layouts_total",
				Help: "Total number of computed layouts by the tier that produced them",
			},
			[]string{"tier"},
		),
		TierFailuresTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpmnlayout_tier_failures_total",
				Help: "Total number of failed layout tier attempts",
			},
			[]string{"tier"},
		),
		TierDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bpmnlayout_tier_duration_seconds",
				Help:    "Duration of individual layout tier attempts",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2, 5},
			},
			[]string{"tier", "status"},
		),
		LayoutDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bpmnlayout_layout_duration_seconds",
				Help:    "End-to-end layout duration including fallbacks",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2, 5},
			},
			[]string{"tier"},
		),
		LayoutNodes: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bpmnlayout_layout_nodes",
				Help:    "Number of nodes per layout request",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
		),
		RendersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpmnlayout_renders_total",
				Help: "Total number of render operations",
			},
			[]string{"status"},
		),
		RenderDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bpmnlayout_render_duration_seconds",
				Help:    "Render latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpmnlayout_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_type"},
		),
		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpmnlayout_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_type"},
		),
		CacheSetBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bpmnlayout_cache_set_bytes",
				Help:    "Size of cache writes in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"key_type"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpmnlayout_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bpmnlayout_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpmnlayout_http_errors_total",
				Help: "Total number of HTTP handler errors",
			},
			[]string{"method", "route"},
		),
	}
}

func (p *PrometheusHooks) OnLayoutStart(_ context.Context, nodes, _ int) {
	p.LayoutNodes.Observe(float64(nodes))
}

func (p *PrometheusHooks) OnTierAttempt(_ context.Context, tier string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
		p.TierFailuresTotal.WithLabelValues(tier).Inc()
	}
	p.TierDuration.WithLabelValues(tier, status).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnLayoutComplete(_ context.Context, tier string, _ int, d time.Duration) {
	p.LayoutsTotal.WithLabelValues(tier).Inc()
	p.LayoutDuration.WithLabelValues(tier).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (p *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	p.RendersTotal.WithLabelValues(status).Inc()
	p.RenderDuration.Observe(d.Seconds())
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.HTTPRequestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (p *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	p.HTTPErrorsTotal.WithLabelValues(method, route).Inc()
}
