// Package metrics implements the observability hooks on Prometheus.
//
// Each [Hooks] owns a private registry so that tests and multiple servers
// in one process do not collide on the global default registry.
//
//	m := metrics.New()
//	m.Register()
//	r.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prepdeck/prepdeck/pkg/observability"
)

const namespace = "prepdeck"

// Hooks records pipeline, cache, generation and HTTP events as Prometheus
// metrics.
type Hooks struct {
	registry *prometheus.Registry

	ResolvesTotal   *prometheus.CounterVec
	ResolveDuration *prometheus.HistogramVec
	LayoutsTotal    *prometheus.CounterVec
	LayoutDuration  prometheus.Histogram
	LayoutPasses    prometheus.Histogram
	RendersTotal    *prometheus.CounterVec
	RenderDuration  prometheus.Histogram

	CacheRequestsTotal *prometheus.CounterVec
	CacheWriteBytes    *prometheus.CounterVec

	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	FallbacksTotal     *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrorsTotal     *prometheus.CounterVec
	HTTPInFlight        prometheus.Gauge
}

var (
	_ observability.PipelineHooks   = (*Hooks)(nil)
	_ observability.CacheHooks      = (*Hooks)(nil)
	_ observability.GenerationHooks = (*Hooks)(nil)
	_ observability.HTTPHooks       = (*Hooks)(nil)
)

// New creates hooks backed by a fresh registry.
func New() *Hooks {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Hooks{
		registry: reg,

		ResolvesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "course_resolves_total",
			Help:      "Course resolutions by source and status",
		}, []string{"source", "status"}),
		ResolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "course_resolve_duration_seconds",
			Help:      "Course resolution duration in seconds",
			Buckets:   []float64{.001, .01, .1, .5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		LayoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Roadmap layouts computed by status",
		}, []string{"status"}),
		LayoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Roadmap layout duration in seconds",
			Buckets:   []float64{.0001, .001, .005, .01, .05, .1},
		}),
		LayoutPasses: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_passes",
			Help:      "Leveling passes per layout",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Render calls by status",
		}, []string{"status"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		CacheRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by key type and result",
		}, []string{"key_type", "result"}),
		CacheWriteBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_write_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),

		GenerationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Model calls by kind, model and status",
		}, []string{"kind", "model", "status"}),
		GenerationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Model call duration in seconds",
			Buckets:   []float64{.1, .5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"kind"}),
		FallbacksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_fallbacks_total",
			Help:      "Built-in answers served in place of model replies",
		}, []string{"kind"}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_errors_total",
			Help:      "Handler errors reported to clients",
		}, []string{"method", "route"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served",
		}),
	}
}

// Register installs h as the process-wide hooks for every category.
func (h *Hooks) Register() {
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetGenerationHooks(h)
	observability.SetHTTPHooks(h)
}

// Registry returns the underlying Prometheus registry.
func (h *Hooks) Registry() *prometheus.Registry {
	return h.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (h *Hooks) Handler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// Pipeline
// =============================================================================

func (h *Hooks) OnResolveStart(context.Context, string) {}

func (h *Hooks) OnResolveComplete(_ context.Context, _, source string, _ int, d time.Duration, err error) {
	if source == "" {
		source = "none"
	}
	h.ResolvesTotal.WithLabelValues(source, status(err)).Inc()
	h.ResolveDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (h *Hooks) OnLayoutStart(context.Context, int) {}

func (h *Hooks) OnLayoutComplete(_ context.Context, passes, _ int, d time.Duration, err error) {
	h.LayoutsTotal.WithLabelValues(status(err)).Inc()
	h.LayoutDuration.Observe(d.Seconds())
	if err == nil {
		h.LayoutPasses.Observe(float64(passes))
	}
}

func (h *Hooks) OnRenderStart(context.Context, []string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.RendersTotal.WithLabelValues(status(err)).Inc()
	h.RenderDuration.Observe(d.Seconds())
}

// =============================================================================
// Cache
// =============================================================================

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheRequestsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheRequestsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheWriteBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// Generation
// =============================================================================

func (h *Hooks) OnGenerateStart(context.Context, string) {}

func (h *Hooks) OnGenerateComplete(_ context.Context, kind, model string, d time.Duration, err error) {
	h.GenerationsTotal.WithLabelValues(kind, model, status(err)).Inc()
	h.GenerationDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (h *Hooks) OnFallback(_ context.Context, kind string) {
	h.FallbacksTotal.WithLabelValues(kind).Inc()
}

// =============================================================================
// HTTP
// =============================================================================

func (h *Hooks) OnRequest(context.Context, string) {
	h.HTTPInFlight.Inc()
}

func (h *Hooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.HTTPInFlight.Dec()
	h.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (h *Hooks) OnError(_ context.Context, method, route string, _ error) {
	h.HTTPErrorsTotal.WithLabelValues(method, route).Inc()
}
