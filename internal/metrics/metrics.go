package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. All helper methods
// are safe to call on a nil *Metrics.
type Metrics struct {
	Registry        *prometheus.Registry
	WebhookRequests *prometheus.CounterVec
	CatalogLookups  *prometheus.CounterVec
	HTTPLatency     *prometheus.HistogramVec
	Errors          *prometheus.CounterVec
	RateLimited     prometheus.Counter
}

// New registers the service collectors on a private registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		WebhookRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_requests_total",
			Help:      "Webhook requests by classified intent.",
		}, []string{"intent"}),
		CatalogLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_lookups_total",
			Help:      "Catalog lookups by record kind and result.",
		}, []string{"kind", "result"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors by component.",
		}, []string{"component"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Webhook requests rejected by the per-session rate limit.",
		}),
	}
	reg.MustRegister(
		m.WebhookRequests,
		m.CatalogLookups,
		m.HTTPLatency,
		m.Errors,
		m.RateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) ObserveIntent(intent string) {
	if m == nil {
		return
	}
	m.WebhookRequests.WithLabelValues(intent).Inc()
}

func (m *Metrics) ObserveLookup(kind string, found bool) {
	if m == nil {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	m.CatalogLookups.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPLatency.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveError(component string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(component).Inc()
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.Inc()
}
