package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHelpers(t *testing.T) {
	m := New("test")

	m.ObserveIntent("greeting")
	m.ObserveIntent("greeting")
	m.ObserveLookup("order", true)
	m.ObserveLookup("order", false)
	m.ObserveError("webhook")
	m.ObserveRateLimited()
	m.ObserveRequest("/health", http.StatusOK, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WebhookRequests.WithLabelValues("greeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLookups.WithLabelValues("order", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLookups.WithLabelValues("order", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("webhook")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPLatency))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveIntent("x")
		m.ObserveLookup("order", true)
		m.ObserveError("x")
		m.ObserveRateLimited()
		m.ObserveRequest("/", 200, time.Second)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New("shopbot")
	m.ObserveIntent("fallback")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shopbot_webhook_requests_total{intent="fallback"} 1`)
}
