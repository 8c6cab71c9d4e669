package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodGet, "/api/v1/merchants/:id/revenue", http.StatusOK, 12*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/merchants/:id/revenue", http.StatusOK, 3*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/merchants/:id/revenue", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveQuery(t *testing.T) {
	m := New()

	m.ObserveQuery("merchant_revenue", OutcomeOK, 2*time.Millisecond)
	m.ObserveQuery("merchant_revenue", OutcomeNotFound, time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.queryDuration))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
		m.ObserveQuery("most_revenue", OutcomeOK, time.Millisecond)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveQuery("favorite_customer", OutcomeOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "merchant_bi_query_duration_seconds"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
