package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"merchant-bi-api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, buf
}

func serve(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := serve(router, http.MethodGet, "/ping")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestStructuredLogger(t *testing.T) {
	logger, buf := testLogger()
	router := gin.New()
	router.Use(RequestID(), StructuredLogger(logger))
	router.GET("/merchants/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(router, http.MethodGet, "/merchants/7?date=2012-03-27")

	out := buf.String()
	assert.Contains(t, out, `"route":"/merchants/:id"`)
	assert.Contains(t, out, `"status_code":404`)
	assert.Contains(t, out, `"query":"date=2012-03-27"`)
	assert.Contains(t, out, `"level":"warning"`)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(router, http.MethodOptions, "/ping")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	logger, buf := testLogger()
	router := gin.New()
	router.Use(Recovery(logger))
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(router, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.Contains(t, buf.String(), "Recovered from panic")
}

func TestErrorHandler(t *testing.T) {
	logger, buf := testLogger()
	router := gin.New()
	router.Use(ErrorHandler(logger))
	router.GET("/public", func(c *gin.Context) {
		_ = c.Error(assert.AnError).SetType(gin.ErrorTypePublic)
	})
	router.GET("/private", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
	})
	router.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "gone"})
		_ = c.Error(assert.AnError)
	})

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/public").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(router, http.MethodGet, "/private").Code)

	w := serve(router, http.MethodGet, "/written")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"gone"}`, w.Body.String())
	assert.Contains(t, buf.String(), "Request error")
}

func TestRequestValidation(t *testing.T) {
	router := gin.New()
	router.Use(RequestValidation())
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/merchants/:id/revenue", handler)
	router.GET("/merchants/most_revenue", handler)
	router.GET("/invoice_items/find", handler)

	tests := []struct {
		target string
		want   int
	}{
		{"/merchants/12/revenue", http.StatusOK},
		{"/merchants/12/revenue?date=2012-03-27", http.StatusOK},
		{"/merchants/12/revenue?date=2012-3-7", http.StatusOK},
		{"/merchants/12/revenue?date=2012-03-27T14:54:09.000Z", http.StatusOK},
		{"/merchants/abc/revenue", http.StatusBadRequest},
		{"/merchants/0/revenue", http.StatusBadRequest},
		{"/merchants/12/revenue?date=yesterday", http.StatusBadRequest},
		{"/merchants/most_revenue?quantity=3", http.StatusOK},
		{"/merchants/most_revenue?quantity=-3", http.StatusBadRequest},
		{"/merchants/most_revenue?quantity=many", http.StatusBadRequest},
		{"/invoice_items/find?unit_price=136.35&item_id=4", http.StatusOK},
		{"/invoice_items/find?unit_price=cheap", http.StatusBadRequest},
		{"/invoice_items/find?invoice_id=x", http.StatusBadRequest},
		{"/invoice_items/find?colour=red", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(router, http.MethodGet, tt.target).Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	logger, _ := testLogger()

	t.Run("rejects past the burst", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimiter(logger, 0.001, 2))
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ping").Code)
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ping").Code)

		w := serve(router, http.MethodGet, "/ping")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
	})

	t.Run("disabled when rate is zero", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimiter(logger, 0, 0))
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		for i := 0; i < 10; i++ {
			require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ping").Code)
		}
	})
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	router := gin.New()
	router.Use(Metrics(m))
	router.GET("/merchants/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, http.MethodGet, "/merchants/1")
	serve(router, http.MethodGet, "/merchants/2")
	serve(router, http.MethodGet, "/nowhere")

	expected := `
# HELP merchant_bi_http_requests_total HTTP requests by method, route and status code.
# TYPE merchant_bi_http_requests_total counter
merchant_bi_http_requests_total{method="GET",route="/merchants/:id",status="200"} 2
merchant_bi_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), bytes.NewBufferString(expected), "merchant_bi_http_requests_total"))
}
