package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware_CountsRequests(t *testing.T) {
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 3 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestObserveGeneration(t *testing.T) {
	m := New()
	m.ObserveGeneration("structured", 5)
	m.ObserveGeneration("service_error", 1)
	m.ObserveGeneration("structured", 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generations.WithLabelValues("structured")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.questionsReturned))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveGeneration("fallback", 2)

	r := gin.New()
	r.GET("/metrics", m.Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `gapquiz_generations_total{path="fallback"} 1`), body)
	assert.Contains(t, body, "gapquiz_questions_returned_total 2")
	assert.Contains(t, body, "go_goroutines")
}
