package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	podtestutil "github.com/mcoot/podtracker/internal/testutil"
)

func routed(h http.Handler, mw ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	for _, m := range mw {
		r.Use(m)
	}
	r.Handle("/decks/{id}", h)
	return r
}

func TestLoggingRecordsRouteTemplate(t *testing.T) {
	logger, buf := podtestutil.CaptureLogger()
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	rec := httptest.NewRecorder()
	routed(h, Logging(logger)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/decks/abc", nil))

	out := buf.String()
	assert.Contains(t, out, `"route":"/decks/{id}"`)
	assert.Contains(t, out, `"path":"/decks/abc"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"size":15`)
}

func TestLoggingServerErrorsAtErrorLevel(t *testing.T) {
	logger, buf := podtestutil.CaptureLogger()
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	routed(h, Logging(logger)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/decks/abc", nil))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestRecoveryCallsHandler(t *testing.T) {
	logger, buf := podtestutil.CaptureLogger()
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	Recovery(logger, DefaultPanicHandler)(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "boom")
}

func TestRecoveryReraisesAbort(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		Recovery(podtestutil.NopLogger(), DefaultPanicHandler)(h).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestMetricsCountsByRoute(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router := routed(h, metrics.Middleware)

	for _, id := range []string{"a", "b", "c"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/decks/"+id, nil))
	}

	expected := `
# HELP podtracker_http_requests_total HTTP requests by method, route and status code
# TYPE podtracker_http_requests_total counter
podtracker_http_requests_total{method="GET",route="/decks/{id}",status="404"} 3
`
	require.NoError(t, testutil.CollectAndCompare(metrics.requests, strings.NewReader(expected)))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.inFlight))
}
