package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()
	httpRequestsInFlight.Set(0)

	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	Metrics(next).ServeHTTP(rr, req)

	if !handlerCalled {
		t.Fatalf("next handler was not invoked")
	}

	if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
		t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
	}

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/health", strconv.Itoa(http.StatusTeapot))
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	httpRequestsTotal.Reset()
	httpRequestDuration.Reset()

	// Routing through chi makes the route pattern available, so the label is
	// the pattern rather than the concrete ID.
	router := chi.NewRouter()
	router.Use(Metrics)
	router.Get("/clients/{id}/balance", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/clients/01ABCDEF/balance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/clients/{id}/balance", "200")
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected pattern-labelled counter to be 1, got %v", got)
	}
}

func TestRoutePatternFallsBackToRawPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	if got := routePattern(req); got != "/metrics" {
		t.Fatalf("expected raw path fallback, got %q", got)
	}
}
