package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveGenerated(t *testing.T) {
	m := New()
	m.ObserveGenerated("pin", "api", 6, 3)
	m.ObserveGenerated("pin", "api", 6, 1)

	if got := testutil.ToFloat64(m.passwordsGenerated.WithLabelValues("pin", "api")); got != 4 {
		t.Errorf("passwords_generated_total = %v, want 4", got)
	}
}

func TestObserveRejected(t *testing.T) {
	m := New()
	m.ObserveRejected("invalid_length")

	if got := testutil.ToFloat64(m.generationRejected.WithLabelValues("invalid_length")); got != 1 {
		t.Errorf("generation_rejected_total = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveGenerated("random", "cli", 10, 1)
	m.ObserveRejected("unknown_policy")
	m.ObserveAuditFailure()
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/items/{id}", "418")); got != 1 {
		t.Errorf("http_requests_total = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveAuditFailure()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "passgen_audit_write_failures_total 1") {
		t.Error("exposition missing passgen_audit_write_failures_total")
	}
}

func TestRegistrySeries(t *testing.T) {
	m := New()

	got, err := testutil.GatherAndCount(m.Registry(), "passgen_passwords_generated_total")
	if err != nil {
		t.Fatalf("GatherAndCount() unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("series before any generation = %d, want 0", got)
	}

	m.ObserveGenerated("pin", "api", 6, 1)
	m.ObserveGenerated("random", "cli", 16, 2)
	m.ObserveGenerated("pin", "api", 8, 1)

	tests := []struct {
		metric string
		want   int
	}{
		{metric: "passgen_passwords_generated_total", want: 2},
		{metric: "passgen_password_length", want: 1},
		{metric: "passgen_generation_rejected_total", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			got, err := testutil.GatherAndCount(m.Registry(), tt.metric)
			if err != nil {
				t.Fatalf("GatherAndCount() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("series = %d, want %d", got, tt.want)
			}
		})
	}
}
