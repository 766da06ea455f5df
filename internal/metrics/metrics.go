// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	logins         *prometheus.CounterVec
	purchases      *prometheus.CounterVec
	payments       prometheus.Counter
	premiumQuotes  prometheus.Counter
	commissionRows prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insurance_logins_total",
			Help: "Login attempts by role and outcome.",
		}, []string{"role", "outcome"}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insurance_policy_purchases_total",
			Help: "Policy purchase attempts by outcome.",
		}, []string{"outcome"}),
		payments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insurance_payments_total",
			Help: "Payments recorded.",
		}),
		premiumQuotes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insurance_premium_calculations_total",
			Help: "Premium quotes computed.",
		}),
		commissionRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "insurance_commission_rows_total",
			Help: "Commission ledger rows appended.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.logins, m.purchases, m.payments, m.premiumQuotes, m.commissionRows,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument records in-flight, count and latency per chi route pattern, so
// ids in the path do not explode label cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := strconv.Itoa(sw.code)

		m.httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

func (m *Metrics) Login(role string, ok bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(role, outcome(ok)).Inc()
}

func (m *Metrics) Purchase(ok bool) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(outcome(ok)).Inc()
}

func (m *Metrics) Payment() {
	if m == nil {
		return
	}
	m.payments.Inc()
}

func (m *Metrics) PremiumQuote() {
	if m == nil {
		return
	}
	m.premiumQuotes.Inc()
}

func (m *Metrics) CommissionRows(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.commissionRows.Add(float64(n))
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
