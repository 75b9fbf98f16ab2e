package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the Prometheus collectors for one Server. Each server owns a
// private registry so that several servers can live in one process.
type metrics struct {
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	bills      *prometheus.CounterVec
	planWrites *prometheus.CounterVec
	handler    http.Handler
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()

	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebill_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),

		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "phonebill_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		// result: ok, plan_not_found, error
		bills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebill_bills_total",
			Help: "Bill calculations by result",
		}, []string{"result"}),

		// op: create, update, delete
		planWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebill_price_plan_writes_total",
			Help: "Successful price plan writes by operation, including no-op updates and deletes",
		}, []string{"op"}),
	}

	reg.MustRegister(
		m.requests, m.latency, m.bills, m.planWrites,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}
