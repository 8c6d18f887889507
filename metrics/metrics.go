package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "restaurant_orders"

type ServerMetrics struct {
	Requests    *prometheus.CounterVec
	LatencyMS   *prometheus.HistogramVec
	LookupPaths *prometheus.CounterVec
	LookupHits  *prometheus.CounterVec
	OrderEvents *prometheus.CounterVec
}

// NewServerMetrics registers the collectors on reg. Pass a fresh registry in
// tests so repeated construction does not panic.
func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	lookupPaths := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "order_lookup",
		Name:      "path_queries_total",
		Help:      "Identity path queries run by the order lookup, by outcome.",
	}, []string{"path", "outcome"})
	lookupHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "order_lookup",
		Name:      "path_hits_total",
		Help:      "Orders returned per identity path before deduplication.",
	}, []string{"path"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "kds",
		Name:      "order_events_total",
		Help:      "Order events broadcast to kitchen displays.",
	}, []string{"event"})

	reg.MustRegister(requests, latency, lookupPaths, lookupHits, events)
	return &ServerMetrics{
		Requests:    requests,
		LatencyMS:   latency,
		LookupPaths: lookupPaths,
		LookupHits:  lookupHits,
		OrderEvents: events,
	}
}

func (m *ServerMetrics) ObserveRequest(handler string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(float64(elapsed) / float64(time.Millisecond))
}

func (m *ServerMetrics) ObserveLookupPath(path string, hits int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.LookupPaths.WithLabelValues(path, outcome).Inc()
	m.LookupHits.WithLabelValues(path).Add(float64(hits))
}

func (m *ServerMetrics) ObserveOrderEvent(event string) {
	m.OrderEvents.WithLabelValues(event).Inc()
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
