package booking

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts booking service calls per endpoint. Each client owns its
// collectors so several clients (and tests) never collide on registration.
type Metrics struct {
	requests  *prometheus.CounterVec
	cacheHits *prometheus.CounterVec
	errors    *prometheus.CounterVec
}

func newMetrics() *Metrics {
	return &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "railbook",
			Name:      "booking_requests_total",
			Help:      "Number of HTTP requests sent to the booking service (uncached)",
		}, []string{"endpoint"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "railbook",
			Name:      "booking_cache_hits_total",
			Help:      "Number of booking lookups answered from the local cache",
		}, []string{"endpoint"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "railbook",
			Name:      "booking_errors_total",
			Help:      "Number of booking service calls that ended in an error",
		}, []string{"endpoint"}),
	}
}

// Collectors returns the client's collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requests, m.cacheHits, m.errors}
}

func (m *Metrics) request(endpoint string) {
	m.requests.With(prometheus.Labels{"endpoint": endpoint}).Inc()
}

func (m *Metrics) cacheHit(endpoint string) {
	m.cacheHits.With(prometheus.Labels{"endpoint": endpoint}).Inc()
}

func (m *Metrics) failure(endpoint string) {
	m.errors.With(prometheus.Labels{"endpoint": endpoint}).Inc()
}
