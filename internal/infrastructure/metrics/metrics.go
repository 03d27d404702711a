package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collectors struct {
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
	Recomputes   *prometheus.CounterVec
}

// New registers every collector on reg. Pass a fresh registry in tests.
func New(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "endpoint", "status"}),
		HTTPLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledger_http_request_duration_seconds",
			Help:    "Request latency",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "endpoint"}),
		Recomputes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_investor_recomputes_total",
			Help: "Investor balance recomputations by outcome",
		}, []string{"outcome"}),
	}
}
