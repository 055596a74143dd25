package uow

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	transactionsTotal *prometheus.CounterVec
	duration          *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		transactionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "uow",
			Name:      "transactions_total",
			Help:      "Total number of finished units of work.",
		}, []string{"name", "result"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "uow",
			Name:      "duration_seconds",
			Help:      "Wall time of a unit of work, begin to commit or rollback.",
			Buckets: []float64{
				0.001, 0.005, 0.01, 0.025,
				0.05, 0.1, 0.25, 0.5,
				1, 2.5, 5,
			},
		}, []string{"name"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

func (m *metrics) observe(name, result string, elapsed time.Duration) {
	m.transactionsTotal.WithLabelValues(name, result).Inc()
	m.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}
