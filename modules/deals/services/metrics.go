package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	replacementsTotal *prometheus.CounterVec
	splitRows         prometheus.Histogram
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		replacementsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "deals",
			Name:      "split_replacements_total",
			Help:      "Deal split replacements by outcome.",
		}, []string{"result"}),
		splitRows: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crm",
			Subsystem: "deals",
			Name:      "split_rows",
			Help:      "Number of split rows written per replacement.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
