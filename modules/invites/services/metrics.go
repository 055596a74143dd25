package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	redemptionsTotal *prometheus.CounterVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		redemptionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Subsystem: "invites",
			Name:      "redemptions_total",
			Help:      "Invite redemption attempts by result code.",
		}, []string{"result"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}
