package outbox

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Every series carries the sanitized table name; the CLI and serve run one
// relay and cleaner per table.
type metrics struct {
	enqueued   *prometheus.CounterVec
	dispatched *prometheus.CounterVec
	deadLetter *prometheus.CounterVec
	cleaned    *prometheus.CounterVec

	dispatchSeconds *prometheus.HistogramVec

	backlog *prometheus.GaugeVec
	leader  *prometheus.GaugeVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	const ns, sub = "crm", "outbox"
	return &metrics{
		enqueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "enqueued_total",
			Help:      "Messages written to the outbox inside a domain transaction.",
		}, []string{"table", "topic"}),
		dispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "dispatched_total",
			Help:      "Relay dispatch attempts by outcome.",
		}, []string{"table", "topic", "outcome"}),
		deadLetter: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "dead_lettered_total",
			Help:      "Messages that ran out of attempts.",
		}, []string{"table", "topic"}),
		cleaned: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "cleaned_total",
			Help:      "Rows removed by the retention cleaner.",
		}, []string{"table", "state"}),
		dispatchSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "dispatch_seconds",
			Help:      "Time spent in the dispatcher per message.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
		}, []string{"table", "topic"}),
		backlog: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "backlog",
			Help:      "Unpublished messages, split into ready and locked.",
		}, []string{"table", "state"}),
		leader: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "relay_leader",
			Help:      "1 while this process runs the relay for the table.",
		}, []string{"table"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

func (m *metrics) observeDispatch(table, topic string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.dispatched.WithLabelValues(table, topic, outcome).Inc()
	m.dispatchSeconds.WithLabelValues(table, topic).Observe(elapsed.Seconds())
}

func (m *metrics) setLeader(table string, leading bool) {
	v := 0.0
	if leading {
		v = 1
	}
	m.leader.WithLabelValues(table).Set(v)
}

func (m *metrics) setBacklog(table string, pending, locked int64) {
	m.backlog.WithLabelValues(table, "ready").Set(float64(pending - locked))
	m.backlog.WithLabelValues(table, "locked").Set(float64(locked))
}

func (m *metrics) observeCleaned(table string, published, dead int64) {
	m.cleaned.WithLabelValues(table, "published").Add(float64(published))
	m.cleaned.WithLabelValues(table, "dead").Add(float64(dead))
}
