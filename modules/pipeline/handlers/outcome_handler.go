package handlers

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/events"
	"github.com/iota-uz/recruiting-crm/pkg/application"
)

var outcomesTotal = sync.OnceValue(func() *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crm",
		Subsystem: "pipeline",
		Name:      "outcomes_total",
		Help:      "Candidates moved into a terminal status, by status name.",
	}, []string{"status"})
})

// OutcomeHandler reacts to relayed candidate moves that end a candidate's pipeline.
type OutcomeHandler struct {
	log      *logrus.Entry
	outcomes *prometheus.CounterVec
}

func NewOutcomeHandler(log *logrus.Entry) *OutcomeHandler {
	return &OutcomeHandler{log: log, outcomes: outcomesTotal()}
}

func RegisterOutboxEventHandlers(app application.Application) {
	h := NewOutcomeHandler(app.Logger().WithField("handler", "pipeline.outcome"))
	app.EventPublisher().Subscribe(h.OnCandidateMoved)
}

func (h *OutcomeHandler) OnCandidateMoved(_ context.Context, ev *events.CandidateMovedV1) error {
	if ev == nil || !ev.IsTerminal {
		return nil
	}
	h.outcomes.WithLabelValues(ev.ToStatusName).Inc()
	h.log.WithFields(logrus.Fields{
		"candidate_id": ev.CandidateID,
		"status":       ev.ToStatusName,
		"changed_by":   ev.ChangedBy,
	}).Info("pipeline: candidate reached a final outcome")
	return nil
}
