package handlers

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/events"
	"github.com/iota-uz/recruiting-crm/pkg/eventbus"
)

func TestOutcomeHandler_CountsTerminalMoves(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(log)
	h := NewOutcomeHandler(logrus.NewEntry(log))
	bus.Subscribe(h.OnCandidateMoved)

	before := testutil.ToFloat64(h.outcomes.WithLabelValues("Hired Elsewhere"))

	require.NoError(t, bus.PublishE(context.Background(), &events.CandidateMovedV1{ToStatusName: "Screening"}))
	require.NoError(t, bus.PublishE(context.Background(), &events.CandidateMovedV1{ToStatusName: "Hired Elsewhere", IsTerminal: true}))

	require.InDelta(t, before+1, testutil.ToFloat64(h.outcomes.WithLabelValues("Hired Elsewhere")), 0.0001)
}
