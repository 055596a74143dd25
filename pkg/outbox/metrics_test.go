package outbox

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveDispatch(t *testing.T) {
	m := getMetrics()
	ok := m.dispatched.WithLabelValues("metrics_test", "t.v1", "ok")
	failed := m.dispatched.WithLabelValues("metrics_test", "t.v1", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	m.observeDispatch("metrics_test", "t.v1", nil, time.Millisecond)
	m.observeDispatch("metrics_test", "t.v1", errors.New("nope"), time.Millisecond)
	m.observeDispatch("metrics_test", "t.v1", errors.New("nope"), time.Millisecond)

	require.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	require.Equal(t, failedBefore+2, testutil.ToFloat64(failed))
}

func TestMetrics_GaugesAndCleaner(t *testing.T) {
	m := getMetrics()

	m.setLeader("metrics_test", true)
	require.InDelta(t, 1, testutil.ToFloat64(m.leader.WithLabelValues("metrics_test")), 0)
	m.setLeader("metrics_test", false)
	require.InDelta(t, 0, testutil.ToFloat64(m.leader.WithLabelValues("metrics_test")), 0)

	m.setBacklog("metrics_test", 7, 2)
	require.InDelta(t, 5, testutil.ToFloat64(m.backlog.WithLabelValues("metrics_test", "ready")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(m.backlog.WithLabelValues("metrics_test", "locked")), 0)

	before := testutil.ToFloat64(m.cleaned.WithLabelValues("metrics_test", "published"))
	m.observeCleaned("metrics_test", 3, 0)
	require.Equal(t, before+3, testutil.ToFloat64(m.cleaned.WithLabelValues("metrics_test", "published")))
}
