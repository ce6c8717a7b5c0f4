package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(LoginsTotal.WithLabelValues("success"))
	LoginsTotal.WithLabelValues("success").Inc()
	after := testutil.ToFloat64(LoginsTotal.WithLabelValues("success"))
	assert.Equal(t, before+1, after)
}

func TestRealtimeGauge(t *testing.T) {
	RealtimeClientsCurrent.Set(0)
	RealtimeClientsCurrent.Inc()
	RealtimeClientsCurrent.Inc()
	RealtimeClientsCurrent.Dec()
	assert.Equal(t, 1.0, testutil.ToFloat64(RealtimeClientsCurrent))
}

func TestOrderEventsByRoom(t *testing.T) {
	before := testutil.ToFloat64(OrderEventsTotal.WithLabelValues("admin"))
	OrderEventsTotal.WithLabelValues("admin").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(OrderEventsTotal.WithLabelValues("admin")))
}
