package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndHelpers(t *testing.T) {
	r := prometheus.NewRegistry()
	require.NoError(t, Register(r))
	// Second call is a no-op.
	require.NoError(t, Register(r))

	IncPollTick()
	IncNotificationUpdate()
	IncAction("start_node")
	IncShutdown("graceful")
	SetServiceRegistered(true)
	SetWakeHeld(true)

	mfs, err := r.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["corebridge_bridge_poll_ticks_total"])
	assert.True(t, names["corebridge_bridge_notification_updates_total"])
	assert.True(t, names["corebridge_bridge_actions_total"])
	assert.True(t, names["corebridge_bridge_shutdowns_total"])
	assert.True(t, names["corebridge_bridge_service_registered"])
	assert.True(t, names["corebridge_bridge_wake_resource_held"])
}

func TestBoolGauge(t *testing.T) {
	assert.Equal(t, float64(1), boolGauge(true))
	assert.Equal(t, float64(0), boolGauge(false))
}
