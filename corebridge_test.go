package corebridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedBridgeLifecycle(t *testing.T) {
	sim := NewSimNode("Test node", 2*time.Millisecond)
	defer sim.Close()

	terminated := make(chan struct{})
	h := NewLocalHost("", func(int) { close(terminated) })

	b := New(Options{
		Source:        sim,
		Host:          h,
		PollInterval:  5 * time.Millisecond,
		ShutdownGrace: 300 * time.Millisecond,
	})
	require.NoError(t, b.Start())
	assert.True(t, b.Registered())

	// Drive the node up, then ask it to stop and exit.
	b.Submit(RequestStart)
	require.Eventually(t, func() bool { return b.Status().CanStop }, 2*time.Second, 2*time.Millisecond)

	b.Submit(RequestStopThenExit)
	select {
	case <-terminated:
	case <-time.After(3 * time.Second):
		t.Fatal("bridge never terminated after stop-to-exit")
	}
	assert.False(t, b.Registered())
}

func TestDefaultConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Second, cfg.Poll.Interval)
	assert.Equal(t, 3*time.Second, cfg.Shutdown.Grace)
	require.NoError(t, cfg.Validate())
}

func TestNewJournalSinkSQLite(t *testing.T) {
	sink, err := NewJournalSink(":memory:")
	require.NoError(t, err)
	require.NotNil(t, sink)
}
