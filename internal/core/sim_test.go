package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFastSim(t *testing.T) *Sim {
	t.Helper()
	s := NewSim(SimConfig{StepInterval: 2 * time.Millisecond})
	t.Cleanup(s.Close)
	return s
}

func TestSimInitialState(t *testing.T) {
	s := newFastSim(t)
	assert.Equal(t, "Integrated node", s.StatusTitle())
	assert.Equal(t, "Stopped", s.StatusBody())
	assert.True(t, s.CanStart())
	assert.False(t, s.CanStop())
	assert.False(t, s.ExitRequested())
}

func TestSimStartReachesRunning(t *testing.T) {
	s := newFastSim(t)
	s.Start()
	assert.False(t, s.CanStart())
	assert.True(t, s.CanStop())

	require.Eventually(t, func() bool { return s.StatusBody() == "Running" },
		2*time.Second, 2*time.Millisecond)
	assert.True(t, s.CanStop())
}

func TestSimWalksSyncPhases(t *testing.T) {
	s := newFastSim(t)
	s.Start()

	seen := map[string]bool{}
	require.Eventually(t, func() bool {
		body := s.StatusBody()
		switch {
		case body == "Initializing":
			seen["init"] = true
		case body == "Waiting for peers":
			seen["peers"] = true
		case body == "Running":
			return true
		}
		return false
	}, 2*time.Second, time.Millisecond)

	assert.True(t, seen["peers"], "sync must pass through the peer wait phase")
}

func TestSimStopWindsDown(t *testing.T) {
	s := newFastSim(t)
	s.Start()
	require.Eventually(t, func() bool { return s.StatusBody() == "Running" },
		2*time.Second, 2*time.Millisecond)

	s.Stop()
	require.Eventually(t, func() bool { return s.CanStart() },
		2*time.Second, 2*time.Millisecond)
	assert.Equal(t, "Stopped", s.StatusBody())
	assert.False(t, s.ExitRequested(), "plain stop must not request exit")
}

func TestSimStopToExitLatchesFlag(t *testing.T) {
	s := newFastSim(t)
	s.Start()
	require.Eventually(t, func() bool { return s.CanStop() },
		2*time.Second, 2*time.Millisecond)

	s.StopToExit()
	require.Eventually(t, func() bool { return s.ExitRequested() },
		2*time.Second, 2*time.Millisecond)
	assert.True(t, s.CanStart())
}

func TestSimStopToExitOnStoppedNode(t *testing.T) {
	s := newFastSim(t)
	s.StopToExit()
	assert.True(t, s.ExitRequested(), "nothing to wind down, exit is immediate")
}

func TestSimIgnoresIneligibleCommands(t *testing.T) {
	s := newFastSim(t)
	// Stop while stopped is a no-op.
	s.Stop()
	assert.True(t, s.CanStart())
	assert.False(t, s.ExitRequested())

	s.Start()
	// Redundant start while already starting is a no-op.
	s.Start()
	assert.True(t, s.CanStop())
}

func TestSimSnapshotConsistency(t *testing.T) {
	s := newFastSim(t)
	st := Snapshot(s)
	assert.Equal(t, "Integrated node", st.Title)
	assert.Equal(t, "Stopped", st.Body)
	assert.True(t, st.CanStart)
	assert.False(t, st.CanStop)
	assert.False(t, st.ExitRequested)
}
