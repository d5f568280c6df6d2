package bridge

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(h *fakeHost, src *fakeSource) *ServiceRegistry {
	g := NewLifecycleGuard(h, testLogger())
	r := NewNotificationRenderer(h, testLogger())
	return NewServiceRegistry(h, src, g, r, 10*time.Millisecond, nil, testLogger())
}

func TestRegistryStartIsIdempotent(t *testing.T) {
	h := newFakeHost()
	src := newFakeSource()
	reg := newTestRegistry(h, src)
	defer reg.Stop()

	require.NoError(t, reg.Start())
	require.NoError(t, reg.Start())

	h.mu.Lock()
	registers := h.registers
	h.mu.Unlock()
	assert.Equal(t, 1, registers, "second start must not re-register")
	assert.True(t, reg.Registered())
	assert.True(t, h.isWakeHeld())
}

func TestRegistryStartShowsInitialNotification(t *testing.T) {
	h := newFakeHost()
	src := newFakeSource()
	src.set(func(f *fakeSource) { f.body = "Waiting for peers" })
	reg := newTestRegistry(h, src)
	defer reg.Stop()

	require.NoError(t, reg.Start())
	posted := h.posted()
	require.NotEmpty(t, posted, "notification must be visible immediately, not after the first tick")
	assert.Equal(t, "Waiting for peers", posted[0].Body)
}

func TestRegistryHostRefusalLeavesNothingAcquired(t *testing.T) {
	h := newFakeHost()
	h.registerErr = errors.New("background execution not permitted")
	src := newFakeSource()
	reg := newTestRegistry(h, src)

	require.Error(t, reg.Start())
	assert.False(t, reg.Registered())
	assert.False(t, h.isWakeHeld(), "registration failed before the guard, nothing to hold")
	assert.Equal(t, 0, h.postedCount())

	// Stop while never registered is a no-op.
	reg.Stop()
	h.mu.Lock()
	unregisters := h.unregisters
	h.mu.Unlock()
	assert.Equal(t, 0, unregisters)
}

func TestRegistryWakeFailureRollsBackRegistration(t *testing.T) {
	h := newFakeHost()
	h.wakeErr = errors.New("wake resource denied")
	src := newFakeSource()
	reg := newTestRegistry(h, src)

	require.Error(t, reg.Start())
	assert.False(t, reg.Registered())
	assert.False(t, h.isRegistered(), "failed start must not leave a live registration")
}

func TestRegistryStopReleasesEverything(t *testing.T) {
	h := newFakeHost()
	src := newFakeSource()
	reg := newTestRegistry(h, src)

	require.NoError(t, reg.Start())
	reg.Stop()

	assert.False(t, reg.Registered())
	assert.False(t, h.isRegistered())
	assert.False(t, h.isWakeHeld())
	h.mu.Lock()
	cancels := h.cancels
	h.mu.Unlock()
	assert.Equal(t, 1, cancels)

	// Double stop is safe.
	reg.Stop()
}

func TestRegistryRestartAfterStop(t *testing.T) {
	h := newFakeHost()
	src := newFakeSource()
	reg := newTestRegistry(h, src)

	require.NoError(t, reg.Start())
	reg.Stop()
	require.NoError(t, reg.Start())
	defer reg.Stop()

	assert.True(t, reg.Registered())
	require.Eventually(t, func() bool { return h.postedCount() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestRegistryStopStartRaceKeepsAcquisitionPaired(t *testing.T) {
	h := newFakeHost()
	src := newFakeSource()
	reg := newTestRegistry(h, src)
	require.NoError(t, reg.Start())

	// Park the next render inside the host call so Stop blocks waiting for
	// the poll goroutine while another caller tries to Start.
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	h.mu.Lock()
	h.postHook = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}
	h.mu.Unlock()
	src.set(func(f *fakeSource) { f.body = "Downloading headers: 10%" })

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("poller never delivered the changed status")
	}

	stopDone := make(chan struct{})
	go func() {
		reg.Stop()
		close(stopDone)
	}()
	time.Sleep(50 * time.Millisecond)

	startErr := make(chan error, 1)
	go func() { startErr <- reg.Start() }()
	time.Sleep(50 * time.Millisecond)

	close(release)
	select {
	case <-stopDone:
	case <-time.After(time.Second):
		t.Fatal("stop never finished")
	}
	require.NoError(t, <-startErr)
	defer reg.Stop()

	// The restart behind the in-flight Stop must come up whole: registered
	// with the host and holding the wake guard, never a mix.
	assert.True(t, reg.Registered())
	assert.True(t, h.isRegistered(), "registered service must be registered with the host")
	assert.True(t, h.isWakeHeld(), "registered service must hold the wake guard")
}

func TestRegistryRefreshWithoutStartIsNoop(t *testing.T) {
	h := newFakeHost()
	reg := newTestRegistry(h, newFakeSource())

	reg.Refresh()
	assert.Equal(t, 0, h.postedCount())
}
