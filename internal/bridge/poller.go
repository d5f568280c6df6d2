package bridge

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/halver/corebridge/internal/core"
	"github.com/halver/corebridge/internal/metrics"
)

// PollerState describes where the poll loop currently is.
type PollerState int32

const (
	PollerIdle PollerState = iota
	PollerPolling
	PollerStopped
)

func (s PollerState) String() string {
	switch s {
	case PollerIdle:
		return "idle"
	case PollerPolling:
		return "polling"
	case PollerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// DefaultPollInterval is the cadence between status samples. A policy
// constant, not a correctness requirement.
const DefaultPollInterval = time.Second

// StatusPoller samples the node on a fixed cadence and pushes each snapshot
// through the renderer. A single goroutine runs the loop and re-arms the
// timer only after a tick fully completes, so ticks are never pipelined even
// when a host notification call is slow. Stopping is cooperative: the quit
// signal is checked at the top of each tick, never mid-tick.
type StatusPoller struct {
	src      core.StatusSource
	renderer *NotificationRenderer
	interval time.Duration
	onExit   func()
	logger   *slog.Logger

	state    atomic.Int32
	exitOnce sync.Once
	stopOnce sync.Once
	quit     chan struct{}
	done     chan struct{}
}

// NewStatusPoller creates a poller. onExit is invoked exactly once, from the
// poll goroutine, when the node's exit_requested flag is first observed true;
// it must not block on the poller itself.
func NewStatusPoller(src core.StatusSource, renderer *NotificationRenderer, interval time.Duration, onExit func(), logger *slog.Logger) *StatusPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if onExit == nil {
		onExit = func() {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusPoller{
		src:      src,
		renderer: renderer,
		interval: interval,
		onExit:   onExit,
		logger:   logger,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run executes the poll loop until Stop is called or the node requests exit.
// It blocks; callers run it in a goroutine.
func (p *StatusPoller) Run() {
	defer close(p.done)
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	for {
		select {
		case <-p.quit:
			p.state.Store(int32(PollerStopped))
			return
		case <-timer.C:
		}
		if !p.tick() {
			return
		}
		// Re-arm only after the tick (including the host update call)
		// has completed.
		timer.Reset(p.interval)
	}
}

// tick samples the node once and renders. Returns false when the loop must
// stop scheduling further ticks.
func (p *StatusPoller) tick() bool {
	p.state.Store(int32(PollerPolling))
	st := core.Snapshot(p.src)
	if err := p.renderer.Update(st); err != nil {
		p.logger.Warn("notification update failed", slog.Any("error", err))
	}
	metrics.IncPollTick()
	if st.ExitRequested {
		p.state.Store(int32(PollerStopped))
		p.logger.Info("node requested application exit")
		p.exitOnce.Do(p.onExit)
		return false
	}
	p.state.Store(int32(PollerIdle))
	return true
}

// Refresh renders the current node status immediately, without waiting for
// the next scheduled tick. Serialized against in-flight ticks by the
// renderer's single-writer discipline.
func (p *StatusPoller) Refresh() {
	st := core.Snapshot(p.src)
	if err := p.renderer.Update(st); err != nil {
		p.logger.Warn("notification refresh failed", slog.Any("error", err))
	}
}

// Stop requests a cooperative stop and waits for the loop to finish its
// current tick, if any.
func (p *StatusPoller) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	<-p.done
}

// State returns the poller's current state.
func (p *StatusPoller) State() PollerState {
	return PollerState(p.state.Load())
}
