package bridge

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/halver/corebridge/internal/core"
	"github.com/halver/corebridge/internal/metrics"
)

// ShutdownState tracks progress through teardown.
type ShutdownState int32

const (
	ShutdownRunning ShutdownState = iota
	ShutdownStopRequested
	ShutdownConfirmed
	ShutdownDeadlineExpired
	ShutdownTerminated
)

func (s ShutdownState) String() string {
	switch s {
	case ShutdownRunning:
		return "running"
	case ShutdownStopRequested:
		return "stop_requested"
	case ShutdownConfirmed:
		return "confirmed"
	case ShutdownDeadlineExpired:
		return "deadline_expired"
	case ShutdownTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ShutdownReason records which path initiated teardown.
type ShutdownReason string

const (
	ReasonHostDestroying ShutdownReason = "host_destroying"
	ReasonExitRequested  ShutdownReason = "exit_requested"
	ReasonSignal         ShutdownReason = "signal"
)

// TerminationPath records which of the two racers performed the terminal action.
type TerminationPath string

const (
	PathGraceful TerminationPath = "graceful"
	PathDeadline TerminationPath = "deadline"
)

// DefaultShutdownGrace bounds how long a stopping node may delay process
// exit before the hard-kill fallback fires. A policy constant.
const DefaultShutdownGrace = 3 * time.Second

const confirmPollInterval = 25 * time.Millisecond

// ShutdownCoordinator orchestrates teardown: signal the node to stop, arm a
// one-shot deadline, and let graceful confirmation and deadline expiry race
// to perform the terminal action exactly once. The loser's arrival is a
// no-op, and Begin cannot re-arm once called.
type ShutdownCoordinator struct {
	src      core.StatusSource
	grace    time.Duration
	finalize func(TerminationPath)
	logger   *slog.Logger

	state    atomic.Int32
	begun    atomic.Bool
	fireOnce sync.Once
	done     chan struct{}
}

// NewShutdownCoordinator creates a coordinator. finalize performs the terminal
// action (release resources, terminate the process); it is invoked at most
// once, from either the confirmation goroutine or the deadline timer.
func NewShutdownCoordinator(src core.StatusSource, grace time.Duration, finalize func(TerminationPath), logger *slog.Logger) *ShutdownCoordinator {
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}
	if finalize == nil {
		finalize = func(TerminationPath) {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ShutdownCoordinator{
		src:      src,
		grace:    grace,
		finalize: finalize,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Begin starts teardown. The first call wins; later calls from other
// teardown paths are no-ops. Begin itself is quick: the stop command is
// forwarded, the deadline armed, and confirmation watched from a separate
// goroutine.
func (c *ShutdownCoordinator) Begin(reason ShutdownReason) {
	if !c.begun.CompareAndSwap(false, true) {
		return
	}
	c.logger.Info("shutdown requested",
		slog.String("reason", string(reason)),
		slog.Duration("grace", c.grace))
	c.state.Store(int32(ShutdownStopRequested))
	if c.src.CanStop() {
		c.src.Stop()
	}
	timer := time.AfterFunc(c.grace, func() {
		c.fire(ShutdownDeadlineExpired, PathDeadline)
	})
	go c.awaitConfirmation(timer)
}

// awaitConfirmation polls the node until it confirms a completed stop, then
// races the deadline to the terminal action.
func (c *ShutdownCoordinator) awaitConfirmation(deadline *time.Timer) {
	t := time.NewTicker(confirmPollInterval)
	defer t.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-t.C:
			if c.stopConfirmed() {
				deadline.Stop()
				c.fire(ShutdownConfirmed, PathGraceful)
				return
			}
		}
	}
}

// stopConfirmed reports whether the node has fully wound down: no longer
// stoppable and startable again. A node stuck mid-transition (both
// predicates false) is not confirmed and is left to the deadline.
func (c *ShutdownCoordinator) stopConfirmed() bool {
	return !c.src.CanStop() && c.src.CanStart()
}

func (c *ShutdownCoordinator) fire(terminal ShutdownState, path TerminationPath) {
	c.fireOnce.Do(func() {
		c.state.Store(int32(terminal))
		metrics.IncShutdown(string(path))
		if path == PathDeadline {
			c.logger.Warn("node did not confirm stop before deadline, hard-terminating")
		} else {
			c.logger.Info("node confirmed graceful stop")
		}
		c.finalize(path)
		c.state.Store(int32(ShutdownTerminated))
		close(c.done)
	})
}

// State returns the coordinator's current state.
func (c *ShutdownCoordinator) State() ShutdownState {
	return ShutdownState(c.state.Load())
}

// Done is closed after the terminal action has completed.
func (c *ShutdownCoordinator) Done() <-chan struct{} {
	return c.done
}
