package bridge

import (
	"log/slog"
	"sync"

	"github.com/halver/corebridge/internal/core"
	"github.com/halver/corebridge/internal/metrics"
)

// Signal is an inbound command arriving from outside the poll loop
// (notification taps, OS broadcasts, the control API).
type Signal int

const (
	RequestStart Signal = iota
	RequestStop
	RequestStopThenExit
)

func (s Signal) String() string {
	switch s {
	case RequestStart:
		return "start_node"
	case RequestStop:
		return "stop_node"
	case RequestStopThenExit:
		return "stop_to_exit"
	default:
		return "unknown"
	}
}

// ActionRouter forwards inbound signals to the node, one command per signal,
// in arrival order. Eligibility is never checked here: the authoritative
// predicates live in the node, which treats redundant commands as no-ops, so
// a stale tap is forwarded rather than second-guessed. After each forwarded
// command the router requests an out-of-band status refresh.
type ActionRouter struct {
	src     core.StatusSource
	refresh func()
	record  func(Signal)
	logger  *slog.Logger

	sig       chan Signal
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewActionRouter creates a router and starts its dispatch goroutine.
// refresh is called after every forwarded command; record, when non-nil,
// receives each forwarded signal for journaling.
func NewActionRouter(src core.StatusSource, refresh func(), record func(Signal), logger *slog.Logger) *ActionRouter {
	if refresh == nil {
		refresh = func() {}
	}
	if record == nil {
		record = func(Signal) {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &ActionRouter{
		src:     src,
		refresh: refresh,
		record:  record,
		logger:  logger,
		sig:     make(chan Signal, 16),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Submit enqueues a signal for dispatch. Signals are dispatched in submission
// order. Submissions after Close are dropped.
func (r *ActionRouter) Submit(s Signal) {
	select {
	case <-r.quit:
		r.logger.Debug("signal dropped, router closed", slog.String("signal", s.String()))
	case r.sig <- s:
	}
}

func (r *ActionRouter) run() {
	defer close(r.done)
	for {
		select {
		case <-r.quit:
			return
		case s := <-r.sig:
			r.dispatch(s)
		}
	}
}

func (r *ActionRouter) dispatch(s Signal) {
	r.logger.Info("forwarding action to node", slog.String("signal", s.String()))
	switch s {
	case RequestStart:
		r.src.Start()
	case RequestStop:
		r.src.Stop()
	case RequestStopThenExit:
		r.src.StopToExit()
	default:
		r.logger.Warn("unknown signal", slog.Int("signal", int(s)))
		return
	}
	metrics.IncAction(s.String())
	r.record(s)
	r.refresh()
}

// Close stops the dispatch goroutine and waits for it to finish the signal
// currently in flight, if any.
func (r *ActionRouter) Close() {
	r.closeOnce.Do(func() { close(r.quit) })
	<-r.done
}
