// Package bridge implements the lifecycle and status bridge that keeps an
// embedded node alive under a host-controlled process lifetime: background
// registration, wake guarding, status polling with a diffed notification,
// out-of-band action routing, and deadline-bounded shutdown.
package bridge

import (
	"context"
	"log/slog"
	"time"

	"github.com/halver/corebridge/internal/core"
	"github.com/halver/corebridge/internal/host"
	"github.com/halver/corebridge/internal/journal"
)

const journalSendTimeout = 2 * time.Second

// Options configures a Bridge.
type Options struct {
	Source core.StatusSource
	Host   host.Host
	Logger *slog.Logger
	// PollInterval is the status sampling cadence. Defaults to 1s.
	PollInterval time.Duration
	// ShutdownGrace bounds teardown before the hard-kill fallback. Defaults to 3s.
	ShutdownGrace time.Duration
	// Journal sinks receive lifecycle events. Write-only; send errors are
	// logged and otherwise ignored.
	Journal []journal.Sink
}

// Bridge wires the registry, guard, renderer, poller, router and shutdown
// coordinator around one node and one host.
type Bridge struct {
	src    core.StatusSource
	h      host.Host
	logger *slog.Logger
	sinks  []journal.Sink

	guard       *LifecycleGuard
	renderer    *NotificationRenderer
	registry    *ServiceRegistry
	router      *ActionRouter
	coordinator *ShutdownCoordinator
}

// New assembles a Bridge. The returned bridge is passive until Start.
func New(opts Options) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{
		src:    opts.Source,
		h:      opts.Host,
		logger: logger,
		sinks:  opts.Journal,
	}
	b.guard = NewLifecycleGuard(opts.Host, logger)
	b.renderer = NewNotificationRenderer(opts.Host, logger)
	b.registry = NewServiceRegistry(opts.Host, opts.Source, b.guard, b.renderer, opts.PollInterval, b.onExitRequested, logger)
	b.router = NewActionRouter(opts.Source, b.registry.Refresh, b.recordSignal, logger)
	b.coordinator = NewShutdownCoordinator(opts.Source, opts.ShutdownGrace, b.finalize, logger)
	return b
}

// Start registers the background service. Idempotent.
func (b *Bridge) Start() error {
	if err := b.registry.Start(); err != nil {
		return err
	}
	b.record(journal.EventServiceStart, "")
	return nil
}

// StopService tears the background service down without terminating the
// process. Safe to call when not started.
func (b *Bridge) StopService() {
	if !b.registry.Registered() {
		return
	}
	b.registry.Stop()
	b.record(journal.EventServiceStop, "")
}

// Submit routes an inbound signal to the node.
func (b *Bridge) Submit(s Signal) {
	b.router.Submit(s)
}

// BeginShutdown starts process teardown; every teardown path funnels here.
func (b *Bridge) BeginShutdown(reason ShutdownReason) {
	b.coordinator.Begin(reason)
}

// Status returns a fresh node snapshot.
func (b *Bridge) Status() core.Status {
	return core.Snapshot(b.src)
}

// Registered reports whether the background service is running.
func (b *Bridge) Registered() bool {
	return b.registry.Registered()
}

// ShutdownState reports teardown progress.
func (b *Bridge) ShutdownState() ShutdownState {
	return b.coordinator.State()
}

// Done is closed once teardown has fully completed.
func (b *Bridge) Done() <-chan struct{} {
	return b.coordinator.Done()
}

// Close releases the bridge for embedders that never go through process
// shutdown (tests, short-lived tools). It stops the service and the router
// but does not terminate the process.
func (b *Bridge) Close() {
	b.StopService()
	b.router.Close()
}

// onExitRequested runs once, from the poll goroutine, when the node's exit
// flag is first observed.
func (b *Bridge) onExitRequested() {
	b.record(journal.EventExitRequest, "")
	b.coordinator.Begin(ReasonExitRequested)
}

// finalize is the terminal action of the shutdown race: release everything
// and hand the process to the host for termination.
func (b *Bridge) finalize(path TerminationPath) {
	if path == PathDeadline {
		b.record(journal.EventShutdownDeadline, "")
	} else {
		b.record(journal.EventShutdownGraceful, "")
	}
	b.registry.Stop()
	b.router.Close()
	b.h.Terminate()
}

func (b *Bridge) recordSignal(s Signal) {
	switch s {
	case RequestStart:
		b.record(journal.EventNodeStart, "")
	case RequestStop:
		b.record(journal.EventNodeStop, "")
	case RequestStopThenExit:
		b.record(journal.EventNodeStopExit, "")
	}
}

func (b *Bridge) record(t journal.EventType, detail string) {
	if len(b.sinks) == 0 {
		return
	}
	evt := journal.Event{Type: t, OccurredAt: time.Now().UTC(), Detail: detail}
	ctx, cancel := context.WithTimeout(context.Background(), journalSendTimeout)
	defer cancel()
	for _, s := range b.sinks {
		if err := s.Send(ctx, evt); err != nil {
			b.logger.Debug("journal send failed", slog.Any("error", err))
		}
	}
}
