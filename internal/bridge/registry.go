package bridge

import (
	"log/slog"
	"sync"
	"time"

	"github.com/halver/corebridge/internal/core"
	"github.com/halver/corebridge/internal/host"
	"github.com/halver/corebridge/internal/metrics"
)

// ServiceRegistry owns the background-unit registration: at most one live
// registration exists at a time, Start is idempotent, and Stop is safe to
// call when not registered. Acquisition order is registration first, guard
// second, so a host refusal never leaves a half-acquired wake lease behind.
type ServiceRegistry struct {
	h        host.Host
	src      core.StatusSource
	guard    *LifecycleGuard
	renderer *NotificationRenderer
	interval time.Duration
	onExit   func()
	logger   *slog.Logger

	mu            sync.Mutex
	registered    bool
	poller        *StatusPoller
	refusedLogged bool
}

func NewServiceRegistry(h host.Host, src core.StatusSource, guard *LifecycleGuard, renderer *NotificationRenderer, interval time.Duration, onExit func(), logger *slog.Logger) *ServiceRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceRegistry{
		h:        h,
		src:      src,
		guard:    guard,
		renderer: renderer,
		interval: interval,
		onExit:   onExit,
		logger:   logger,
	}
}

// Start registers the background unit, acquires the wake guard, shows the
// initial notification and launches the poll loop. Calling it while already
// registered is a no-op.
func (s *ServiceRegistry) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registered {
		return nil
	}
	if err := s.h.RegisterBackgroundUnit(); err != nil {
		// Degraded-but-functional: the app keeps running without
		// background survivability. Reported once.
		if !s.refusedLogged {
			s.logger.Error("host refused background registration", slog.Any("error", err))
			s.refusedLogged = true
		}
		return err
	}
	if err := s.guard.Acquire(); err != nil {
		s.h.UnregisterBackgroundUnit()
		s.logger.Error("wake resource unavailable", slog.Any("error", err))
		return err
	}
	s.renderer.Activate()
	if err := s.renderer.Update(core.Snapshot(s.src)); err != nil {
		s.logger.Warn("initial notification failed", slog.Any("error", err))
	}
	p := NewStatusPoller(s.src, s.renderer, s.interval, s.onExit, s.logger)
	s.poller = p
	go p.Run()
	s.registered = true
	metrics.SetServiceRegistered(true)
	s.logger.Info("background service started", slog.Duration("poll_interval", s.interval))
	return nil
}

// Stop tears down in reverse order: poll loop, notification, wake guard,
// registration. No-op when not registered. The lock is held for the whole
// teardown so a concurrent Start observes either the fully registered or the
// fully released state, never a half-torn-down one; the poll goroutine never
// takes s.mu, so waiting for it under the lock cannot deadlock.
func (s *ServiceRegistry) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.registered {
		return
	}
	s.registered = false
	p := s.poller
	s.poller = nil

	if p != nil {
		p.Stop()
	}
	s.renderer.Deactivate()
	s.guard.Release()
	s.h.UnregisterBackgroundUnit()
	metrics.SetServiceRegistered(false)
	s.logger.Info("background service stopped")
}

// Refresh renders the current node status out of band. No-op when the
// service is not running.
func (s *ServiceRegistry) Refresh() {
	s.mu.Lock()
	p := s.poller
	s.mu.Unlock()
	if p != nil {
		p.Refresh()
	}
}

// Registered reports whether the background unit is currently registered.
func (s *ServiceRegistry) Registered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registered
}
