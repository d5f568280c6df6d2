package bridge

import (
	"log/slog"
	"sync"

	"github.com/halver/corebridge/internal/host"
	"github.com/halver/corebridge/internal/metrics"
)

// LifecycleGuard owns the wake-preventing resource. Acquire and Release are
// idempotent so that release can sit on every teardown path without
// double-release hazards; at most one lease is held at any time.
type LifecycleGuard struct {
	h      host.Host
	logger *slog.Logger

	mu   sync.Mutex
	held bool
}

func NewLifecycleGuard(h host.Host, logger *slog.Logger) *LifecycleGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &LifecycleGuard{h: h, logger: logger}
}

// Acquire obtains the wake resource. No-op when already held.
func (g *LifecycleGuard) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held {
		return nil
	}
	if err := g.h.AcquireWakeResource(); err != nil {
		return err
	}
	g.held = true
	metrics.SetWakeHeld(true)
	g.logger.Debug("wake resource acquired")
	return nil
}

// Release returns the wake resource. No-op when not held.
func (g *LifecycleGuard) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.held {
		return
	}
	g.h.ReleaseWakeResource()
	g.held = false
	metrics.SetWakeHeld(false)
	g.logger.Debug("wake resource released")
}

// Held reports whether the wake resource is currently held.
func (g *LifecycleGuard) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.held
}
