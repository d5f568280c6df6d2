package core

import (
	"fmt"
	"sync"
	"time"
)

type simState int

const (
	simStopped simState = iota
	simStarting
	simSyncing
	simRunning
	simStopping
)

// Sync phases walked by the simulated node between start and steady state.
const (
	phaseAwaitPeers = iota
	phaseHeaders
	phaseChainState
	phaseKernels
	phaseBlocks
	phaseCount
)

const pctStep = 20

// SimConfig configures the simulated node.
type SimConfig struct {
	Title        string        // status title; default "Integrated node"
	StepInterval time.Duration // time between state machine steps; default 200ms
}

// Sim is a StatusSource implementation that emulates an embedded full node:
// a start command walks it through the sync phases of a real node before it
// settles into a running state, and a stop command winds it down through a
// shutdown phase. Commands arriving in ineligible states are no-ops, which is
// the authoritative-eligibility contract the bridge relies on.
type Sim struct {
	title string
	step  time.Duration

	mu        sync.Mutex
	state     simState
	phase     int
	pct       int
	exitAfter bool
	exit      bool

	quit chan struct{}
	done chan struct{}
}

// NewSim creates a simulated node and starts its internal state machine.
// Call Close when done to stop the background loop.
func NewSim(cfg SimConfig) *Sim {
	if cfg.Title == "" {
		cfg.Title = "Integrated node"
	}
	if cfg.StepInterval <= 0 {
		cfg.StepInterval = 200 * time.Millisecond
	}
	s := &Sim{
		title: cfg.Title,
		step:  cfg.StepInterval,
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// Close stops the internal state machine loop.
func (s *Sim) Close() {
	select {
	case <-s.quit:
	default:
		close(s.quit)
	}
	<-s.done
}

func (s *Sim) run() {
	defer close(s.done)
	t := time.NewTicker(s.step)
	defer t.Stop()
	for {
		select {
		case <-s.quit:
			return
		case <-t.C:
			s.advance()
		}
	}
}

// advance moves the state machine one step forward.
func (s *Sim) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case simStarting:
		s.state = simSyncing
		s.phase = phaseAwaitPeers
		s.pct = 0
	case simSyncing:
		if s.phase == phaseAwaitPeers {
			s.phase = phaseHeaders
			s.pct = 0
			return
		}
		s.pct += pctStep
		if s.pct >= 100 {
			s.pct = 0
			s.phase++
			if s.phase >= phaseCount {
				s.state = simRunning
			}
		}
	case simStopping:
		s.state = simStopped
		if s.exitAfter {
			s.exit = true
		}
	}
}

func (s *Sim) StatusTitle() string { return s.title }

func (s *Sim) StatusBody() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case simStarting:
		return "Initializing"
	case simSyncing:
		switch s.phase {
		case phaseAwaitPeers:
			return "Waiting for peers"
		case phaseHeaders:
			return fmt.Sprintf("Downloading headers: %d%%", s.pct)
		case phaseChainState:
			return fmt.Sprintf("Downloading chain state: %d%%", s.pct)
		case phaseKernels:
			return fmt.Sprintf("Validating state - kernels: %d%%", s.pct)
		case phaseBlocks:
			return fmt.Sprintf("Downloading blocks: %d%%", s.pct)
		}
		return "Syncing"
	case simRunning:
		return "Running"
	case simStopping:
		return "Shutting down"
	default:
		return "Stopped"
	}
}

func (s *Sim) CanStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == simStopped
}

func (s *Sim) CanStop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == simStarting || s.state == simSyncing || s.state == simRunning
}

func (s *Sim) ExitRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exit
}

func (s *Sim) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != simStopped {
		return
	}
	s.state = simStarting
	s.exitAfter = false
}

func (s *Sim) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(false)
}

func (s *Sim) StopToExit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(true)
}

func (s *Sim) stopLocked(exitAfter bool) {
	switch s.state {
	case simStopped:
		if exitAfter {
			// Nothing to wind down; the exit decision takes effect at once.
			s.exit = true
		}
	case simStopping:
		if exitAfter {
			s.exitAfter = true
		}
	default:
		s.state = simStopping
		s.exitAfter = exitAfter
	}
}
