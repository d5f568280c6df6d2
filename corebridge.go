package corebridge

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/halver/corebridge/internal/bridge"
	cfg "github.com/halver/corebridge/internal/config"
	"github.com/halver/corebridge/internal/core"
	"github.com/halver/corebridge/internal/host"
	"github.com/halver/corebridge/internal/journal"
	"github.com/halver/corebridge/internal/journal/factory"
	"github.com/halver/corebridge/internal/metrics"
	iapi "github.com/halver/corebridge/internal/server"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Status = core.Status

type StatusSource = core.StatusSource

type Host = host.Host

type Notification = host.Notification

type Action = host.Action

const (
	ActionNone  = host.ActionNone
	ActionStart = host.ActionStart
	ActionStop  = host.ActionStop
)

type Signal = bridge.Signal

const (
	RequestStart        = bridge.RequestStart
	RequestStop         = bridge.RequestStop
	RequestStopThenExit = bridge.RequestStopThenExit
)

type ShutdownReason = bridge.ShutdownReason

const (
	ReasonHostDestroying = bridge.ReasonHostDestroying
	ReasonExitRequested  = bridge.ReasonExitRequested
	ReasonSignal         = bridge.ReasonSignal
)

type ShutdownState = bridge.ShutdownState

type Bridge = bridge.Bridge

type Options = bridge.Options

type JournalSink = journal.Sink

type JournalEvent = journal.Event

// New assembles a Bridge from options. The bridge is passive until Start.
func New(opts Options) *Bridge { return bridge.New(opts) }

// NewSimNode creates the built-in simulated node, useful for embedding the
// bridge without a real node behind it.
func NewSimNode(title string, stepInterval time.Duration) *core.Sim {
	return core.NewSim(core.SimConfig{Title: title, StepInterval: stepInterval})
}

// NewLocalHost creates a headless host whose notification is logged and
// optionally mirrored to statusPath. exit overrides process termination;
// pass nil for os.Exit.
func NewLocalHost(statusPath string, exit func(code int)) *host.Local {
	return host.NewLocal(host.LocalConfig{StatusPath: statusPath, Exit: exit})
}

// NewJournalSink creates a journal sink from a DSN
// (sqlite path, postgres:// or clickhouse:// URL).
func NewJournalSink(dsn string) (journal.Sink, error) {
	return factory.NewSinkFromDSN(dsn)
}

type Config = cfg.Config

// LoadConfig reads a TOML config file, merged over defaults.
func LoadConfig(path string) (Config, error) { return cfg.Load(path) }

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config { return cfg.Default() }

// NewHTTPServer starts the HTTP control API for the given bridge.
func NewHTTPServer(addr, basePath string, b *Bridge) (*http.Server, error) {
	return iapi.NewServer(addr, basePath, b)
}

// NewHTTPHandler returns the control API as an http.Handler for mounting in
// an existing server or mux.
func NewHTTPHandler(basePath string, b *Bridge) http.Handler {
	return iapi.NewRouter(b, basePath).Handler()
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// ServeMetrics starts an HTTP server on addr exposing /metrics using the
// default registry. It blocks in the caller goroutine.
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
