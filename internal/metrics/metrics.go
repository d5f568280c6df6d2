package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	pollTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "corebridge",
			Subsystem: "bridge",
			Name:      "poll_ticks_total",
			Help:      "Number of completed status poll ticks.",
		},
	)
	notificationUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "corebridge",
			Subsystem: "bridge",
			Name:      "notification_updates_total",
			Help:      "Number of notification updates actually issued to the host.",
		},
	)
	routedActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corebridge",
			Subsystem: "bridge",
			Name:      "actions_total",
			Help:      "Number of inbound action signals forwarded to the node.",
		}, []string{"action"},
	)
	shutdowns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "corebridge",
			Subsystem: "bridge",
			Name:      "shutdowns_total",
			Help:      "Number of terminal shutdowns by completion path (graceful or deadline).",
		}, []string{"path"},
	)
	serviceRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "corebridge",
			Subsystem: "bridge",
			Name:      "service_registered",
			Help:      "Whether the background unit is currently registered (1) or not (0).",
		},
	)
	wakeHeld = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "corebridge",
			Subsystem: "bridge",
			Name:      "wake_resource_held",
			Help:      "Whether the wake-preventing resource is currently held (1) or not (0).",
		},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{pollTicks, notificationUpdates, routedActions, shutdowns, serviceRegistered, wakeHeld}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
// The caller is responsible for starting an HTTP server and wiring the route.
func Handler() http.Handler { return promhttp.Handler() }

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncPollTick() {
	if regOK.Load() {
		pollTicks.Inc()
	}
}

func IncNotificationUpdate() {
	if regOK.Load() {
		notificationUpdates.Inc()
	}
}

func IncAction(action string) {
	if regOK.Load() {
		routedActions.WithLabelValues(action).Inc()
	}
}

func IncShutdown(path string) {
	if regOK.Load() {
		shutdowns.WithLabelValues(path).Inc()
	}
}

func SetServiceRegistered(v bool) {
	if regOK.Load() {
		serviceRegistered.Set(boolGauge(v))
	}
}

func SetWakeHeld(v bool) {
	if regOK.Load() {
		wakeHeld.Set(boolGauge(v))
	}
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
