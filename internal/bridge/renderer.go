package bridge

import (
	"log/slog"
	"sync"

	"github.com/halver/corebridge/internal/core"
	"github.com/halver/corebridge/internal/host"
	"github.com/halver/corebridge/internal/metrics"
)

// NotificationRenderer owns the single persistent status notification.
// Update is the only writer of notification state and is serialized by a
// mutex: scheduled poll ticks and router-triggered refreshes both funnel
// through it, never interleaving host calls.
type NotificationRenderer struct {
	h      host.Host
	logger *slog.Logger

	mu         sync.Mutex
	active     bool
	rendered   bool
	lastBody   string
	lastAction host.Action
}

func NewNotificationRenderer(h host.Host, logger *slog.Logger) *NotificationRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationRenderer{h: h, logger: logger}
}

// Activate enables rendering. Called when the service registers; until then
// (and after Deactivate) Update is a no-op so stray refreshes cannot surface
// a notification for an unregistered service.
func (r *NotificationRenderer) Activate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = true
	r.rendered = false
	r.lastBody = ""
	r.lastAction = host.ActionNone
}

// Deactivate disables rendering and removes the notification from the host.
func (r *NotificationRenderer) Deactivate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	r.active = false
	r.rendered = false
	r.h.CancelNotification()
}

// Update re-renders the notification for the given status. The host call is
// only issued when the body text or the action set actually changed since the
// last render; unchanged status is free.
func (r *NotificationRenderer) Update(st core.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return nil
	}
	action := r.actionFor(st)
	if r.rendered && st.Body == r.lastBody && action == r.lastAction {
		return nil
	}
	err := r.h.PostOrUpdateNotification(host.Notification{
		Title:  st.Title,
		Body:   st.Body,
		Action: action,
	})
	if err != nil {
		return err
	}
	r.rendered = true
	r.lastBody = st.Body
	r.lastAction = action
	metrics.IncNotificationUpdate()
	return nil
}

// actionFor derives the action set from the eligibility predicates. The node
// never reports both predicates true; if it does, that is a contract
// violation worth surfacing, and the start action wins.
func (r *NotificationRenderer) actionFor(st core.Status) host.Action {
	if st.CanStart && st.CanStop {
		r.logger.Warn("node reports can_start and can_stop simultaneously",
			slog.String("body", st.Body))
	}
	switch {
	case st.CanStart:
		return host.ActionStart
	case st.CanStop:
		return host.ActionStop
	default:
		return host.ActionNone
	}
}
