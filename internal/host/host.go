package host

// Action identifies the single control exposed on the status notification.
type Action string

const (
	ActionNone  Action = "none"
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

// Notification is the content of the persistent status notification.
type Notification struct {
	Title  string
	Body   string
	Action Action
}

// Host abstracts the operating environment that owns process lifecycle,
// notifications and background-execution permissions. All calls are short
// and may be treated as blocking-but-fast.
type Host interface {
	// RegisterBackgroundUnit asks the host to keep the process alive while
	// the foreground UI is absent. Returns an error when the host refuses
	// (e.g. a missing permission).
	RegisterBackgroundUnit() error
	// UnregisterBackgroundUnit withdraws the registration. Safe to call
	// when not registered.
	UnregisterBackgroundUnit()

	// AcquireWakeResource obtains a lease preventing the host from
	// suspending CPU execution.
	AcquireWakeResource() error
	// ReleaseWakeResource returns the lease. Safe to call when not held.
	ReleaseWakeResource()

	// PostOrUpdateNotification creates or replaces the single persistent
	// status notification.
	PostOrUpdateNotification(n Notification) error
	// CancelNotification removes the status notification if present.
	CancelNotification()

	// Terminate hard-terminates the hosting process. Does not return in
	// production implementations.
	Terminate()
}
