package core

// Status is a point-in-time snapshot of the embedded node as seen through the
// StatusSource contract. It is produced fresh on every read and never mutated
// afterwards; consumers compare whole snapshots instead of patching fields.
type Status struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	CanStart      bool   `json:"can_start"`
	CanStop       bool   `json:"can_stop"`
	ExitRequested bool   `json:"exit_requested"`
}

// StatusSource is the narrow contract exposed by the embedded node.
// Queries are cheap and safe to call at any time from any goroutine.
// Commands are fire-and-forget: the node treats redundant calls as no-ops,
// so callers forward them without checking eligibility first.
type StatusSource interface {
	// StatusTitle returns the title line for the status surface.
	StatusTitle() string
	// StatusBody returns the human-readable status line (sync progress etc.).
	StatusBody() string
	// CanStart reports whether a start command would be accepted.
	CanStart() bool
	// CanStop reports whether a stop command would be accepted.
	CanStop() bool
	// ExitRequested reports whether the node has decided the whole
	// application should terminate. Latched true after a stop-to-exit
	// completes; never reset.
	ExitRequested() bool

	// Start launches the node. No-op when already running or starting.
	Start()
	// Stop shuts the node down. No-op when not running.
	Stop()
	// StopToExit shuts the node down and latches the exit flag once
	// the shutdown completes.
	StopToExit()
}

// Snapshot reads all five queries once and packs them into a Status.
func Snapshot(src StatusSource) Status {
	return Status{
		Title:         src.StatusTitle(),
		Body:          src.StatusBody(),
		CanStart:      src.CanStart(),
		CanStop:       src.CanStop(),
		ExitRequested: src.ExitRequested(),
	}
}
