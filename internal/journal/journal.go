package journal

import (
	"context"
	"time"
)

// EventType defines the kind of lifecycle event.
type EventType string

const (
	EventServiceStart     EventType = "service_start"
	EventServiceStop      EventType = "service_stop"
	EventNodeStart        EventType = "node_start"
	EventNodeStop         EventType = "node_stop"
	EventNodeStopExit     EventType = "node_stop_exit"
	EventExitRequest      EventType = "exit_request"
	EventShutdownGraceful EventType = "shutdown_graceful"
	EventShutdownDeadline EventType = "shutdown_deadline"
)

// Event represents a lifecycle transition to be exported for auditing.
// The journal is write-only: nothing in the bridge reads events back, so all
// control-plane state is still re-derived from the node on each run.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Detail     string    `json:"detail,omitempty"`
}

// Sink is a destination for journal events.
// Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
}
