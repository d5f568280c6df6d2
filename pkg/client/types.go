package client

// NodeStatus is the status block of a /status response.
type NodeStatus struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	CanStart      bool   `json:"can_start"`
	CanStop       bool   `json:"can_stop"`
	ExitRequested bool   `json:"exit_requested"`
}

// StatusResponse is the full /status payload.
type StatusResponse struct {
	Status     NodeStatus `json:"status"`
	Registered bool       `json:"registered"`
	Shutdown   string     `json:"shutdown"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
