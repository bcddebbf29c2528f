package models

import "time"

// QueuedRequest is a state-changing request captured while offline,
// replayed FIFO when connectivity returns.
type QueuedRequest struct {
	ID       string    `json:"id"`
	QueuedAt time.Time `json:"queued_at"`
	Method   string    `json:"method"` // POST | PUT
	Path     string    `json:"path"`   // remote endpoint path, e.g. /chat
	Body     string    `json:"body"`   // JSON payload as sent
	Attempts int       `json:"attempts"`
}

// Gateway connectivity states.
const (
	GatewayOnline   = "online"
	GatewayOffline  = "offline"
	GatewayRetrying = "retrying"
)

// SyncStatus reports the gateway's view of the world.
type SyncStatus struct {
	State        string     `json:"state"` // online | offline | retrying
	QueueDepth   int        `json:"queue_depth"`
	LastOnlineAt *time.Time `json:"last_online_at,omitempty"`
}
