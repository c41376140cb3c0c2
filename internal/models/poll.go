package models

import "time"

// Cursor keys in the key/value table.
const (
	CursorKeyLastPolledEnd      = "last_polled_end_utc"
	CursorKeyBootstrapCompleted = "bootstrap_completed"
)

// PollMode is the window strategy chosen for a cycle.
type PollMode string

const (
	PollModeBootstrap PollMode = "bootstrap"
	PollModeDelta     PollMode = "delta"
)

// Cursor is the durable ingestion progress marker.
type Cursor struct {
	LastPolledEnd      *time.Time `json:"last_polled_end,omitempty"`
	BootstrapCompleted bool       `json:"bootstrap_completed"`
}

// PollWindow is the half-open range [Start, End) fetched by one cycle.
type PollWindow struct {
	Mode  PollMode  `json:"mode"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PollSummary describes a completed poll cycle. Used for observability only.
type PollSummary struct {
	CycleID    string    `json:"cycle_id"`
	Mode       PollMode  `json:"mode"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Fetched    int       `json:"fetched"`
	Inserted   int       `json:"inserted"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
} // @name PollSummary
