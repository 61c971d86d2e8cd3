package models

import "time"

// GateStatus is the outcome of a review-gate decision. No other outcome is
// representable.
type GateStatus string

const (
	GateApproved         GateStatus = "approved"
	GateRevisionRequired GateStatus = "revision_required"
	GatePaused           GateStatus = "paused"
)

// WorkerResult is the structured result a worker returns for one task.
// GateStatus is set only for review-gate tasks.
type WorkerResult struct {
	Output          string         `json:"output"`
	Files           []string       `json:"files,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Issues          []string       `json:"issues,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	GateStatus      GateStatus     `json:"gate_status,omitempty"`
	Payload         map[string]any `json:"payload,omitempty"`
}

// Report is an immutable audit record of one delegation outcome. Reports are
// append-only, one file per report, owned by the context store.
type Report struct {
	Worker          string         `json:"worker"`
	TaskID          string         `json:"task_id"`
	TaskTitle       string         `json:"task_title"`
	Summary         string         `json:"summary"`
	Files           []string       `json:"files,omitempty"`
	Issues          []string       `json:"issues,omitempty"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Payload         map[string]any `json:"payload,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// DecisionRecord is an immutable record of a project-level decision,
// numbered sequentially within a date.
type DecisionRecord struct {
	Title        string    `json:"title"`
	Background   string    `json:"background"`
	Decision     string    `json:"decision"`
	Rationale    string    `json:"rationale"`
	Consequences string    `json:"consequences"`
	Date         time.Time `json:"date"`
}
