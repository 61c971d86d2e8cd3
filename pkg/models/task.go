package models

import "time"

// TaskStatus represents the current lifecycle state of a WBS task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusBlocked    TaskStatus = "blocked"
)

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Phase labels for the document-driven workflow. PhaseGate is the review
// gate that must be approved before any later phase may start.
const (
	PhaseRequirements = "Phase 1"
	PhaseDesign       = "Phase 2"
	PhaseGate         = "Phase 2.5"
	PhaseBuild        = "Phase 3"
)

// Blocker records one reason a task entered the blocked state.
type Blocker struct {
	Reason string    `json:"reason"`
	Time   time.Time `json:"time"`
}

// Task is a unit of work in the work-breakdown structure. Tasks are created
// in bulk by the orchestrator during task generation and mutated only
// through WBS store operations; they are never deleted, only marked
// completed or blocked.
type Task struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Phase          string         `json:"phase"`
	Priority       Priority       `json:"priority"`
	Status         TaskStatus     `json:"status"`
	Deliverable    string         `json:"deliverable,omitempty"`
	Template       string         `json:"template,omitempty"`
	ReviewRequired bool           `json:"review_required"`
	IsGate         bool           `json:"is_gate,omitempty"`
	DependsOn      []string       `json:"depends_on,omitempty"`
	AssignedWorker string         `json:"assigned_worker,omitempty"`
	StartTime      *time.Time     `json:"start_time,omitempty"`
	EndTime        *time.Time     `json:"end_time,omitempty"`
	Updated        time.Time      `json:"updated"`
	Blockers       []Blocker      `json:"blockers,omitempty"`
	Progress       int            `json:"progress"`
	Result         map[string]any `json:"result,omitempty"`
}

// ProjectContext is the process-wide record of the active project.
// A single project is active per session; the context is created once at
// initialization and read by all components.
type ProjectContext struct {
	Name         string    `json:"name"`
	StartedAt    time.Time `json:"started_at"`
	CurrentPhase string    `json:"current_phase"`
}
