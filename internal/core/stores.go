package core

import (
	"github.com/valter-silva-au/phaseline/pkg/models"
)

// WBSStore is the subset of storage.WBSManager that the Orchestrator needs.
// Defining it here keeps core independent of the storage package.
type WBSStore interface {
	Initialize(projectName string, tasks []models.Task) error
	UpdateCurrentTask(taskID string, suggestion *models.Suggestion) error
	StartTask(taskID, worker string) error
	CompleteTask(taskID string, result map[string]any) error
	MarkBlocked(taskID, reason string) error
	ReopenTask(taskID string) error
	GetTask(taskID string) (*models.Task, error)
	GetAllTasks() ([]models.Task, error)
	Snapshot() (*WBSSnapshot, error)
}

// WBSSnapshot mirrors the aggregate view of storage.WBSStatus. It is the
// status view handed to workers as part of the shared context.
type WBSSnapshot struct {
	Project models.ProjectContext
	Counts  map[models.TaskStatus]int
	Total   int
}

// ReportSink is the subset of storage.ContextManager that the Orchestrator
// needs for writing delegation reports.
type ReportSink interface {
	WriteReport(worker string, report models.Report) (string, error)
}

// EventLogger appends audit events. A nil EventLogger disables auditing.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}
