// Package storage contains the file-backed stores for phaseline: the WBS
// store (authoritative task state), the context store (append-only reports
// and decision records), and the project catalogue.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/valter-silva-au/phaseline/pkg/models"
)

// ErrTaskNotFound is returned when an operation references a task ID that
// does not exist in the WBS.
var ErrTaskNotFound = errors.New("task not found")

// ErrInvalidTransition is returned when a status change would violate the
// task state machine (e.g. completing a task that was never started).
var ErrInvalidTransition = errors.New("invalid status transition")

// CurrentTask records which task/suggestion pair is active for display
// purposes. It is pure metadata and never changes task status.
type CurrentTask struct {
	TaskID     string             `json:"task_id"`
	Suggestion *models.Suggestion `json:"suggestion,omitempty"`
}

// WBSFile is the top-level structure of wbs.json.
type WBSFile struct {
	Version     string                `json:"version"`
	Project     models.ProjectContext `json:"project"`
	Current     *CurrentTask          `json:"current_task,omitempty"`
	Tasks       []models.Task         `json:"tasks"`
	LastUpdated time.Time             `json:"last_updated"`
}

// WBSStatus is the aggregate view returned by GetStatus.
type WBSStatus struct {
	Project    models.ProjectContext     `json:"project"`
	Counts     map[models.TaskStatus]int `json:"counts"`
	Total      int                       `json:"total"`
	ActiveTask *models.Task              `json:"active_task,omitempty"`
	Recent     []models.Task             `json:"recent"`
}

// WBSManager defines the interface for the work-breakdown structure store,
// the single source of truth for task status.
type WBSManager interface {
	Initialize(projectName string, tasks []models.Task) error
	UpdateCurrentTask(taskID string, suggestion *models.Suggestion) error
	StartTask(taskID, worker string) error
	CompleteTask(taskID string, result map[string]any) error
	MarkBlocked(taskID, reason string) error
	ReopenTask(taskID string) error
	GetTask(taskID string) (*models.Task, error)
	GetAllTasks() ([]models.Task, error)
	GetStatus() (*WBSStatus, error)
	Load() error
	Save() error
}

type fileWBSManager struct {
	basePath string
	data     WBSFile
}

// NewWBSManager creates a WBSManager backed by a wbs.json file in the given
// base directory.
func NewWBSManager(basePath string) WBSManager {
	return &fileWBSManager{
		basePath: basePath,
		data: WBSFile{
			Version: "1.0",
		},
	}
}

func (m *fileWBSManager) filePath() string {
	return filepath.Join(m.basePath, "wbs.json")
}

// Initialize sets the project context and converts the given tasks into WBS
// tasks with status pending. Calling Initialize again overwrites any prior
// WBS for the project; statuses are reset, never merged.
func (m *fileWBSManager) Initialize(projectName string, tasks []models.Task) error {
	if len(tasks) == 0 {
		return fmt.Errorf("initializing WBS for %s: task list must not be empty", projectName)
	}

	now := time.Now().UTC()
	prepared := make([]models.Task, len(tasks))
	for i, t := range tasks {
		t.Status = models.StatusPending
		t.AssignedWorker = ""
		t.StartTime = nil
		t.EndTime = nil
		t.Blockers = nil
		t.Progress = 0
		t.Result = nil
		t.Updated = now
		prepared[i] = t
	}

	m.data = WBSFile{
		Version: "1.0",
		Project: models.ProjectContext{
			Name:         projectName,
			StartedAt:    now,
			CurrentPhase: models.PhaseRequirements,
		},
		Tasks:       prepared,
		LastUpdated: now,
	}

	return m.Save()
}

// UpdateCurrentTask records the active task/suggestion pair for display.
func (m *fileWBSManager) UpdateCurrentTask(taskID string, suggestion *models.Suggestion) error {
	if _, err := m.find(taskID); err != nil {
		return fmt.Errorf("updating current task: %w", err)
	}
	m.data.Current = &CurrentTask{TaskID: taskID, Suggestion: suggestion}
	m.data.LastUpdated = time.Now().UTC()
	return m.Save()
}

// StartTask moves a task to in_progress and assigns the worker. Starting is
// allowed from pending and from blocked (the retry path after a failure).
func (m *fileWBSManager) StartTask(taskID, worker string) error {
	task, err := m.find(taskID)
	if err != nil {
		return fmt.Errorf("starting task: %w", err)
	}
	if task.Status != models.StatusPending && task.Status != models.StatusBlocked {
		return fmt.Errorf("starting task %s from %s: %w", taskID, task.Status, ErrInvalidTransition)
	}

	now := time.Now().UTC()
	task.Status = models.StatusInProgress
	task.AssignedWorker = worker
	task.StartTime = &now
	task.Updated = now
	m.data.LastUpdated = now
	return m.Save()
}

// CompleteTask moves a task to completed. Completion is only valid from
// in_progress; completed is the sole terminal state.
func (m *fileWBSManager) CompleteTask(taskID string, result map[string]any) error {
	task, err := m.find(taskID)
	if err != nil {
		return fmt.Errorf("completing task: %w", err)
	}
	if task.Status != models.StatusInProgress {
		return fmt.Errorf("completing task %s from %s: %w", taskID, task.Status, ErrInvalidTransition)
	}

	now := time.Now().UTC()
	task.Status = models.StatusCompleted
	task.EndTime = &now
	task.Progress = 100
	task.Result = result
	task.Updated = now
	m.data.LastUpdated = now
	return m.Save()
}

// MarkBlocked moves an in_progress task to blocked and appends a blocker
// record. The assigned worker is kept so the task can be retried with
// StartTask.
func (m *fileWBSManager) MarkBlocked(taskID, reason string) error {
	task, err := m.find(taskID)
	if err != nil {
		return fmt.Errorf("blocking task: %w", err)
	}
	if task.Status != models.StatusInProgress {
		return fmt.Errorf("blocking task %s from %s: %w", taskID, task.Status, ErrInvalidTransition)
	}

	now := time.Now().UTC()
	task.Status = models.StatusBlocked
	task.Blockers = append(task.Blockers, models.Blocker{Reason: reason, Time: now})
	task.Updated = now
	m.data.LastUpdated = now
	return m.Save()
}

// ReopenTask returns a completed or in_progress task to pending so it can
// be delegated again. This is the recovery path after a review gate
// requests revisions: the revised document task is reopened, re-run, and
// the gate re-decided. Completion fields are cleared; blocker history is
// kept.
func (m *fileWBSManager) ReopenTask(taskID string) error {
	task, err := m.find(taskID)
	if err != nil {
		return fmt.Errorf("reopening task: %w", err)
	}
	if task.Status != models.StatusCompleted && task.Status != models.StatusInProgress {
		return fmt.Errorf("reopening task %s from %s: %w", taskID, task.Status, ErrInvalidTransition)
	}

	now := time.Now().UTC()
	task.Status = models.StatusPending
	task.AssignedWorker = ""
	task.StartTime = nil
	task.EndTime = nil
	task.Progress = 0
	task.Result = nil
	task.Updated = now
	m.data.LastUpdated = now
	return m.Save()
}

// GetTask returns a copy of the task with the given ID.
func (m *fileWBSManager) GetTask(taskID string) (*models.Task, error) {
	task, err := m.find(taskID)
	if err != nil {
		return nil, err
	}
	copied := *task
	return &copied, nil
}

// GetAllTasks returns all tasks in generation order.
func (m *fileWBSManager) GetAllTasks() ([]models.Task, error) {
	tasks := make([]models.Task, len(m.data.Tasks))
	copy(tasks, m.data.Tasks)
	return tasks, nil
}

// GetStatus returns per-status counts, the active task, the 5 most recently
// updated tasks, and the project context. Pure read.
func (m *fileWBSManager) GetStatus() (*WBSStatus, error) {
	status := &WBSStatus{
		Project: m.data.Project,
		Counts:  make(map[models.TaskStatus]int),
		Total:   len(m.data.Tasks),
	}

	for _, t := range m.data.Tasks {
		status.Counts[t.Status]++
	}

	if m.data.Current != nil {
		if task, err := m.find(m.data.Current.TaskID); err == nil {
			copied := *task
			status.ActiveTask = &copied
		}
	}

	recent := make([]models.Task, len(m.data.Tasks))
	copy(recent, m.data.Tasks)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Updated.After(recent[j].Updated)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	status.Recent = recent

	return status, nil
}

// Load reads wbs.json from disk. A missing file leaves the store empty
// rather than returning an error.
func (m *fileWBSManager) Load() error {
	data, err := os.ReadFile(m.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			m.data = WBSFile{Version: "1.0"}
			return nil
		}
		return fmt.Errorf("loading WBS: %w", err)
	}

	var wf WBSFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return fmt.Errorf("loading WBS: parsing JSON: %w", err)
	}
	m.data = wf
	return nil
}

// Save writes the WBS atomically: marshal to a temp file in the same
// directory, then rename over wbs.json. An flock on a sidecar lock file
// guards against a second process racing the rewrite.
func (m *fileWBSManager) Save() error {
	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("saving WBS: creating directory: %w", err)
	}

	unlock, err := lockFile(m.filePath() + ".lock")
	if err != nil {
		return fmt.Errorf("saving WBS: %w", err)
	}
	defer func() { _ = unlock() }()

	data, err := json.MarshalIndent(&m.data, "", "  ")
	if err != nil {
		return fmt.Errorf("saving WBS: marshaling JSON: %w", err)
	}

	tmp, err := os.CreateTemp(m.basePath, ".wbs-*.json")
	if err != nil {
		return fmt.Errorf("saving WBS: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("saving WBS: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving WBS: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, m.filePath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving WBS: renaming temp file: %w", err)
	}
	return nil
}

// find returns a pointer into the task slice for in-place mutation.
func (m *fileWBSManager) find(taskID string) (*models.Task, error) {
	for i := range m.data.Tasks {
		if m.data.Tasks[i].ID == taskID {
			return &m.data.Tasks[i], nil
		}
	}
	return nil, fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
}
