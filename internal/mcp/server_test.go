package mcp

import (
	"context"
	"testing"

	"github.com/valter-silva-au/phaseline/internal/core"
	"github.com/valter-silva-au/phaseline/internal/storage"
	"github.com/valter-silva-au/phaseline/pkg/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	wbs := storage.NewWBSManager(t.TempDir())
	err := wbs.Initialize("mcp-test", []models.Task{
		{ID: "task-001", Title: "Write requirements brief", Phase: models.PhaseRequirements, Priority: models.PriorityHigh, Deliverable: "docs/requirements.md", Template: "requirements", ReviewRequired: true},
		{ID: "task-002", Title: "Human review gate", Phase: models.PhaseGate, Priority: models.PriorityHigh, IsGate: true, DependsOn: []string{"task-001"}},
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := wbs.StartTask("task-001", "doc-writer"); err != nil {
		t.Fatalf("StartTask() error = %v", err)
	}

	return NewServer(wbs, core.NewSuggestionEngine(nil), "test")
}

func TestHandleWBSStatus(t *testing.T) {
	s := newTestServer(t)

	result, out, err := s.handleWBSStatus(context.Background(), nil, wbsStatusInput{})
	if err != nil {
		t.Fatalf("handleWBSStatus() error = %v", err)
	}
	if result != nil && result.IsError {
		t.Fatalf("handleWBSStatus() returned tool error: %v", result.Content)
	}

	if out.Project != "mcp-test" {
		t.Errorf("Project = %q", out.Project)
	}
	if out.Total != 2 {
		t.Errorf("Total = %d, want 2", out.Total)
	}
	if out.Counts["in_progress"] != 1 || out.Counts["pending"] != 1 {
		t.Errorf("Counts = %v", out.Counts)
	}
}

func TestHandleListTasks(t *testing.T) {
	s := newTestServer(t)

	_, all, err := s.handleListTasks(context.Background(), nil, listTasksInput{})
	if err != nil {
		t.Fatalf("handleListTasks() error = %v", err)
	}
	if all.Count != 2 {
		t.Errorf("unfiltered Count = %d, want 2", all.Count)
	}

	_, pending, err := s.handleListTasks(context.Background(), nil, listTasksInput{Status: "pending"})
	if err != nil {
		t.Fatalf("handleListTasks(pending) error = %v", err)
	}
	if pending.Count != 1 || pending.Tasks[0].ID != "task-002" {
		t.Errorf("pending tasks = %+v", pending.Tasks)
	}
}

func TestHandleGetTask(t *testing.T) {
	s := newTestServer(t)

	result, out, err := s.handleGetTask(context.Background(), nil, getTaskInput{TaskID: "task-002"})
	if err != nil {
		t.Fatalf("handleGetTask() error = %v", err)
	}
	if result != nil && result.IsError {
		t.Fatalf("handleGetTask() returned tool error: %v", result.Content)
	}
	if !out.IsGate {
		t.Error("gate flag not reported")
	}
	if len(out.DependsOn) != 1 || out.DependsOn[0] != "task-001" {
		t.Errorf("DependsOn = %v", out.DependsOn)
	}

	result, _, err = s.handleGetTask(context.Background(), nil, getTaskInput{TaskID: "task-404"})
	if err != nil {
		t.Fatalf("handleGetTask(unknown) error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("unknown task should produce a tool error result")
	}

	result, _, err = s.handleGetTask(context.Background(), nil, getTaskInput{})
	if err != nil {
		t.Fatalf("handleGetTask(empty) error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("empty task_id should produce a tool error result")
	}
}

func TestHandleSuggestWorker(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleSuggestWorker(context.Background(), nil, suggestWorkerInput{
		Description: "run a security audit of the login flow",
	})
	if err != nil {
		t.Fatalf("handleSuggestWorker() error = %v", err)
	}
	if out.Worker != "security-auditor" {
		t.Errorf("Worker = %q, want security-auditor", out.Worker)
	}
	if out.Confidence != 0.7 {
		t.Errorf("Confidence = %v", out.Confidence)
	}

	result, _, err := s.handleSuggestWorker(context.Background(), nil, suggestWorkerInput{})
	if err != nil {
		t.Fatalf("handleSuggestWorker(empty) error = %v", err)
	}
	if result == nil || !result.IsError {
		t.Error("empty description should produce a tool error result")
	}
}
