package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/phaseline/pkg/models"
)

func TestWriteReport_Categorization(t *testing.T) {
	tests := []struct {
		worker   string
		category string
	}{
		{"qa-engineer", "quality"},
		{"security-auditor", "security"},
		{"doc-writer", "documentation"},
		{"code-reviewer", "review"},
		{"workflow-manager", "general"},
		{"some-custom-worker", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.worker, func(t *testing.T) {
			dir := t.TempDir()
			mgr := NewContextManager(dir)

			path, err := mgr.WriteReport(tt.worker, models.Report{
				Worker:    tt.worker,
				TaskID:    "task-001",
				TaskTitle: "Sample",
				Summary:   "done",
			})
			if err != nil {
				t.Fatalf("WriteReport() error = %v", err)
			}

			wantDir := filepath.Join(dir, "reports", tt.category)
			if filepath.Dir(path) != wantDir {
				t.Errorf("report written to %s, want directory %s", path, wantDir)
			}
		})
	}
}

func TestWriteReport_SameSecondGetsDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	mgr := NewContextManager(dir)

	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	report := models.Report{
		Worker:    "qa-engineer",
		TaskID:    "task-001",
		TaskTitle: "Run regression tests",
		Summary:   "all green",
		CreatedAt: now,
	}

	first, err := mgr.WriteReport("qa-engineer", report)
	if err != nil {
		t.Fatalf("first WriteReport() error = %v", err)
	}
	second, err := mgr.WriteReport("qa-engineer", report)
	if err != nil {
		t.Fatalf("second WriteReport() error = %v", err)
	}

	if first == second {
		t.Fatalf("same-second reports collided on %s", first)
	}
	if !strings.HasSuffix(first, "qa-engineer-20260314-092653-01.md") {
		t.Errorf("first path = %s, want sequence suffix -01", first)
	}
	if !strings.HasSuffix(second, "qa-engineer-20260314-092653-02.md") {
		t.Errorf("second path = %s, want sequence suffix -02", second)
	}
	for _, p := range []string{first, second} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("report file missing: %v", err)
		}
	}
}

func TestWriteReport_Content(t *testing.T) {
	mgr := NewContextManager(t.TempDir())

	path, err := mgr.WriteReport("code-reviewer", models.Report{
		Worker:          "code-reviewer",
		TaskID:          "task-004",
		TaskTitle:       "Review storage layer",
		Summary:         "two findings",
		Files:           []string{"internal/storage/wbs.go"},
		Issues:          []string{"missing lock on save"},
		Recommendations: []string{"add flock"},
	})
	if err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"# Report: Review storage layer",
		"**Worker:** code-reviewer",
		"**Task:** task-004",
		"## Summary\ntwo findings",
		"- internal/storage/wbs.go",
		"- missing lock on save",
		"- add flock",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("report missing %q\n---\n%s", want, content)
		}
	}
}

func TestReadReports_NewestFirstAndLimited(t *testing.T) {
	dir := t.TempDir()
	mgr := NewContextManager(dir)

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := mgr.WriteReport("doc-writer", models.Report{
			Worker:    "doc-writer",
			TaskID:    "task-001",
			TaskTitle: "Doc pass",
			Summary:   strings.Repeat("x", i+1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("WriteReport() error = %v", err)
		}
	}

	reports, err := mgr.ReadReports("doc-writer", 2)
	if err != nil {
		t.Fatalf("ReadReports() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if !strings.Contains(reports[0], "xxxx") {
		t.Errorf("first report is not the newest:\n%s", reports[0])
	}
	if !strings.Contains(reports[1], "xxx") {
		t.Errorf("second report is not the second newest:\n%s", reports[1])
	}
}

func TestReadReports_WorkerNamePrefixIsNotAMatch(t *testing.T) {
	dir := t.TempDir()
	mgr := NewContextManager(dir)

	// Both workers are unmapped and share the general category directory.
	now := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	if _, err := mgr.WriteReport("workflow-manager", models.Report{
		Worker:    "workflow-manager",
		TaskID:    "task-001",
		TaskTitle: "Coordinate",
		Summary:   "coordinated",
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if _, err := mgr.WriteReport("workflow", models.Report{
		Worker:    "workflow",
		TaskID:    "task-002",
		TaskTitle: "Shorter name",
		Summary:   "short worker report",
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	reports, err := mgr.ReadReports("workflow", 0)
	if err != nil {
		t.Fatalf("ReadReports() error = %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports for workflow, want only its own", len(reports))
	}
	if !strings.Contains(reports[0], "short worker report") {
		t.Errorf("wrong report returned:\n%s", reports[0])
	}

	reports, err = mgr.ReadReports("workflow-manager", 0)
	if err != nil {
		t.Fatalf("ReadReports() error = %v", err)
	}
	if len(reports) != 1 || !strings.Contains(reports[0], "coordinated") {
		t.Errorf("workflow-manager reports = %d", len(reports))
	}
}

func TestReadReports_AbsentDirIsEmpty(t *testing.T) {
	mgr := NewContextManager(t.TempDir())
	reports, err := mgr.ReadReports("qa-engineer", 5)
	if err != nil {
		t.Fatalf("ReadReports() error = %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("got %d reports from absent dir, want 0", len(reports))
	}
}

func TestWriteDecisionRecord(t *testing.T) {
	dir := t.TempDir()
	mgr := NewContextManager(dir)

	record := models.DecisionRecord{
		Background:   "the gate needed a policy",
		Decision:     "gate approval is explicit",
		Rationale:    "silence must not approve",
		Consequences: "delegation waits on a human",
		Date:         time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}

	first, err := mgr.WriteDecisionRecord("Use Explicit Gate Approval!", record)
	if err != nil {
		t.Fatalf("WriteDecisionRecord() error = %v", err)
	}
	if !strings.HasSuffix(first, "2026-03-14-01-use-explicit-gate-approval.md") {
		t.Errorf("path = %s, want date, sequence, and slug", first)
	}

	second, err := mgr.WriteDecisionRecord("Another decision", record)
	if err != nil {
		t.Fatalf("second WriteDecisionRecord() error = %v", err)
	}
	if !strings.HasSuffix(second, "2026-03-14-02-another-decision.md") {
		t.Errorf("second path = %s, want sequence 02", second)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"# Decision: Use Explicit Gate Approval!",
		"## Background\nthe gate needed a policy",
		"## Decision\ngate approval is explicit",
		"## Rationale\nsilence must not approve",
		"## Consequences\ndelegation waits on a human",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("decision record missing %q", want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Use PostgreSQL", "use-postgresql"},
		{"  spaces  everywhere  ", "spaces-everywhere"},
		{"C++ & Go!", "c-go"},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
