package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/valter-silva-au/phaseline/pkg/models"
)

// workerCategories maps worker names to report subdirectories. Workers not
// listed here go to the general category.
var workerCategories = map[string]string{
	"qa-engineer":      "quality",
	"security-auditor": "security",
	"doc-writer":       "documentation",
	"code-reviewer":    "review",
	"workflow-manager": "general",
}

const generalCategory = "general"

// ContextManager is the durable, append-only audit trail: per-worker
// execution reports and project-level decision records. There are no update
// or delete operations by design.
type ContextManager interface {
	WriteReport(worker string, report models.Report) (string, error)
	ReadReports(worker string, limit int) ([]string, error)
	WriteDecisionRecord(title string, record models.DecisionRecord) (string, error)
}

type fileContextManager struct {
	basePath string
}

// NewContextManager creates a ContextManager that stores reports under
// reports/<category>/ and decisions under decisions/ in basePath.
func NewContextManager(basePath string) ContextManager {
	return &fileContextManager{basePath: basePath}
}

func (m *fileContextManager) categoryDir(worker string) string {
	category, ok := workerCategories[worker]
	if !ok {
		category = generalCategory
	}
	return filepath.Join(m.basePath, "reports", category)
}

// WriteReport writes a formatted report file and returns its path. The
// filename is worker + timestamp + a numeric sequence suffix, so two
// reports written within the same second never overwrite one another.
func (m *fileContextManager) WriteReport(worker string, report models.Report) (string, error) {
	dir := m.categoryDir(worker)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("writing report for %s: creating directory: %w", worker, err)
	}

	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	stamp := report.CreatedAt.Format("20060102-150405")
	prefix := fmt.Sprintf("%s-%s", worker, stamp)
	seq := 1
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("writing report for %s: listing directory: %w", worker, err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), prefix) {
			seq++
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%02d.md", prefix, seq))
	if err := os.WriteFile(path, []byte(formatReport(report)), 0o600); err != nil {
		return "", fmt.Errorf("writing report for %s: %w", worker, err)
	}
	return path, nil
}

// reportNamePattern matches the filenames WriteReport produces and
// captures the worker segment.
var reportNamePattern = regexp.MustCompile(`^(.+)-\d{8}-\d{6}-\d{2}\.md$`)

// ReadReports returns the contents of the most recent limit report files
// for a worker, newest first. An absent category directory yields an empty
// list, not an error. Filenames are parsed against the WriteReport layout,
// so a worker name that is a prefix of another never picks up the other
// worker's reports.
func (m *fileContextManager) ReadReports(worker string, limit int) ([]string, error) {
	dir := m.categoryDir(worker)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading reports for %s: %w", worker, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		parts := reportNamePattern.FindStringSubmatch(entry.Name())
		if parts == nil || parts[1] != worker {
			continue
		}
		names = append(names, entry.Name())
	}

	// Filenames embed the timestamp and sequence, so lexical order is
	// chronological order.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	var reports []string
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // G304: reading report files from managed directory
		if err != nil {
			continue
		}
		reports = append(reports, string(data))
	}
	return reports, nil
}

// WriteDecisionRecord writes a formatted decision file named by date, a
// sequence number within that date, and a slugified title.
func (m *fileContextManager) WriteDecisionRecord(title string, record models.DecisionRecord) (string, error) {
	dir := filepath.Join(m.basePath, "decisions")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("writing decision record: creating directory: %w", err)
	}

	if record.Date.IsZero() {
		record.Date = time.Now().UTC()
	}
	record.Title = title

	date := record.Date.Format("2006-01-02")
	seq := 1
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("writing decision record: listing directory: %w", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), date+"-") {
			seq++
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%02d-%s.md", date, seq, slugify(title)))
	if err := os.WriteFile(path, []byte(formatDecision(record)), 0o600); err != nil {
		return "", fmt.Errorf("writing decision record: %w", err)
	}
	return path, nil
}

func formatReport(r models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Report: %s\n\n", r.TaskTitle)
	fmt.Fprintf(&b, "**Worker:** %s\n", r.Worker)
	fmt.Fprintf(&b, "**Task:** %s\n", r.TaskID)
	fmt.Fprintf(&b, "**Created:** %s\n\n", r.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "## Summary\n%s\n", r.Summary)

	if len(r.Files) > 0 {
		b.WriteString("\n## Files\n")
		for _, f := range r.Files {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if len(r.Issues) > 0 {
		b.WriteString("\n## Issues\n")
		for _, issue := range r.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}
	if len(r.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}
	return b.String()
}

func formatDecision(d models.DecisionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Decision: %s\n\n", d.Title)
	fmt.Fprintf(&b, "**Date:** %s\n\n", d.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "## Background\n%s\n\n", d.Background)
	fmt.Fprintf(&b, "## Decision\n%s\n\n", d.Decision)
	fmt.Fprintf(&b, "## Rationale\n%s\n\n", d.Rationale)
	fmt.Fprintf(&b, "## Consequences\n%s\n", d.Consequences)
	return b.String()
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases a title and collapses non-alphanumeric runs to hyphens.
func slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
