package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/valter-silva-au/phaseline/pkg/models"
)

// ErrGateNotApproved is returned when a task in an implementation phase is
// delegated before the review gate has been approved.
var ErrGateNotApproved = errors.New("review gate not approved")

// Choice is one labeled option in a human decision menu.
type Choice struct {
	ID    string
	Label string
}

// Decider is the human-interaction boundary. Decide blocks until one of
// the offered choices is selected. No timeout is imposed here; a UI
// implementation may apply its own policy.
type Decider interface {
	Decide(prompt string, choices []Choice) (Choice, error)
}

// DelegationResult is the outcome of one Delegate call.
type DelegationResult struct {
	Cancelled bool
	Result    models.WorkerResult
}

// failureRecommendations is the fixed remediation advice attached to every
// failure report.
var failureRecommendations = []string{
	"Retry the task after resolving the cause",
	"Check the project configuration and template catalogue",
	"Contact the team if the failure persists",
}

// docPlanEntry describes one document kind the task generator knows about.
type docPlanEntry struct {
	Kind        string
	Title       string
	Description string
	Phase       string
	Deliverable string
	Priority    models.Priority
	DependsOn   []string // kinds, resolved to task IDs during generation
}

// documentPlan is the fixed generation order. Dependencies only ever point
// at earlier entries, so generated IDs are acyclic by construction.
var documentPlan = []docPlanEntry{
	{
		Kind:        KindRequirements,
		Title:       "Write requirements brief",
		Description: "Draft the requirements brief document capturing project goals, scope, and constraints for stakeholder review.",
		Phase:       models.PhaseRequirements,
		Deliverable: "requirements.md",
		Priority:    models.PriorityHigh,
	},
	{
		Kind:        KindArchitecture,
		Title:       "Design architecture",
		Description: "Produce the architecture document describing system components and key technical decisions.",
		Phase:       models.PhaseDesign,
		Deliverable: "architecture.md",
		Priority:    models.PriorityHigh,
		DependsOn:   []string{KindRequirements},
	},
	{
		Kind:        KindAPISpec,
		Title:       "Specify API",
		Description: "Write the API specification document covering endpoints, authentication, and error handling.",
		Phase:       models.PhaseDesign,
		Deliverable: "api-spec.md",
		Priority:    models.PriorityMedium,
		DependsOn:   []string{KindArchitecture},
	},
	{
		Kind:        KindModuleSpec,
		Title:       "Specify modules",
		Description: "Write the module specification document covering module boundaries, interfaces, and dependencies.",
		Phase:       models.PhaseDesign,
		Deliverable: "module-spec.md",
		Priority:    models.PriorityMedium,
		DependsOn:   []string{KindArchitecture},
	},
}

// GenerateOptions controls document task generation.
type GenerateOptions struct {
	// DocsDir is the directory deliverables are written under,
	// relative to the project base path. Defaults to "docs".
	DocsDir string
	// Kinds restricts generation to the named document kinds.
	// Nil means every kind the template catalogue provides.
	Kinds []string
}

// Orchestrator turns a template catalogue into a concrete WBS and drives
// execution through phases, enforcing the human review gate before
// implementation work proceeds.
type Orchestrator struct {
	basePath  string
	session   *ProjectSession
	wbs       WBSStore
	reports   ReportSink
	events    EventLogger
	renderer  DocumentRenderer
	templates TemplateSource
	registry  *WorkerRegistry
	decider   Decider
}

// NewOrchestrator creates an Orchestrator with all dependencies injected.
// events may be nil to disable audit logging.
func NewOrchestrator(basePath string, session *ProjectSession, wbs WBSStore, reports ReportSink, events EventLogger, renderer DocumentRenderer, templates TemplateSource, registry *WorkerRegistry, decider Decider) *Orchestrator {
	return &Orchestrator{
		basePath:  basePath,
		session:   session,
		wbs:       wbs,
		reports:   reports,
		events:    events,
		renderer:  renderer,
		templates: templates,
		registry:  registry,
		decider:   decider,
	}
}

// Session returns the orchestrator's project session.
func (o *Orchestrator) Session() *ProjectSession {
	return o.session
}

// GenerateDocumentTasks emits one task per known document kind present in
// the template catalogue, then exactly one synthetic gate task whose
// dependency list is the full set of review-required task IDs. IDs are
// assigned sequentially in emission order, so every dependency ID is
// numerically lower than the depending task's ID.
func (o *Orchestrator) GenerateDocumentTasks(opts GenerateOptions) []models.Task {
	docsDir := opts.DocsDir
	if docsDir == "" {
		docsDir = "docs"
	}

	wanted := make(map[string]bool, len(opts.Kinds))
	for _, kind := range opts.Kinds {
		wanted[kind] = true
	}

	var tasks []models.Task
	idByKind := make(map[string]string)
	var reviewIDs []string
	next := 1

	for _, entry := range documentPlan {
		if len(wanted) > 0 && !wanted[entry.Kind] {
			continue
		}
		if _, err := o.templates.Template(entry.Kind); err != nil {
			continue
		}

		id := fmt.Sprintf("task-%03d", next)
		next++

		var deps []string
		for _, kind := range entry.DependsOn {
			if depID, ok := idByKind[kind]; ok {
				deps = append(deps, depID)
			}
		}

		tasks = append(tasks, models.Task{
			ID:             id,
			Title:          entry.Title,
			Description:    entry.Description,
			Phase:          entry.Phase,
			Priority:       entry.Priority,
			Status:         models.StatusPending,
			Deliverable:    filepath.Join(docsDir, entry.Deliverable),
			Template:       entry.Kind,
			ReviewRequired: true,
			DependsOn:      deps,
		})
		idByKind[entry.Kind] = id
		reviewIDs = append(reviewIDs, id)
	}

	gate := models.Task{
		ID:          fmt.Sprintf("task-%03d", next),
		Title:       "Human review gate",
		Description: "Hold for human approval of the generated documents before implementation phases begin.",
		Phase:       models.PhaseGate,
		Priority:    models.PriorityHigh,
		Status:      models.StatusPending,
		IsGate:      true,
		DependsOn:   reviewIDs,
	}
	tasks = append(tasks, gate)

	return tasks
}

// Delegate runs the delegation protocol for one task: human confirmation,
// execution, then completion or failure bookkeeping. Nothing mutates until
// the human confirms; a decline returns a cancelled result with no WBS
// change at all. Failures are reported, the task is marked blocked, and
// the error is propagated to the caller.
//
// A completed task may be delegated again: confirmation doubles as the
// reopen consent, and the task is reset to pending before it starts. This
// is how a revised document is re-delivered after the review gate sends
// the project back to the design phase. A gate decision other than
// approval leaves the gate task pending too, so it can be re-decided once
// the revisions land.
func (o *Orchestrator) Delegate(task models.Task, worker string, suggestion *models.Suggestion) (*DelegationResult, error) {
	if err := o.checkGate(task); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Delegate %s (%s) to %s?", task.ID, task.Title, worker)
	if suggestion != nil {
		prompt = fmt.Sprintf("Delegate %s (%s) to %s? Suggested: %s",
			task.ID, task.Title, worker, DescribeSuggestion(*suggestion))
	}
	choice, err := o.decider.Decide(prompt, []Choice{
		{ID: "confirm", Label: "Delegate to " + worker},
		{ID: "cancel", Label: "Cancel"},
	})
	if err != nil {
		return nil, fmt.Errorf("delegating %s: confirmation: %w", task.ID, err)
	}
	if choice.ID != "confirm" {
		return &DelegationResult{
			Cancelled: true,
			Result:    models.WorkerResult{Output: "delegation cancelled"},
		}, nil
	}

	if task.Status == models.StatusCompleted {
		if err := o.wbs.ReopenTask(task.ID); err != nil {
			return nil, fmt.Errorf("delegating %s: %w", task.ID, err)
		}
		o.logEvent("task.reopened", map[string]any{"task": task.ID})
	}

	if err := o.wbs.StartTask(task.ID, worker); err != nil {
		return nil, fmt.Errorf("delegating %s: %w", task.ID, err)
	}
	// The active-task pointer is advertised only once the task has
	// actually started.
	if err := o.wbs.UpdateCurrentTask(task.ID, suggestion); err != nil {
		return nil, fmt.Errorf("delegating %s: %w", task.ID, err)
	}
	o.logEvent("task.started", map[string]any{"task": task.ID, "worker": worker})

	result, err := o.execute(task, worker, suggestion)
	if err != nil {
		return nil, o.recordFailure(task, worker, err)
	}

	if result.GateStatus != "" && result.GateStatus != models.GateApproved {
		// The gate only completes on approval. Any other decision
		// returns it to pending so it can be re-decided after the
		// revisions; the decision itself is on record in the event
		// log and the report below.
		if err := o.wbs.ReopenTask(task.ID); err != nil {
			return nil, fmt.Errorf("delegating %s: %w", task.ID, err)
		}
		o.logEvent("task.reopened", map[string]any{"task": task.ID, "gate_status": string(result.GateStatus)})
	} else {
		if err := o.wbs.CompleteTask(task.ID, resultToMap(result)); err != nil {
			return nil, fmt.Errorf("delegating %s: %w", task.ID, err)
		}
		o.logEvent("task.completed", map[string]any{"task": task.ID, "worker": worker})
	}

	if _, err := o.reports.WriteReport(worker, models.Report{
		Worker:          worker,
		TaskID:          task.ID,
		TaskTitle:       task.Title,
		Summary:         result.Output,
		Files:           result.Files,
		Issues:          result.Issues,
		Recommendations: result.Recommendations,
		Payload:         result.Payload,
	}); err != nil {
		return nil, fmt.Errorf("delegating %s: %w", task.ID, err)
	}

	return &DelegationResult{Result: result}, nil
}

// execute dispatches a confirmed task: document generation, review gate,
// or generic delegation to a registered worker.
func (o *Orchestrator) execute(task models.Task, worker string, suggestion *models.Suggestion) (models.WorkerResult, error) {
	switch {
	case task.Deliverable != "" && strings.HasSuffix(task.Deliverable, ".md"):
		return o.executeDocumentTask(task)
	case task.IsGate:
		return o.executeGateTask(task)
	default:
		return o.executeWorkerTask(task, worker, suggestion)
	}
}

// executeDocumentTask renders the task's template and writes the
// deliverable. A missing parent directory is created, not an error.
func (o *Orchestrator) executeDocumentTask(task models.Task) (models.WorkerResult, error) {
	content, err := o.templates.Template(task.Template)
	if err != nil {
		return models.WorkerResult{}, fmt.Errorf("document task %s: %w", task.ID, err)
	}

	rendered := o.renderer.Render(task.Template, content, DocumentContext{
		ProjectName: o.session.Project().Name,
		Date:        time.Now().UTC(),
		Status:      "Draft",
	})

	path := filepath.Join(o.basePath, task.Deliverable)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return models.WorkerResult{}, fmt.Errorf("document task %s: creating deliverable directory: %w", task.ID, err)
	}
	if err := os.WriteFile(path, []byte(rendered), 0o600); err != nil {
		return models.WorkerResult{}, fmt.Errorf("document task %s: writing deliverable: %w", task.ID, err)
	}

	return models.WorkerResult{
		Output: fmt.Sprintf("wrote %s from template %s", task.Deliverable, task.Template),
		Files:  []string{task.Deliverable},
		Notes:  "pending human review",
	}, nil
}

// executeGateTask presents the three gate choices and tags the result with
// the chosen status. Approval advances the session to the build phase;
// revision sends it back to the design phase.
func (o *Orchestrator) executeGateTask(task models.Task) (models.WorkerResult, error) {
	choice, err := o.decider.Decide(
		fmt.Sprintf("Review gate %s: all documents are ready for review.", task.ID),
		[]Choice{
			{ID: string(models.GateApproved), Label: "Approve and continue to implementation"},
			{ID: string(models.GateRevisionRequired), Label: "Request document revisions"},
			{ID: string(models.GatePaused), Label: "Pause the project"},
		},
	)
	if err != nil {
		return models.WorkerResult{}, fmt.Errorf("gate task %s: %w", task.ID, err)
	}

	status := models.GateStatus(choice.ID)
	switch status {
	case models.GateApproved:
		o.session.SetPhase(models.PhaseBuild)
	case models.GateRevisionRequired:
		o.session.SetPhase(models.PhaseDesign)
	}
	o.logEvent("gate.decided", map[string]any{"task": task.ID, "status": string(status)})

	return models.WorkerResult{
		Output:     fmt.Sprintf("review gate decided: %s", status),
		GateStatus: status,
	}, nil
}

// executeWorkerTask resolves the worker from the static registry and runs
// it with the shared context.
func (o *Orchestrator) executeWorkerTask(task models.Task, worker string, suggestion *models.Suggestion) (models.WorkerResult, error) {
	w, err := o.registry.Resolve(worker)
	if err != nil {
		return models.WorkerResult{}, fmt.Errorf("worker task %s: %w", task.ID, err)
	}

	snapshot, err := o.wbs.Snapshot()
	if err != nil {
		return models.WorkerResult{}, fmt.Errorf("worker task %s: %w", task.ID, err)
	}

	return w.Execute(SharedContext{
		Task:       task,
		Project:    o.session.Project(),
		Status:     snapshot,
		Suggestion: suggestion,
	})
}

// recordFailure writes the failure report, blocks the task, and returns the
// original error wrapped. A failure in one task never aborts the project.
func (o *Orchestrator) recordFailure(task models.Task, worker string, cause error) error {
	if _, reportErr := o.reports.WriteReport(worker, models.Report{
		Worker:          worker,
		TaskID:          task.ID,
		TaskTitle:       task.Title,
		Summary:         fmt.Sprintf("task failed: %s", cause),
		Issues:          []string{cause.Error()},
		Recommendations: failureRecommendations,
	}); reportErr != nil {
		return fmt.Errorf("delegating %s: %v (also failed writing report: %w)", task.ID, cause, reportErr)
	}

	if blockErr := o.wbs.MarkBlocked(task.ID, cause.Error()); blockErr != nil {
		return fmt.Errorf("delegating %s: %v (also failed blocking task: %w)", task.ID, cause, blockErr)
	}
	o.logEvent("task.blocked", map[string]any{"task": task.ID, "reason": cause.Error()})

	return fmt.Errorf("delegating %s: %w", task.ID, cause)
}

// checkGate refuses tasks in phases after the gate while the gate result
// is not approved.
func (o *Orchestrator) checkGate(task models.Task) error {
	if phaseRank(task.Phase) <= phaseRank(models.PhaseGate) {
		return nil
	}
	approved, err := o.GateApproved()
	if err != nil {
		return fmt.Errorf("checking gate for %s: %w", task.ID, err)
	}
	if !approved {
		return fmt.Errorf("delegating %s in %s: %w", task.ID, task.Phase, ErrGateNotApproved)
	}
	return nil
}

// GateApproved reports whether the WBS gate task has an approved result.
func (o *Orchestrator) GateApproved() (bool, error) {
	tasks, err := o.wbs.GetAllTasks()
	if err != nil {
		return false, err
	}
	for _, t := range tasks {
		if !t.IsGate {
			continue
		}
		status, _ := t.Result["gate_status"].(string)
		return models.GateStatus(status) == models.GateApproved, nil
	}
	return false, nil
}

// resultToMap converts a worker result into the opaque result payload
// stored on the task.
func resultToMap(r models.WorkerResult) map[string]any {
	m := map[string]any{"output": r.Output}
	if len(r.Files) > 0 {
		m["files"] = r.Files
	}
	if r.Notes != "" {
		m["notes"] = r.Notes
	}
	if len(r.Issues) > 0 {
		m["issues"] = r.Issues
	}
	if len(r.Recommendations) > 0 {
		m["recommendations"] = r.Recommendations
	}
	if r.GateStatus != "" {
		m["gate_status"] = string(r.GateStatus)
	}
	return m
}

// phaseRank orders phase labels of the form "Phase N" or "Phase N.M".
// Unknown labels rank lowest.
func phaseRank(phase string) float64 {
	numeric := strings.TrimPrefix(phase, "Phase ")
	rank, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0
	}
	return rank
}

func (o *Orchestrator) logEvent(eventType string, data map[string]any) {
	if o.events == nil {
		return
	}
	_ = o.events.LogEvent(eventType, data)
}
