// Package internal provides the App struct that wires all components of
// phaseline together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/phaseline/internal/cli"
	"github.com/valter-silva-au/phaseline/internal/core"
	"github.com/valter-silva-au/phaseline/internal/observability"
	"github.com/valter-silva-au/phaseline/internal/storage"
	"github.com/valter-silva-au/phaseline/pkg/models"
)

// App holds all service dependencies for phaseline.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Storage layer
	WBSMgr       storage.WBSManager
	ContextMgr   storage.ContextManager
	CatalogueMgr storage.CatalogueManager

	// Core services
	Suggester   core.SuggestionEngine
	Renderer    core.DocumentRenderer
	TemplateSrc core.TemplateSource
	Registry    *core.WorkerRegistry

	// Observability
	EventLog observability.EventLog
}

// NewApp creates and wires all components of phaseline. basePath is the
// project root where wbs.json, the event log, and the docs tree live.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Storage layer ---
	app.WBSMgr = storage.NewWBSManager(basePath)
	app.ContextMgr = storage.NewContextManager(filepath.Join(basePath, cfg.ReportsDir))
	app.CatalogueMgr = storage.NewCatalogueManager(basePath)

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, ".phaseline_events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
	if err != nil {
		// Non-fatal: disable auditing if the log can't be created.
		app.EventLog = nil
	}

	// --- Core services ---
	app.Suggester = core.NewSuggestionEngine(cfg)
	app.Renderer = core.NewDocumentRenderer()
	app.TemplateSrc = core.NewTemplateSource(basePath)

	app.Registry = core.NewWorkerRegistry()
	if err := registerDefaultWorkers(app.Registry); err != nil {
		return nil, err
	}

	// Adapters so core uses storage/observability without importing them.
	wbsAdapter := &wbsStoreAdapter{mgr: app.WBSMgr}
	reportAdapter := &reportSinkAdapter{mgr: app.ContextMgr}
	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.WBSMgr = app.WBSMgr
	cli.ContextMgr = app.ContextMgr
	cli.CatalogueMgr = app.CatalogueMgr
	cli.TemplateSrc = app.TemplateSrc
	cli.Suggester = app.Suggester
	cli.Registry = app.Registry
	cli.EventLog = app.EventLog
	cli.Decider = cli.NewStdinDecider(os.Stdin, os.Stdout)
	cli.OrchestratorFor = func(session *core.ProjectSession) *core.Orchestrator {
		return core.NewOrchestrator(
			basePath,
			session,
			wbsAdapter,
			reportAdapter,
			evtAdapter,
			app.Renderer,
			app.TemplateSrc,
			app.Registry,
			cli.Decider,
		)
	}

	return app, nil
}

// Close releases resources held by the App, such as the event log file
// handle. It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for phaseline data. It checks
// the PHASELINE_HOME env var, then walks up from the current directory
// looking for an existing wbs.json or .phaseline.yaml.
func ResolveBasePath() string {
	if home := os.Getenv("PHASELINE_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "wbs.json")); err == nil {
			return dir
		}
		if _, err := os.Stat(filepath.Join(dir, ".phaseline.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

// registerDefaultWorkers installs the built-in roster. Each default worker
// acknowledges the task and echoes its context; real integrations replace
// these by registering under the same names before the registry is sealed
// into the orchestrator.
func registerDefaultWorkers(registry *core.WorkerRegistry) error {
	roster := []string{
		"qa-engineer",
		"security-auditor",
		"doc-writer",
		"code-reviewer",
		"workflow-manager",
	}
	for _, name := range roster {
		worker := name
		err := registry.Register(worker, core.WorkerFunc(func(ctx core.SharedContext) (models.WorkerResult, error) {
			return models.WorkerResult{
				Output: fmt.Sprintf("%s acknowledged task %s (%s)", worker, ctx.Task.ID, ctx.Task.Title),
				Notes:  "no external executor configured; task recorded as handled by the built-in worker",
			}, nil
		}))
		if err != nil {
			return fmt.Errorf("registering default workers: %w", err)
		}
	}
	return nil
}

// --- Adapters ---

// wbsStoreAdapter adapts storage.WBSManager to core.WBSStore.
type wbsStoreAdapter struct {
	mgr storage.WBSManager
}

func (a *wbsStoreAdapter) Initialize(projectName string, tasks []models.Task) error {
	return a.mgr.Initialize(projectName, tasks)
}

func (a *wbsStoreAdapter) UpdateCurrentTask(taskID string, suggestion *models.Suggestion) error {
	return a.mgr.UpdateCurrentTask(taskID, suggestion)
}

func (a *wbsStoreAdapter) StartTask(taskID, worker string) error {
	return a.mgr.StartTask(taskID, worker)
}

func (a *wbsStoreAdapter) CompleteTask(taskID string, result map[string]any) error {
	return a.mgr.CompleteTask(taskID, result)
}

func (a *wbsStoreAdapter) MarkBlocked(taskID, reason string) error {
	return a.mgr.MarkBlocked(taskID, reason)
}

func (a *wbsStoreAdapter) ReopenTask(taskID string) error {
	return a.mgr.ReopenTask(taskID)
}

func (a *wbsStoreAdapter) GetTask(taskID string) (*models.Task, error) {
	return a.mgr.GetTask(taskID)
}

func (a *wbsStoreAdapter) GetAllTasks() ([]models.Task, error) {
	return a.mgr.GetAllTasks()
}

func (a *wbsStoreAdapter) Snapshot() (*core.WBSSnapshot, error) {
	status, err := a.mgr.GetStatus()
	if err != nil {
		return nil, err
	}
	return &core.WBSSnapshot{
		Project: status.Project,
		Counts:  status.Counts,
		Total:   status.Total,
	}, nil
}

// reportSinkAdapter adapts storage.ContextManager to core.ReportSink.
type reportSinkAdapter struct {
	mgr storage.ContextManager
}

func (a *reportSinkAdapter) WriteReport(worker string, report models.Report) (string, error) {
	return a.mgr.WriteReport(worker, report)
}

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	event := observability.Event{Type: eventType, Data: data}
	if task, ok := data["task"].(string); ok {
		event.Task = task
	}
	return a.log.Write(event)
}
