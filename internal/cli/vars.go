// Package cli implements the phaseline command-line interface.
package cli

import (
	"github.com/valter-silva-au/phaseline/internal/core"
	"github.com/valter-silva-au/phaseline/internal/observability"
	"github.com/valter-silva-au/phaseline/internal/storage"
)

// Package-level service dependencies, wired by internal.NewApp before
// Execute runs.
var (
	BasePath     string
	WBSMgr       storage.WBSManager
	ContextMgr   storage.ContextManager
	CatalogueMgr storage.CatalogueManager
	TemplateSrc  core.TemplateSource
	Suggester    core.SuggestionEngine
	Registry     *core.WorkerRegistry
	EventLog     observability.EventLog
	Decider      core.Decider

	// OrchestratorFor builds an orchestrator bound to the given session.
	OrchestratorFor func(session *core.ProjectSession) *core.Orchestrator
)

// activeSession loads the WBS and returns a session resumed from the
// persisted project context.
func activeSession() (*core.ProjectSession, error) {
	if err := WBSMgr.Load(); err != nil {
		return nil, err
	}
	status, err := WBSMgr.GetStatus()
	if err != nil {
		return nil, err
	}
	return core.ResumeProjectSession(status.Project), nil
}
