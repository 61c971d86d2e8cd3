package core

import (
	"time"

	"github.com/valter-silva-au/phaseline/pkg/models"
)

// ProjectSession is the explicit handle for one active project. Every
// orchestrator operation runs against a session rather than ambient global
// state, so a single process could host several sessions if ever needed.
type ProjectSession struct {
	project models.ProjectContext
}

// NewProjectSession creates a session for the named project starting in
// the requirements phase.
func NewProjectSession(name string) *ProjectSession {
	return &ProjectSession{
		project: models.ProjectContext{
			Name:         name,
			StartedAt:    time.Now().UTC(),
			CurrentPhase: models.PhaseRequirements,
		},
	}
}

// ResumeProjectSession creates a session from a previously persisted
// project context.
func ResumeProjectSession(project models.ProjectContext) *ProjectSession {
	return &ProjectSession{project: project}
}

// Project returns a copy of the session's project context.
func (s *ProjectSession) Project() models.ProjectContext {
	return s.project
}

// SetPhase records the project-level phase the session has reached.
func (s *ProjectSession) SetPhase(phase string) {
	s.project.CurrentPhase = phase
}
