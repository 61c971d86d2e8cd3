package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/valter-silva-au/phaseline/pkg/models"
)

// SharedContext is everything the core hands a worker for one task: the
// task itself, a WBS status snapshot, the project context, and the
// suggestion metadata that led to the delegation.
type SharedContext struct {
	Task       models.Task
	Project    models.ProjectContext
	Status     *WBSSnapshot
	Suggestion *models.Suggestion
}

// Worker is an external, specialized executor capable of performing one
// task and returning a structured result. Worker logic is opaque to the
// core; any returned error is treated as task failure.
type Worker interface {
	Execute(ctx SharedContext) (models.WorkerResult, error)
}

// WorkerRegistry is the static worker roster, resolved at startup. It
// replaces runtime string-based dispatch with explicit registration.
type WorkerRegistry struct {
	mu      sync.RWMutex
	workers map[string]Worker
}

// NewWorkerRegistry returns an empty registry.
func NewWorkerRegistry() *WorkerRegistry {
	return &WorkerRegistry{workers: make(map[string]Worker)}
}

// Register installs a worker. Registering an already-known name is an error.
func (r *WorkerRegistry) Register(name string, worker Worker) error {
	if name == "" {
		return fmt.Errorf("registering worker: name must not be empty")
	}
	if worker == nil {
		return fmt.Errorf("registering worker %s: worker must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.workers[name]; exists {
		return fmt.Errorf("registering worker %s: already registered", name)
	}
	r.workers[name] = worker
	return nil
}

// Resolve returns the worker registered under name.
func (r *WorkerRegistry) Resolve(name string) (Worker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	worker, ok := r.workers[name]
	if !ok {
		return nil, fmt.Errorf("resolving worker %q: not registered", name)
	}
	return worker, nil
}

// Names returns the sorted list of registered worker names.
func (r *WorkerRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.workers))
	for name := range r.workers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WorkerFunc adapts a function to the Worker interface.
type WorkerFunc func(ctx SharedContext) (models.WorkerResult, error)

// Execute calls f.
func (f WorkerFunc) Execute(ctx SharedContext) (models.WorkerResult, error) {
	return f(ctx)
}
