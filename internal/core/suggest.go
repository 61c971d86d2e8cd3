package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/phaseline/pkg/models"
)

// SuggestionEngine proposes, never dictates, a worker for a task. The
// result is advisory only and always subject to human override.
type SuggestionEngine interface {
	Suggest(task models.Task) models.Suggestion
}

// suggestionRule maps a keyword class to a worker. Rules are evaluated in
// priority order; the first matching class wins.
type suggestionRule struct {
	Class    string
	Keywords []string
	Worker   string
}

// defaultRules is the fixed roster, in priority order:
// testing > security > documentation > quality.
var defaultRules = []suggestionRule{
	{Class: "testing", Keywords: []string{"test", "qa", "coverage", "regression"}, Worker: "qa-engineer"},
	{Class: "security", Keywords: []string{"security", "vulnerab", "audit", "penetration"}, Worker: "security-auditor"},
	{Class: "documentation", Keywords: []string{"document", "spec", "readme", "manual"}, Worker: "doc-writer"},
	{Class: "quality", Keywords: []string{"review", "refactor", "lint", "quality"}, Worker: "code-reviewer"},
}

// ruleSuggestionEngine implements SuggestionEngine with an ordered rule
// list over the task description. It is a heuristic, not a classifier:
// confidence is a constant, not computed from evidence strength.
type ruleSuggestionEngine struct {
	rules               []suggestionRule
	defaultWorker       string
	confidence          float64
	complexityThreshold int
}

// NewSuggestionEngine creates a SuggestionEngine from the given config.
// Worker overrides in the config replace the worker for a keyword class
// without changing the class priority order.
func NewSuggestionEngine(cfg *models.GlobalConfig) SuggestionEngine {
	if cfg == nil {
		cfg = DefaultGlobalConfig()
	}

	rules := make([]suggestionRule, len(defaultRules))
	copy(rules, defaultRules)
	for i, r := range rules {
		if override, ok := cfg.WorkerOverrides[r.Class]; ok && override != "" {
			rules[i].Worker = override
		}
	}

	return &ruleSuggestionEngine{
		rules:               rules,
		defaultWorker:       cfg.DefaultWorker,
		confidence:          cfg.Confidence,
		complexityThreshold: cfg.ComplexityThreshold,
	}
}

// Suggest scans the task description for the keyword classes and returns
// the matching worker, falling back to the default worker. It is a total
// function: any input, including the empty string, yields a suggestion.
func (e *ruleSuggestionEngine) Suggest(task models.Task) models.Suggestion {
	text := strings.ToLower(task.Description)

	worker := e.defaultWorker
	for _, rule := range e.rules {
		if matchesAny(text, rule.Keywords) {
			worker = rule.Worker
			break
		}
	}

	complexity := models.ComplexityMedium
	estimate := "2-4 hours"
	if len(task.Description) > e.complexityThreshold {
		complexity = models.ComplexityHigh
		estimate = "4-8 hours"
	}

	return models.Suggestion{
		Worker:        worker,
		Confidence:    e.confidence,
		EstimatedTime: estimate,
		Complexity:    complexity,
	}
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// DescribeSuggestion formats a suggestion for the confirmation prompt.
func DescribeSuggestion(s models.Suggestion) string {
	return fmt.Sprintf("%s (confidence %.0f%%, %s complexity, est. %s)",
		s.Worker, s.Confidence*100, s.Complexity, s.EstimatedTime)
}
