package models

// Complexity is a coarse effort estimate derived from the task description.
type Complexity string

const (
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Suggestion is a non-authoritative recommendation of which worker should
// handle a task. It is advisory only and always subject to human override.
type Suggestion struct {
	Worker        string     `json:"worker"`
	Confidence    float64    `json:"confidence"`
	EstimatedTime string     `json:"estimated_time"`
	Complexity    Complexity `json:"complexity"`
}
