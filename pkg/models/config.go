package models

// GlobalConfig holds settings read from .phaseline.yaml. Missing keys fall
// back to defaults; see core.DefaultGlobalConfig.
type GlobalConfig struct {
	DocsDir             string            `yaml:"docs_dir"`
	ReportsDir          string            `yaml:"reports_dir"`
	Confidence          float64           `yaml:"confidence"`
	ComplexityThreshold int               `yaml:"complexity_threshold"`
	DefaultWorker       string            `yaml:"default_worker"`
	WorkerOverrides     map[string]string `yaml:"worker_overrides"`
}
