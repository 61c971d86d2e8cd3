// Package core contains the business logic for phaseline: document task
// generation, the phase/gate state machine, delegation, worker suggestion,
// and document rendering.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/phaseline/pkg/models"
)

// ConfigurationManager loads and validates configuration from the
// .phaseline.yaml file in the project base directory.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with sensible defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		DocsDir:             "docs",
		ReportsDir:          ".",
		Confidence:          0.7,
		ComplexityThreshold: 200,
		DefaultWorker:       "workflow-manager",
	}
}

// LoadGlobalConfig reads .phaseline.yaml from the base path using Viper.
// If the file does not exist, defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(".phaseline")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("docs_dir", cfg.DocsDir)
	v.SetDefault("reports_dir", cfg.ReportsDir)
	v.SetDefault("suggestion.confidence", cfg.Confidence)
	v.SetDefault("suggestion.complexity_threshold", cfg.ComplexityThreshold)
	v.SetDefault("suggestion.default_worker", cfg.DefaultWorker)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .phaseline.yaml: %w", err)
	}

	cfg.DocsDir = v.GetString("docs_dir")
	cfg.ReportsDir = v.GetString("reports_dir")
	cfg.Confidence = v.GetFloat64("suggestion.confidence")
	cfg.ComplexityThreshold = v.GetInt("suggestion.complexity_threshold")
	cfg.DefaultWorker = v.GetString("suggestion.default_worker")
	cfg.WorkerOverrides = v.GetStringMapString("suggestion.worker_overrides")

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns a
// clear error message identifying every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.DocsDir == "" {
		errs = append(errs, "docs_dir must not be empty")
	}
	if cfg.Confidence < 0 || cfg.Confidence > 1 {
		errs = append(errs, fmt.Sprintf(
			"suggestion.confidence %v is invalid, must be between 0 and 1", cfg.Confidence))
	}
	if cfg.ComplexityThreshold <= 0 {
		errs = append(errs, fmt.Sprintf(
			"suggestion.complexity_threshold %d is invalid, must be positive", cfg.ComplexityThreshold))
	}
	if cfg.DefaultWorker == "" {
		errs = append(errs, "suggestion.default_worker must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
