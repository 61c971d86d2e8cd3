package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/phaseline/pkg/models"
)

// TemplateSelection records which template was chosen for a generated task
// and the suggestion analysis that accompanied the choice.
type TemplateSelection struct {
	TaskID     string             `json:"task_id"`
	Template   string             `json:"template"`
	Suggestion *models.Suggestion `json:"suggestion,omitempty"`
}

// Catalogue is the project/task catalogue resource: the generated task list
// plus the template-selection analysis, persisted alongside the WBS.
type Catalogue struct {
	Name      string              `json:"name"`
	Tasks     []models.Task       `json:"tasks"`
	Analysis  []TemplateSelection `json:"analysis,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// CatalogueManager persists the project catalogue.
type CatalogueManager interface {
	Save(catalogue Catalogue) error
	Load() (*Catalogue, error)
}

type fileCatalogueManager struct {
	basePath string
}

// NewCatalogueManager creates a CatalogueManager backed by catalogue.json
// in the given base directory.
func NewCatalogueManager(basePath string) CatalogueManager {
	return &fileCatalogueManager{basePath: basePath}
}

func (m *fileCatalogueManager) filePath() string {
	return filepath.Join(m.basePath, "catalogue.json")
}

func (m *fileCatalogueManager) Save(catalogue Catalogue) error {
	if err := os.MkdirAll(m.basePath, 0o750); err != nil {
		return fmt.Errorf("saving catalogue: creating directory: %w", err)
	}
	if catalogue.CreatedAt.IsZero() {
		catalogue.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(&catalogue, "", "  ")
	if err != nil {
		return fmt.Errorf("saving catalogue: marshaling JSON: %w", err)
	}

	tmp, err := os.CreateTemp(m.basePath, ".catalogue-*.json")
	if err != nil {
		return fmt.Errorf("saving catalogue: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("saving catalogue: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving catalogue: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, m.filePath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("saving catalogue: renaming temp file: %w", err)
	}
	return nil
}

func (m *fileCatalogueManager) Load() (*Catalogue, error) {
	data, err := os.ReadFile(m.filePath())
	if err != nil {
		return nil, fmt.Errorf("loading catalogue: %w", err)
	}

	var c Catalogue
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("loading catalogue: parsing JSON: %w", err)
	}
	return &c, nil
}
