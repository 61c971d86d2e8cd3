package core

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed templates
var templateFS embed.FS

// ErrTemplateNotFound is returned when a task references a template that
// the catalogue does not contain.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateSource resolves a template name to its raw content.
type TemplateSource interface {
	Template(name string) (string, error)
	Names() []string
}

// docTemplates serves the embedded default document templates, with
// per-project overrides read from a templates/ directory under basePath.
type docTemplates struct {
	basePath string
}

// NewTemplateSource creates a TemplateSource rooted at basePath. An empty
// basePath disables project overrides.
func NewTemplateSource(basePath string) TemplateSource {
	return &docTemplates{basePath: basePath}
}

// Template returns the content for the named template. A project override
// file (templates/<name>.md under basePath) takes precedence over the
// embedded default; a name with no override and no default yields
// ErrTemplateNotFound.
func (dt *docTemplates) Template(name string) (string, error) {
	if dt.basePath != "" {
		overridePath := filepath.Join(dt.basePath, "templates", name+".md")
		if data, err := os.ReadFile(overridePath); err == nil { //nolint:gosec // G304: reading template override from managed directory
			return string(data), nil
		}
	}

	data, err := templateFS.ReadFile("templates/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("template %q: %w", name, ErrTemplateNotFound)
	}
	return string(data), nil
}

// Names lists all available template names, embedded defaults and project
// overrides combined, sorted.
func (dt *docTemplates) Names() []string {
	seen := make(map[string]struct{})

	if entries, err := templateFS.ReadDir("templates"); err == nil {
		for _, entry := range entries {
			seen[strings.TrimSuffix(entry.Name(), ".md")] = struct{}{}
		}
	}

	if dt.basePath != "" {
		if entries, err := os.ReadDir(filepath.Join(dt.basePath, "templates")); err == nil {
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
					continue
				}
				seen[strings.TrimSuffix(entry.Name(), ".md")] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
