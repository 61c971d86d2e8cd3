package core

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTemplateSource_EmbeddedDefaults(t *testing.T) {
	src := NewTemplateSource("")

	for _, name := range []string{KindRequirements, KindArchitecture, KindAPISpec, KindModuleSpec} {
		content, err := src.Template(name)
		if err != nil {
			t.Errorf("Template(%s) error = %v", name, err)
			continue
		}
		if !strings.Contains(content, "{{PROJECT_NAME}}") {
			t.Errorf("embedded template %s has no project token", name)
		}
	}
}

func TestTemplateSource_UnknownName(t *testing.T) {
	src := NewTemplateSource("")
	if _, err := src.Template("no-such-template"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Template(no-such-template) error = %v, want ErrTemplateNotFound", err)
	}
}

func TestTemplateSource_ProjectOverrideWins(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "templates")
	if err := os.MkdirAll(override, 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(override, "requirements.md"), []byte("custom {{PROJECT_NAME}}"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	src := NewTemplateSource(dir)
	content, err := src.Template(KindRequirements)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if content != "custom {{PROJECT_NAME}}" {
		t.Errorf("override not used, got %q", content)
	}
}

func TestTemplateSource_NamesMergesOverrides(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "templates")
	if err := os.MkdirAll(override, 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(override, "runbook.md"), []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	src := NewTemplateSource(dir)
	names := src.Names()

	got := make(map[string]bool, len(names))
	for _, n := range names {
		got[n] = true
	}
	for _, want := range []string{KindRequirements, KindArchitecture, KindAPISpec, KindModuleSpec, "runbook"} {
		if !got[want] {
			t.Errorf("Names() missing %s: %v", want, names)
		}
	}
}
