package core

import (
	"strings"
	"testing"
	"time"
)

func TestRender_SubstitutesTokens(t *testing.T) {
	renderer := NewDocumentRenderer()
	template := "# {{PROJECT_NAME}} Requirements\n\nDate: {{DATE}}\nStatus: {{STATUS}}\n\n## Goals\n{{GOALS}}\n\n## Scope\n{{SCOPE}}\n\n## Constraints\n{{CONSTRAINTS}}\n\nStakeholders:\n{{STAKEHOLDERS}}\n"

	ctx := DocumentContext{
		ProjectName:  "payments-service",
		Date:         time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:       "Draft",
		Stakeholders: []string{"Product", "Engineering"},
		Sections: map[string]string{
			"GOALS": "Process payments reliably.",
			"SCOPE": "Card payments only.",
		},
	}

	got := renderer.Render(KindRequirements, template, ctx)

	for _, want := range []string{
		"# payments-service Requirements",
		"Date: 2026-03-14",
		"Status: Draft",
		"Process payments reliably.",
		"Card payments only.",
		"- Product\n- Engineering",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered document missing %q\n---\n%s", want, got)
		}
	}
	if strings.Contains(got, "{{") {
		t.Errorf("unsubstituted token left in output:\n%s", got)
	}
}

func TestRender_MissingSectionsGetPlaceholder(t *testing.T) {
	renderer := NewDocumentRenderer()
	template := "{{PROJECT_NAME}}\n{{OVERVIEW}}\n{{COMPONENTS}}\n{{DECISIONS}}\n"

	got := renderer.Render(KindArchitecture, template, DocumentContext{})

	if !strings.Contains(got, "Untitled Project") {
		t.Error("empty project name should render as Untitled Project")
	}
	if strings.Count(got, sectionPlaceholder) != 3 {
		t.Errorf("want 3 section placeholders, got %d:\n%s", strings.Count(got, sectionPlaceholder), got)
	}
}

func TestRender_TrailerAlwaysPresent(t *testing.T) {
	renderer := NewDocumentRenderer()
	date := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name         string
		templateName string
	}{
		{"known kind", KindAPISpec},
		{"unknown kind", "runbook"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderer.Render(tt.templateName, "{{PROJECT_NAME}}", DocumentContext{ProjectName: "p", Date: date})

			if !strings.Contains(got, "\n---\nTemplate: "+tt.templateName+"\n") {
				t.Errorf("trailer missing template name:\n%s", got)
			}
			if !strings.Contains(got, "Generated: 2026-03-14T09:30:00Z") {
				t.Errorf("trailer missing generation timestamp:\n%s", got)
			}
			if !strings.HasSuffix(got, "Status: pending human review\n") {
				t.Errorf("document does not end with review status line:\n%s", got)
			}
		})
	}
}

func TestRender_UnknownKindUsesGenericSkeleton(t *testing.T) {
	renderer := NewDocumentRenderer()

	got := renderer.Render("runbook", "ignored template content", DocumentContext{
		ProjectName: "payments-service",
		Content:     "Restart the service with systemctl.",
	})

	if !strings.Contains(got, "# runbook") {
		t.Errorf("generic document missing heading:\n%s", got)
	}
	if !strings.Contains(got, "Restart the service with systemctl.") {
		t.Errorf("generic document missing content:\n%s", got)
	}
	if strings.Contains(got, "ignored template content") {
		t.Error("generic renderer should not use the template content")
	}
}

func TestRender_GenericEmptyContent(t *testing.T) {
	renderer := NewDocumentRenderer()
	got := renderer.Render("notes", "", DocumentContext{})
	if !strings.Contains(got, "_No content supplied for this document._") {
		t.Errorf("empty generic content should get a placeholder:\n%s", got)
	}
}
