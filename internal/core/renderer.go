package core

import (
	"fmt"
	"strings"
	"time"
)

// DocumentContext carries the project-specific values substituted into a
// template. Missing fields degrade to placeholder text, never an error.
type DocumentContext struct {
	ProjectName  string
	Date         time.Time
	Status       string
	Stakeholders []string
	Sections     map[string]string
	Content      string
}

// DocumentRenderer produces a concrete document string from a template and
// a context. Rendering is total over any input.
type DocumentRenderer interface {
	Render(templateName, templateContent string, ctx DocumentContext) string
}

// Known document kinds. Any other template name falls back to the generic
// renderer.
const (
	KindRequirements = "requirements"
	KindArchitecture = "architecture"
	KindAPISpec      = "api-spec"
	KindModuleSpec   = "module-spec"
)

// sectionTokens lists the free-text section tokens each document kind
// substitutes beyond the base tokens.
var sectionTokens = map[string][]string{
	KindRequirements: {"GOALS", "SCOPE", "CONSTRAINTS"},
	KindArchitecture: {"OVERVIEW", "COMPONENTS", "DECISIONS"},
	KindAPISpec:      {"ENDPOINTS", "AUTHENTICATION", "ERRORS"},
	KindModuleSpec:   {"MODULES", "INTERFACES", "DEPENDENCIES"},
}

const sectionPlaceholder = "_To be completed during review._"

type tokenRenderer struct{}

// NewDocumentRenderer creates the standard token-substitution renderer.
func NewDocumentRenderer() DocumentRenderer {
	return &tokenRenderer{}
}

// Render dispatches on the template name: known document kinds get their
// dedicated token set, anything else goes through the generic renderer.
// Every rendered document ends with the generation-metadata trailer, which
// downstream review tooling relies on.
func (r *tokenRenderer) Render(templateName, templateContent string, ctx DocumentContext) string {
	var body string
	if tokens, ok := sectionTokens[templateName]; ok {
		body = substitute(templateContent, ctx, tokens)
	} else {
		body = renderGeneric(templateName, ctx)
	}
	return body + trailer(templateName, ctx)
}

// substitute replaces the base tokens and the kind-specific section tokens
// in the template content, falling back to placeholder text for absent
// context fields.
func substitute(content string, ctx DocumentContext, tokens []string) string {
	pairs := []string{
		"{{PROJECT_NAME}}", orPlaceholder(ctx.ProjectName, "Untitled Project"),
		"{{DATE}}", renderDate(ctx.Date),
		"{{STATUS}}", orPlaceholder(ctx.Status, "Draft"),
		"{{STAKEHOLDERS}}", renderStakeholders(ctx.Stakeholders),
	}
	for _, token := range tokens {
		value := sectionPlaceholder
		if s, ok := ctx.Sections[token]; ok && s != "" {
			value = s
		}
		pairs = append(pairs, "{{"+token+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(content)
}

// renderGeneric wraps the context content in a minimal document skeleton.
func renderGeneric(templateName string, ctx DocumentContext) string {
	content := ctx.Content
	if content == "" {
		content = "_No content supplied for this document._"
	}
	return fmt.Sprintf("# %s\n\n**Project:** %s\n**Date:** %s\n\n%s\n",
		templateName,
		orPlaceholder(ctx.ProjectName, "Untitled Project"),
		renderDate(ctx.Date),
		content,
	)
}

// trailer is the fixed generation-metadata block appended to every
// rendered document.
func trailer(templateName string, ctx DocumentContext) string {
	generated := ctx.Date
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	return fmt.Sprintf("\n---\nTemplate: %s\nGenerated: %s\nStatus: pending human review\n",
		templateName, generated.Format(time.RFC3339))
}

func renderDate(t time.Time) string {
	if t.IsZero() {
		return time.Now().UTC().Format("2006-01-02")
	}
	return t.Format("2006-01-02")
}

func renderStakeholders(names []string) string {
	if len(names) == 0 {
		return "_Stakeholders to be confirmed._"
	}
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + name)
	}
	return b.String()
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
