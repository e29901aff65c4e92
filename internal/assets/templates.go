// Package assets renders plans as markdown documents.
package assets

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/plan.md.go.tmpl
var fallbackPlanTemplate string

const fallbackPlanTemplateName = "plan.md.go.tmpl"

// PlanTemplate is the data structure for plan templates
type PlanTemplate struct {
	MaterialID  string
	Name        string
	UnitType    string
	Progress    int
	Total       int
	StartDate   string
	Deadline    string // empty for open-ended materials
	Excluded    []string
	Rows        []PlanRow
	Warnings    []string
	GeneratedOn string
}

// PlanRow is one day of a plan
type PlanRow struct {
	Date    string
	Weekday string
	Label   string
	Amount  int
	Status  string // "done", "today", "overloaded" or empty
}

// WritePlan renders templateData with the template at templatePath, or the embedded one when templatePath is empty.
func WritePlan(output io.Writer, templatePath string, templateData PlanTemplate) error {
	tmpl, err := parseTemplateWithFallback(templatePath, fallbackPlanTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

func parseTemplateWithFallback(templatePath string, fallbackTemplate string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	if templatePath == "" {
		tmpl, err := template.New(fallbackPlanTemplateName).
			Funcs(funcMap).
			Parse(fallbackTemplate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse embedded template: %w", err)
		}
		return tmpl, nil
	}

	// If template path is provided, it must be valid.
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("template file not found or accessible: %w", err)
	}

	fileName := filepath.Base(templatePath)
	tmpl, err := template.New(fileName).
		Funcs(funcMap).
		ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template file %s: %w", templatePath, err)
	}
	return tmpl, nil
}
