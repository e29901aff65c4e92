// Package export writes plans as markdown and PDF documents.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mandolyte/mdtopdf"

	"github.com/at-ishikawa/studyplan/internal/assets"
	"github.com/at-ishikawa/studyplan/internal/material"
	"github.com/at-ishikawa/studyplan/internal/plan"
)

// Exporter writes plan documents into a directory.
type Exporter struct {
	directory    string
	templatePath string
}

// NewExporter creates an Exporter. An empty templatePath uses the embedded template.
func NewExporter(directory, templatePath string) *Exporter {
	return &Exporter{directory: directory, templatePath: templatePath}
}

// NewPlanTemplate builds the template data of a material's plan as seen on today.
func NewPlanTemplate(record material.Record, entries []plan.PlanEntry, warnings []plan.Warning, today plan.Date) assets.PlanTemplate {
	m := record.Material
	data := assets.PlanTemplate{
		MaterialID:  m.ID,
		Name:        m.Name,
		UnitType:    string(m.UnitType),
		Progress:    m.CurrentProgress,
		Total:       m.TotalAmount,
		StartDate:   m.StartDate.String(),
		GeneratedOn: today.String(),
	}
	if data.Name == "" {
		data.Name = m.ID
	}
	if m.Deadline != nil {
		data.Deadline = m.Deadline.String()
	}
	for _, day := range m.ExcludedWeekdays.Normalize() {
		data.Excluded = append(data.Excluded, day.String())
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, assets.PlanRow{
			Date:    e.Date.String(),
			Weekday: e.Date.Weekday().String()[:3],
			Label:   m.Label(e.RangeStart, e.RangeEnd),
			Amount:  e.Amount,
			Status:  rowStatus(m, e, today),
		})
	}
	for _, w := range warnings {
		data.Warnings = append(data.Warnings, w.Message)
	}
	return data
}

func rowStatus(m plan.Material, e plan.PlanEntry, today plan.Date) string {
	switch {
	case m.CurrentProgress >= e.RangeEnd:
		return "done"
	case e.Overloaded:
		return "overloaded"
	case e.Date.Equal(today):
		return "today"
	case e.Date.Before(today):
		return "behind"
	}
	return ""
}

// Markdown writes <directory>/<material ID>.md and returns its path.
func (e *Exporter) Markdown(data assets.PlanTemplate) (string, error) {
	var buf bytes.Buffer
	if err := assets.WritePlan(&buf, e.templatePath, data); err != nil {
		return "", fmt.Errorf("assets.WritePlan() > %w", err)
	}

	if err := os.MkdirAll(e.directory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", e.directory, err)
	}
	path := filepath.Join(e.directory, data.MaterialID+".md")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return path, nil
}

// PDF writes the markdown document and converts it next to it as <material ID>.pdf.
func (e *Exporter) PDF(data assets.PlanTemplate) (string, error) {
	markdownPath, err := e.Markdown(data)
	if err != nil {
		return "", err
	}
	return ConvertMarkdownToPDF(markdownPath)
}

// ConvertMarkdownToPDF converts a markdown file into a PDF file in the same directory.
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if filepath.Ext(markdownPath) != ".md" {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := markdownPath[:len(markdownPath)-len(".md")] + ".pdf"
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
