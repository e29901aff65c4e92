package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplan/internal/cli"
	"github.com/at-ishikawa/studyplan/internal/export"
)

func newPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show plans",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <material id>",
		Short: "Show the persisted plan of a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			record, entries, err := p.Plan(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("show plan: %w", err)
			}
			cli.NewPrinter(cmd.OutOrStdout()).Plan(record, entries, nil, p.Today())
			return nil
		},
	})
	return cmd
}

func newExportCommand() *cobra.Command {
	var generatePDF bool
	var templatePath string

	cmd := &cobra.Command{
		Use:   "export <material id>",
		Short: "Write a material's plan as markdown, or PDF with --pdf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cfg, err := openPlanner(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			record, entries, err := p.Plan(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load plan: %w", err)
			}

			exporter := export.NewExporter(cfg.Outputs.ExportDirectory, templatePath)
			data := export.NewPlanTemplate(record, entries, nil, p.Today())
			var path string
			if generatePDF {
				path, err = exporter.PDF(data)
			} else {
				path, err = exporter.Markdown(data)
			}
			if err != nil {
				return fmt.Errorf("export plan: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&generatePDF, "pdf", false, "Generate a PDF next to the markdown file")
	cmd.Flags().StringVar(&templatePath, "template", "", "Custom markdown template path")
	return cmd
}
