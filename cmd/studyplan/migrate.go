package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/studyplan/internal/database"
	"github.com/at-ishikawa/studyplan/internal/datasync"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()
			return database.MigrateDown(db, steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to revert")

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer func() { _ = db.Close() }()
			return database.MigrateUp(db)
		},
	}, down)

	return migrateCmd
}

func newImportCommand() *cobra.Command {
	var from string
	var dryRun bool
	var updateExisting bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import YAML data into the configured storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Storage.Driver != "mysql" && from == cfg.Storage.Directory {
				return fmt.Errorf("--from %s is the configured storage itself", from)
			}

			source, err := datasync.ReadYAML(ctx, from)
			if err != nil {
				return fmt.Errorf("read yaml data: %w", err)
			}

			p, _, err := openPlanner(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(p.Stores.Materials, p.Stores.ProgressLogs, p.Stores.Schedules, out)
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := importer.Import(ctx, source, opts)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			fmt.Fprintln(out, "\nImport Summary:")
			if opts.DryRun {
				fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			fmt.Fprintf(out, "  Materials:      %d new, %d skipped, %d updated\n", result.MaterialsNew, result.MaterialsSkipped, result.MaterialsUpdated)
			fmt.Fprintf(out, "  Plans:          %d replaced, %d skipped\n", result.PlansReplaced, result.PlansSkipped)
			fmt.Fprintf(out, "  Progress logs:  %d new, %d skipped\n", result.ProgressLogsNew, result.ProgressLogsSkipped)
			fmt.Fprintf(out, "  Tasks:          %d new, %d skipped\n", result.TasksNew, result.TasksSkipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "data", "Directory holding the YAML data to import")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be imported without writing")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Update the progress of materials that already exist")
	return cmd
}

