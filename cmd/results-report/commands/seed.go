package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"resultsdash/internal/cli"
	"resultsdash/internal/config"
	applog "resultsdash/internal/log"
	"resultsdash/internal/storage"
)

func newSeedCmd(e *env) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy the configured results source into the SQLite results table",
		Long: `Read the configured results source (RESULTS_SOURCE, usually the xlsx
workbook) and replace the content of the SQLite results table with it.
Point RESULTS_SOURCE=sqlite at the database afterwards to serve from it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.cfg.ResultsSource == config.SourceSQLite {
				return errors.New("seed needs a non-sqlite RESULTS_SOURCE to copy from")
			}
			if dbPath == "" {
				dbPath = e.cfg.SQLiteDBPath
			}

			ctx := cmd.Context()
			start := time.Now()
			logger := e.logger.With(applog.FieldOperation, applog.OpSeed)

			src, err := cli.OpenSource(ctx, e.cfg, logger.Logger)
			if err != nil {
				return fmt.Errorf("open %s source: %w", e.cfg.ResultsSource, err)
			}
			defer src.Close()

			table, err := src.Reader.ReadResults(ctx)
			if err != nil {
				return fmt.Errorf("read %s source: %w", e.cfg.ResultsSource, err)
			}

			repo, err := storage.NewSQLiteRepository(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			n, err := repo.ReplaceResults(ctx, table)
			if err != nil {
				return fmt.Errorf("seed %s: %w", dbPath, err)
			}

			logger.InfoContext(ctx, "Results table seeded",
				applog.FieldSource, e.cfg.ResultsSource,
				applog.FieldRows, n,
				applog.FieldDuration, time.Since(start).Milliseconds())
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d rows into %s\n", n, dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default SQLITE_DB_PATH)")

	return cmd
}
