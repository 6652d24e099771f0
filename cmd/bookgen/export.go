package main

import (
	"fmt"
	"os"
	"time"

	"bookgen/internal/book"
	"bookgen/internal/content"
	"bookgen/internal/export"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		cf        configFlags
		dsn       string
		start     int64
		count     int64
		batchSize int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a generated range into Postgres",
		Long: `Generates the range in batches and bulk-loads it into generated_books under a
new export run. Apply the migrations first (cmd/migrate).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cf.resolve(cmd, a.profile)
			if err != nil {
				return err
			}
			dsn = firstNonEmpty(dsn, a.profile.DSN, os.Getenv("DB_DSN"))
			if dsn == "" {
				return fmt.Errorf("no database: pass --dsn or set DB_DSN")
			}

			pool, err := pgxpool.New(cmd.Context(), dsn)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer pool.Close()

			svc := export.NewService(book.NewGenerator(content.NewRegistry()),
				export.NewPostgresRepo(pool, time.Minute), a.logger)

			bar, err := pterm.DefaultProgressbar.
				WithTotal(int(count)).
				WithTitle("Exporting").
				WithShowCount(true).
				WithShowElapsedTime(true).
				WithWriter(cmd.ErrOrStderr()).
				Start()
			if err != nil {
				return err
			}

			var shown int64
			run, err := svc.Run(cmd.Context(), export.Request{
				Config:    cfg,
				Start:     start,
				Count:     count,
				BatchSize: batchSize,
				Progress: func(written, _ int64) {
					bar.Add(int(written - shown))
					shown = written
				},
			})
			_, _ = bar.Stop()
			if err != nil {
				if run != nil {
					return fmt.Errorf("export run %s failed: %w", run.ID, err)
				}
				return err
			}

			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("export run %s wrote %s books (%s)",
				run.ID, humanize.Comma(run.BooksWritten), cfg.Fingerprint())
			return nil
		},
	}
	cf.register(cmd.Flags())
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres DSN (defaults to the profile or DB_DSN)")
	cmd.Flags().Int64Var(&start, "start", 0, "index of the first record")
	cmd.Flags().Int64VarP(&count, "count", "n", 1000, "number of records")
	cmd.Flags().IntVar(&batchSize, "batch-size", export.DefaultBatchSize, "records per COPY batch")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
