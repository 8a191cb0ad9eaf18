package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gaurav-prasanna/paperback/core/batch"
	"github.com/gaurav-prasanna/paperback/core/pipeline"
	"github.com/gaurav-prasanna/paperback/core/sheet"
	"github.com/spf13/cobra"
)

const enrichCheckpoint = "enrich"

var (
	flagEnrichInput string
	flagEnrichSheet string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Add publication and author death years to a workbook of titles",
	Long: `Enrich reads rows (reference_id, title, author) from a workbook sheet and
asks the language model for each title's first publication year and its
author's year of death. Unknown years are recorded as "----".

Examples:
  paperback enrich --input titles.xlsx --sheet titles`,
	Args: cobra.NoArgs,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().StringVar(&flagEnrichInput, "input", "", "Workbook holding the titles (required)")
	enrichCmd.Flags().StringVar(&flagEnrichSheet, "sheet", "titles", "Sheet holding the titles")
	enrichCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent requests (default: workers from config)")
	_ = enrichCmd.MarkFlagRequired("input")
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	copywriter, err := newCopywriter()
	if err != nil {
		return err
	}
	p := &pipeline.Pipeline{Copy: copywriter, Log: logger}

	store, err := openCheckpoint(ctx, enrichCheckpoint)
	if err != nil {
		return err
	}
	defer store.Close()

	in, out, closeAll, err := workbooks(flagEnrichInput, cfg.Workbook)
	if err != nil {
		return err
	}
	defer closeAll()

	records, err := in.ReadRecords(flagEnrichSheet)
	if err != nil {
		return err
	}
	start, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if start >= len(records) {
		fmt.Fprintf(os.Stdout, "Nothing to do: all %d rows are done\n", len(records))
		return nil
	}
	records = records[start:]

	sheetName := "enrich " + sheet.SheetName(time.Now())
	if err := out.EnsureSheet(sheetName, sheet.EnrichmentHeader); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Enriching %d rows from row %d\n", len(records), start+1)
	sum, runErr := batch.Run(ctx, logger, store, records,
		batch.Options{
			Workers:  workers(),
			Position: func(done int) int { return start + done },
			Flush:    out.Save,
		},
		func(ctx context.Context, rec map[string]string) (sheet.EnrichmentRow, error) {
			return p.Enrich(ctx, rec), nil
		},
		func(_ map[string]string, row sheet.EnrichmentRow, _ error) error {
			fmt.Fprintf(os.Stdout, "  ✓ %s %s: %s / %s\n", row.ReferenceID, row.Title, row.PublishedYear, row.DeathYear)
			return out.AppendRow(sheetName, row.Cells()...)
		},
	)
	if err := out.Save(); err != nil {
		runErr = errors.Join(runErr, err)
	}

	fmt.Fprintf(os.Stdout, "\n%d/%d rows enriched\n", sum.Handled, sum.Total)
	return runErr
}
