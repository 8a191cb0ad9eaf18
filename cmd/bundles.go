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
	"go.uber.org/zap"
)

const bundlesCheckpoint = "bundles"

var (
	flagBundlesInput string
	flagBundlesSheet string
)

var bundlesCmd = &cobra.Command{
	Use:   "bundles",
	Short: "Produce two-book bundle interiors from a workbook of bundle definitions",
	Long: `Bundles reads bundle definitions (bundle_id, title, description, book1_id,
book2_id) from a workbook sheet, fetches both books of each bundle in
parallel, and renders one combined interior and cover per bundle.

The run checkpoints the number of definitions handled and resumes after it.

Examples:
  paperback bundles --input bundles.xlsx --sheet bundles
  paperback bundles --input bundles.xlsx --workers 2`,
	Args: cobra.NoArgs,
	RunE: runBundles,
}

func init() {
	rootCmd.AddCommand(bundlesCmd)

	bundlesCmd.Flags().StringVar(&flagBundlesInput, "input", "", "Workbook holding the bundle definitions (required)")
	bundlesCmd.Flags().StringVar(&flagBundlesSheet, "sheet", "bundles", "Sheet holding the bundle definitions")
	bundlesCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent bundles (default: workers from config)")
	_ = bundlesCmd.MarkFlagRequired("input")
}

func runBundles(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	p, err := newPipeline(pipeline.AllOutputs())
	if err != nil {
		return err
	}
	store, err := openCheckpoint(ctx, bundlesCheckpoint)
	if err != nil {
		return err
	}
	defer store.Close()

	in, out, closeAll, err := workbooks(flagBundlesInput, cfg.Workbook)
	if err != nil {
		return err
	}
	defer closeAll()

	records, err := in.ReadRecords(flagBundlesSheet)
	if err != nil {
		return err
	}
	start, err := store.Load(ctx)
	if err != nil {
		return err
	}
	if start >= len(records) {
		fmt.Fprintf(os.Stdout, "Nothing to do: all %d bundles are done\n", len(records))
		return nil
	}
	records = records[start:]

	sheetName := "bundles " + sheet.SheetName(time.Now())
	if err := out.EnsureSheet(sheetName, sheet.BundlesHeader); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Processing %d bundles from row %d\n", len(records), start+1)
	sum, runErr := batch.Run(ctx, logger, store, records,
		batch.Options{
			Workers:  workers(),
			Position: func(done int) int { return start + done },
			Flush:    out.Save,
		},
		func(ctx context.Context, rec map[string]string) (sheet.BundleRow, error) {
			spec, err := pipeline.ParseBundle(rec)
			if err != nil {
				return sheet.BundleRow{ID: rec[pipeline.ColBundleID], Title: rec[pipeline.ColTitle]}, err
			}
			return p.ProcessBundle(ctx, spec)
		},
		func(_ map[string]string, row sheet.BundleRow, err error) error {
			if err != nil {
				logger.Warn("bundle failed", zap.String("id", row.ID), zap.Error(err))
				fmt.Fprintf(os.Stderr, "  ✗ %s: %v\n", row.ID, err)
				row = sheet.FailedBundle(row.ID, row.Title, err)
			} else {
				fmt.Fprintf(os.Stdout, "  ✓ %s %s (%d pages)\n", row.ID, row.Title, row.Pages)
			}
			return out.AppendRow(sheetName, row.Cells()...)
		},
	)
	if err := out.Save(); err != nil {
		runErr = errors.Join(runErr, err)
	}

	fmt.Fprintf(os.Stdout, "\n%d/%d bundles handled, %d failed\n", sum.Handled, sum.Total, sum.Failed)
	return runErr
}
