package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gaurav-prasanna/paperback/catalog"
	"github.com/gaurav-prasanna/paperback/core"
	"github.com/gaurav-prasanna/paperback/core/batch"
	"github.com/gaurav-prasanna/paperback/core/pipeline"
	"github.com/gaurav-prasanna/paperback/core/sheet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const booksCheckpoint = "books"

var (
	flagStart        int
	flagEnd          int
	flagIDs          string
	flagLatest       int
	flagLimit        int
	flagWorkers      int
	flagInteriorOnly bool
	flagCoverOnly    bool
	flagWordOnly     bool
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Produce paperbacks for a range of catalog books",
	Long: `Books fetches each catalog entry, segments it, writes catalog copy with the
language model, renders the interior, cover and Word files, and appends one
row per book to the workbook.

Without --start/--end or --ids the run resumes after the last checkpoint and
continues up to the newest catalog release.

Examples:
  paperback books --start 1342 --end 1400
  paperback books --ids 11,74,1342 --interior-only
  paperback books --limit 500 --workers 8`,
	Args: cobra.NoArgs,
	RunE: runBooks,
}

func init() {
	rootCmd.AddCommand(booksCmd)

	booksCmd.Flags().IntVar(&flagStart, "start", 0, "First catalog id of the range")
	booksCmd.Flags().IntVar(&flagEnd, "end", 0, "Last catalog id of the range")
	booksCmd.Flags().StringVar(&flagIDs, "ids", "", "Comma-separated ids or ranges, e.g. 11,74,100-120")
	booksCmd.Flags().IntVar(&flagLatest, "latest", 0, "Newest catalog id when resuming (default: discovered)")
	booksCmd.Flags().IntVar(&flagLimit, "limit", 0, "Process at most this many ids when resuming")
	booksCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent books (default: workers from config)")

	booksCmd.Flags().BoolVar(&flagInteriorOnly, "interior-only", false, "Write only the interior PDF")
	booksCmd.Flags().BoolVar(&flagCoverOnly, "cover-only", false, "Write only the cover PDF")
	booksCmd.Flags().BoolVar(&flagWordOnly, "word-only", false, "Write only the Word file")
	booksCmd.MarkFlagsMutuallyExclusive("interior-only", "cover-only", "word-only")
	booksCmd.MarkFlagsMutuallyExclusive("ids", "start")
	booksCmd.MarkFlagsRequiredTogether("start", "end")
}

func runBooks(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	p, err := newPipeline(selectOutputs())
	if err != nil {
		return err
	}

	// Explicit id lists are one-off runs and leave the checkpoint alone.
	var store core.CheckpointStore
	if flagIDs == "" {
		if store, err = openCheckpoint(ctx, booksCheckpoint); err != nil {
			return err
		}
		defer store.Close()
	}
	ids, err := bookIDs(ctx, store, p)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stdout, "Nothing to do: the catalog has no new books")
		return nil
	}

	wb, err := sheet.Open(cfg.Workbook)
	if err != nil {
		return err
	}
	defer wb.Close()
	sheetName := sheet.SheetName(time.Now())
	if err := wb.EnsureSheet(sheetName, sheet.BooksHeader); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Processing %d books (%d to %d)\n", len(ids), ids[0], ids[len(ids)-1])
	var skipped int
	sum, runErr := batch.Run(ctx, logger, store, ids,
		batch.Options{
			Workers:  workers(),
			Position: func(done int) int { return ids[done-1] },
			Flush:    wb.Save,
		},
		p.ProcessBook,
		func(id int, row sheet.BookRow, err error) error {
			row, ok := pipeline.RecordBook(row, err)
			switch {
			case !ok:
				skipped++
				logger.Info("book skipped", zap.Int("id", id), zap.Error(err))
				return nil
			case err != nil:
				fmt.Fprintf(os.Stderr, "  ✗ %d %s: %v\n", id, row.Title, err)
			default:
				fmt.Fprintf(os.Stdout, "  ✓ %d %s (%d pages)\n", id, row.Title, row.Pages)
			}
			return wb.AppendRow(sheetName, row.Cells()...)
		},
	)
	if err := wb.Save(); err != nil {
		runErr = errors.Join(runErr, err)
	}

	fmt.Fprintf(os.Stdout, "\n%d/%d books handled, %d skipped, %d failed\n",
		sum.Handled, sum.Total, skipped, sum.Failed-skipped)
	return runErr
}

// bookIDs resolves the ids of this run from the flags or, when none are
// given, from the checkpoint and the newest catalog release.
func bookIDs(ctx context.Context, store core.CheckpointStore, p *pipeline.Pipeline) ([]int, error) {
	var ids []int
	switch {
	case flagIDs != "":
		parsed, err := catalog.ParseIDs(flagIDs)
		if err != nil {
			return nil, err
		}
		ids = parsed
	case flagStart > 0 || flagEnd > 0:
		if flagEnd < flagStart {
			return nil, fmt.Errorf("--end %d is before --start %d", flagEnd, flagStart)
		}
		ids = catalog.Range(flagStart, flagEnd)
	default:
		last, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		latest := flagLatest
		if latest == 0 {
			if latest, err = catalog.LatestID(ctx, p.Fetcher, cfg.Catalog.SearchURL); err != nil {
				return nil, err
			}
		}
		logger.Info("resuming", zap.Int("checkpoint", last), zap.Int("latest", latest))
		ids = catalog.Resume(last, latest, flagLimit)
	}
	return catalog.NewQueue(ids...).All(), nil
}

func selectOutputs() pipeline.Outputs {
	switch {
	case flagInteriorOnly:
		return pipeline.Outputs{Interior: true}
	case flagCoverOnly:
		return pipeline.Outputs{Cover: true}
	case flagWordOnly:
		return pipeline.Outputs{Word: true}
	default:
		return pipeline.AllOutputs()
	}
}

func workers() int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return cfg.Workers
}
