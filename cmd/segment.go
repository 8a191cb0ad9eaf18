package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gaurav-prasanna/paperback/catalog"
	"github.com/gaurav-prasanna/paperback/core"
	"github.com/gaurav-prasanna/paperback/core/output"
	"github.com/gaurav-prasanna/paperback/core/policy"
	"github.com/gaurav-prasanna/paperback/core/render"
	"github.com/gaurav-prasanna/paperback/core/segment"
	"github.com/spf13/cobra"
)

var (
	flagJSON     bool
	flagMarkdown bool
	flagStdout   bool
)

// segmentCmd runs the segmenter alone on one catalog entry or a local text
// file: fetch → parse header → segment → render → write.
var segmentCmd = &cobra.Command{
	Use:   "segment <id|file>",
	Short: "Split one book into its segments",
	Long: `Segment fetches a catalog entry (or reads a local text file), splits it into
publisher notes, contents, preface, body and appendix, and writes the
result as JSON or Markdown to the segments folder of the run.

Examples:
  paperback segment 1342 --json
  paperback segment ./pg1342.txt --markdown --stdout`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	rootCmd.AddCommand(segmentCmd)

	segmentCmd.Flags().BoolVar(&flagJSON, "json", false, "Output structured JSON")
	segmentCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Output Markdown")
	segmentCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Print instead of writing to the run folder")
}

func runSegment(cmd *cobra.Command, args []string) error {
	renderer, err := selectRenderer()
	if err != nil {
		return err
	}
	seg, err := segment.New(cfg.Segment)
	if err != nil {
		return err
	}

	book, err := loadRaw(cmd, args[0])
	if err != nil {
		return err
	}
	book.Meta = segment.ParseHeader(book.raw)
	book.Segments = seg.Segment(book.raw, book.Meta.Language)
	book.Segments = policy.New(cfg.Policy).Apply(book.Segments)

	rendered, err := renderer.Render(core.Volume{
		Title:  book.Meta.Title,
		Author: book.Meta.Author,
		Books:  []core.Book{book.Book},
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if flagStdout {
		_, err = os.Stdout.Write(rendered.Data)
		return err
	}
	writer, err := output.New(cfg.OutputDir, time.Now())
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	name, err := writer.Write(book.stem, output.Segments, renderer.Extension(), rendered.Data)
	if err != nil {
		return err
	}
	d := book.Segments.Detection
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", writer.Path(output.Segments, name))
	fmt.Fprintf(os.Stdout, "  threshold %d, contents %t, preface %t, back matter %t, noise %v\n",
		d.Threshold, d.Contents, d.Preface, d.BackMatter, d.Noise)
	return nil
}

type rawBook struct {
	core.Book
	raw  string
	stem string
}

// loadRaw reads arg as a catalog id, or else as a local file.
func loadRaw(cmd *cobra.Command, arg string) (rawBook, error) {
	if id, err := strconv.Atoi(arg); err == nil && id > 0 {
		url := catalog.TextURL(cfg.Catalog.TextURL, id)
		res, err := newFetcher().Fetch(cmd.Context(), url)
		if err != nil {
			return rawBook{}, fmt.Errorf("fetch: %w", err)
		}
		return rawBook{Book: core.Book{ID: id, URL: url}, raw: res.Body, stem: arg}, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return rawBook{}, fmt.Errorf("reading %s: %w", arg, err)
	}
	stem := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	return rawBook{raw: string(data), stem: stem}, nil
}

// selectRenderer picks the output format. Exactly one must be chosen.
func selectRenderer() (core.Renderer, error) {
	switch {
	case flagJSON && flagMarkdown:
		return nil, fmt.Errorf("only one output format allowed per run")
	case flagMarkdown:
		return render.NewMarkdownRenderer(), nil
	case flagJSON:
		return render.NewJSONRenderer(), nil
	default:
		return nil, fmt.Errorf("exactly one output format is required: --json or --markdown")
	}
}
