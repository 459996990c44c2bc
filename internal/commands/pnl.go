package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banksort-dev/banksort/internal/logger"
	"github.com/banksort-dev/banksort/internal/pnl"
	"github.com/banksort-dev/banksort/internal/report"
)

type pnlOptions struct {
	minScore float64
	pages    string
	output   string
}

func newPnLCommand() *cobra.Command {
	opts := &pnlOptions{}

	cmd := &cobra.Command{
		Use:   "pnl <report.pdf>",
		Short: "Extract Profit & Loss line items from a financial PDF",
		Long: `Pnl scans the PDF for pages that look like a Profit & Loss
statement, recovers the line items from each qualifying page, and writes
them as CSV. A single page number in --pages skips identification and
extracts that page directly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPnL(cmd, args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.minScore, "min-score", 0, "page identification threshold (default 3.0)")
	cmd.Flags().StringVar(&opts.pages, "pages", "", "restrict the scan, e.g. 40-60, or a single page to extract")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "line items CSV output path")

	return cmd
}

func runPnL(cmd *cobra.Command, path string, opts *pnlOptions) error {
	log := logger.FromContext(cmd.Context())

	extractor := &pnl.Extractor{MinScore: opts.minScore}

	var (
		items   []pnl.LineItem
		matches []pnl.PageMatch
		err     error
	)
	first, last, single, perr := parsePages(opts.pages)
	if perr != nil {
		return perr
	}
	if single > 0 {
		items, err = extractor.ExtractPage(path, single)
	} else {
		extractor.FirstPage, extractor.LastPage = first, last
		items, matches, err = extractor.Extract(path)
	}
	if err != nil {
		return fmt.Errorf("extracting P&L from %s: %w", path, err)
	}

	for _, m := range matches {
		log.Info().
			Int("page", m.Page).
			Float64("score", m.Score).
			Strs("keywords", m.Keywords).
			Msg("profit and loss page identified")
	}

	out := firstNonEmpty(opts.output, outputName(path, "_pnl.csv"))
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()
	if err := report.WriteLineItems(f, items); err != nil {
		return fmt.Errorf("writing line items: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d line items to %s\n", len(items), out)
	return nil
}

// parsePages understands "" (whole document), "N" (one page), and "A-B"
// (inclusive range).
func parsePages(spec string) (first, last, single int, err error) {
	if spec == "" {
		return 0, 0, 0, nil
	}
	if a, b, ok := strings.Cut(spec, "-"); ok {
		first, err = strconv.Atoi(strings.TrimSpace(a))
		if err == nil {
			last, err = strconv.Atoi(strings.TrimSpace(b))
		}
		if err != nil || first < 1 || last < first {
			return 0, 0, 0, fmt.Errorf("invalid page range %q", spec)
		}
		return first, last, 0, nil
	}
	single, err = strconv.Atoi(strings.TrimSpace(spec))
	if err != nil || single < 1 {
		return 0, 0, 0, fmt.Errorf("invalid page %q", spec)
	}
	return 0, 0, single, nil
}
