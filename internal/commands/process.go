package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/banksort-dev/banksort/internal/categorize"
	"github.com/banksort-dev/banksort/internal/classifier"
	"github.com/banksort-dev/banksort/internal/config"
	"github.com/banksort-dev/banksort/internal/extract"
	"github.com/banksort-dev/banksort/internal/logger"
	"github.com/banksort-dev/banksort/internal/profile"
	"github.com/banksort-dev/banksort/internal/reconcile"
	"github.com/banksort-dev/banksort/internal/report"
	"github.com/banksort-dev/banksort/internal/rules"
	"github.com/banksort-dev/banksort/internal/runlog"
)

type processOptions struct {
	configPath  string
	rulesPath   string
	threshold   float64
	noClassify  bool
	noReconcile bool
	opening     string
	csvOut      string
	xlsxOut     string
	logDir      string

	sheet      string
	dateCol    int
	descCol    int
	debitCol   int
	creditCol  int
	amountCol  int
	balanceCol int
}

func newProcessCommand() *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process <statement>",
		Short: "Extract, categorize and reconcile a bank statement",
		Long: `Process reads a CSV or XLSX bank statement, extracts normalized
transactions, categorizes them through the rule engine (with an optional
classifier fallback), verifies the running balance, and writes a
transactions CSV plus an Excel report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "config file (default banksort.yaml when present)")
	cmd.Flags().StringVar(&opts.rulesPath, "rules", "", "custom rules YAML (overrides config)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "minimum classifier confidence (overrides config)")
	cmd.Flags().BoolVar(&opts.noClassify, "no-classify", false, "disable the classifier fallback")
	cmd.Flags().BoolVar(&opts.noReconcile, "no-reconcile", false, "skip balance verification")
	cmd.Flags().StringVar(&opts.opening, "opening-balance", "", "opening balance (default: inferred from the first row)")
	cmd.Flags().StringVar(&opts.csvOut, "csv", "", "transactions CSV output path")
	cmd.Flags().StringVar(&opts.xlsxOut, "xlsx", "", "Excel report output path")
	cmd.Flags().StringVar(&opts.logDir, "log-dir", ".banksort", "directory for the run log")

	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "worksheet name (XLSX, default: first sheet)")
	cmd.Flags().IntVar(&opts.dateCol, "date-col", -1, "date column index (0-based, default: auto-detect)")
	cmd.Flags().IntVar(&opts.descCol, "desc-col", -1, "description column index")
	cmd.Flags().IntVar(&opts.debitCol, "debit-col", -1, "debit column index")
	cmd.Flags().IntVar(&opts.creditCol, "credit-col", -1, "credit column index")
	cmd.Flags().IntVar(&opts.amountCol, "amount-col", -1, "combined signed-amount column index")
	cmd.Flags().IntVar(&opts.balanceCol, "balance-col", -1, "balance column index")

	return cmd
}

func runProcess(cmd *cobra.Command, path string, opts *processOptions) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Extraction.
	extractor, err := buildExtractor(path, opts)
	if err != nil {
		return err
	}
	result, err := extractor.Extract(path)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}
	summary := result.Summary()
	log.Info().
		Str("profile", result.Profile.Name).
		Int("transactions", summary.Total).
		Int("issues", len(result.Issues)).
		Msg("statement extracted")
	for _, issue := range result.Issues {
		log.Warn().Ints("rows", issue.Rows).Str("issue", issue.Message).Msg("validation issue")
	}

	// Categorization.
	var custom *rules.CustomRules
	if rulesPath := firstNonEmpty(opts.rulesPath, cfg.Categorization.RulesPath); rulesPath != "" {
		custom, err = rules.LoadCustomRules(rulesPath)
		if err != nil {
			return fmt.Errorf("loading custom rules: %w", err)
		}
	}
	threshold := opts.threshold
	if threshold <= 0 {
		threshold = cfg.Categorization.Threshold
	}
	catOpts := []categorize.Option{
		categorize.WithLogger(log),
		categorize.WithThreshold(threshold),
	}
	if cfg.Categorization.Classify && !opts.noClassify {
		client, err := classifier.New(ctx, classifier.Config{
			Model:   cfg.Classifier.Model,
			Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
			Retries: cfg.Classifier.Retries,
			Log:     log,
		})
		if err != nil {
			log.Warn().Err(err).Msg("classifier unavailable, unmatched transactions will be flagged")
		} else {
			catOpts = append(catOpts, categorize.WithClassifier(client))
		}
	}
	stats := categorize.New(rules.NewEngine(custom), catOpts...).CategorizeAll(ctx, result.Transactions)
	log.Info().
		Int("rules", stats.RuleMatched).
		Int("classified", stats.ClassifierMatched).
		Int("flagged", stats.Flagged).
		Msg("transactions categorized")

	// Reconciliation.
	reconciled := ""
	if !opts.noReconcile {
		rec := reconcile.Reconciler{}
		if tol, err := decimal.NewFromString(cfg.Reconcile.Tolerance); err == nil {
			rec.Tolerance = tol
		}
		if opts.opening != "" {
			opening, err := decimal.NewFromString(opts.opening)
			if err != nil {
				return fmt.Errorf("parsing opening balance %q: %w", opts.opening, err)
			}
			rec.OpeningBalance = decimal.NewNullDecimal(opening)
		}
		rep, err := rec.Reconcile(result.Transactions)
		switch {
		case errors.Is(err, reconcile.ErrNoTransactions):
			// nothing to verify
		case err != nil:
			return fmt.Errorf("reconciling: %w", err)
		case rep.Passed():
			reconciled = "pass"
			log.Info().
				Str("opening", rep.OpeningBalance.StringFixed(2)).
				Str("closing", rep.ClosingBalance.StringFixed(2)).
				Msg("balance verified")
		default:
			reconciled = "fail"
			log.Warn().Int("mismatches", rep.Mismatches).Msg("balance verification failed")
			for _, entry := range rep.Entries {
				if entry.Mismatch {
					log.Warn().
						Str("description", entry.Transaction.Description).
						Str("difference", entry.Difference.Decimal.StringFixed(2)).
						Str("reason", entry.Reason).
						Msg("balance mismatch")
				}
			}
		}
	}

	// Outputs.
	csvPath := firstNonEmpty(opts.csvOut, outputName(path, "_transactions.csv"))
	if err := writeCSV(csvPath, result); err != nil {
		return err
	}
	xlsxPath := firstNonEmpty(opts.xlsxOut, outputName(path, "_report.xlsx"))
	if err := report.WriteWorkbook(xlsxPath, result.Transactions); err != nil {
		return fmt.Errorf("writing Excel report: %w", err)
	}

	if err := runlog.Append(opts.logDir, []runlog.Entry{{
		Timestamp:    time.Now(),
		RunID:        runlog.NewRunID(),
		Source:       path,
		Transactions: stats.Total,
		RuleMatched:  stats.RuleMatched,
		Classified:   stats.ClassifierMatched,
		Flagged:      stats.Flagged,
		Reconciled:   reconciled,
	}}); err != nil {
		log.Warn().Err(err).Msg("writing run log")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Processed %d transactions (%d debits, %d credits)\n",
		summary.Total, summary.DebitCount, summary.CreditCount)
	fmt.Fprintf(out, "Categorized: %d by rules, %d by classifier, %d flagged for review\n",
		stats.RuleMatched, stats.ClassifierMatched, stats.Flagged)
	if reconciled != "" {
		fmt.Fprintf(out, "Balance verification: %s\n", reconciled)
	}
	fmt.Fprintf(out, "Wrote %s and %s\n", csvPath, xlsxPath)
	return nil
}

func writeCSV(path string, result *extract.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := report.WriteTransactions(f, result.Transactions); err != nil {
		return fmt.Errorf("writing transactions CSV: %w", err)
	}
	return nil
}

// buildExtractor picks the extractor for the file and applies the sheet and
// column-override flags.
func buildExtractor(path string, opts *processOptions) (extract.Extractor, error) {
	registry := extract.DefaultRegistry(profile.NewRegistry())
	extractor, err := registry.ForFile(path)
	if err != nil {
		return nil, err
	}

	overrides := columnOverrides(opts)
	switch e := extractor.(type) {
	case *extract.CSV:
		e.Overrides = overrides
	case *extract.XLSX:
		e.Sheet = opts.sheet
		e.Overrides = overrides
	}
	return extractor, nil
}

// columnOverrides returns nil unless at least one column flag was given.
func columnOverrides(opts *processOptions) *extract.Roles {
	cols := []int{opts.dateCol, opts.descCol, opts.debitCol, opts.creditCol, opts.amountCol, opts.balanceCol}
	set := false
	for _, c := range cols {
		if c >= 0 {
			set = true
			break
		}
	}
	if !set {
		return nil
	}

	roles := extract.NewRoles()
	roles.Date = opts.dateCol
	if opts.descCol >= 0 {
		roles.Description = []int{opts.descCol}
	}
	roles.Debit = opts.debitCol
	roles.Credit = opts.creditCol
	roles.Amount = opts.amountCol
	roles.Balance = opts.balanceCol
	return &roles
}

// loadConfig loads an explicit config path, falls back to banksort.yaml in
// the working directory, and finally to the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	if _, err := os.Stat("banksort.yaml"); err == nil {
		cfg, err := config.Load("banksort.yaml")
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	return config.Default(), nil
}

// outputName derives an output path from the input file, next to it.
func outputName(input, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), base+suffix)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
