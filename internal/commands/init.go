package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/banksort-dev/banksort/internal/config"
)

// starterRules is the custom rules file written by init. It shows one
// example of each rule kind, commented out.
const starterRules = `# Custom categorization rules. These run before the built-in rules.
#
# priority_rules:
#   - name: office_rent
#     type: keyword
#     keywords: ["blueridge properties"]
#     category: Bills & Utilities
#     subcategory: Rent
#
# custom_merchants:
#   "corner chai house": [Food & Dining, Restaurants]
#
# amount_rules:
#   - name: flag_large_debits
#     min_amount: 100000
#     type: debit
#     flag_for_review: true
#
# keyword_groups:
#   salary_indicators: [salary, sal credit, payroll]

priority_rules: []
custom_merchants: {}
amount_rules: []
keyword_groups: {}
`

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default banksort.yaml and custom rules file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	configPath := filepath.Join(dir, "banksort.yaml")
	rulesPath := filepath.Join(dir, "custom_rules.yaml")
	if !force {
		for _, p := range []string{configPath, rulesPath} {
			if _, err := os.Stat(p); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			}
		}
	}

	cfg := config.Default()
	cfg.Categorization.RulesPath = rulesPath
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := os.WriteFile(rulesPath, []byte(starterRules), 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized banksort configuration at %s\n", dir)
	return nil
}
