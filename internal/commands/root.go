package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banksort-dev/banksort/internal/buildinfo"
	"github.com/banksort-dev/banksort/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "banksort",
		Short:   "Bank statement extraction, categorization and reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log := logger.New(verbose)
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newProcessCommand())
	rootCmd.AddCommand(newPnLCommand())

	return rootCmd
}
