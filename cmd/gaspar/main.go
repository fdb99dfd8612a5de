package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/gaspar/cmd/gaspar/commands"
	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/logger"
)

var rootCmd = &cobra.Command{
	Use:   "gaspar",
	Short: "gaspar - API contract generator for annotated C# sources",
	Long: `gaspar - Extract models, enums and controller actions from annotated C#
sources and generate client contracts for several consumers.

Outputs:
  typescript - model interfaces and enums
  angular    - HttpClient service per controller
  ocelot     - gateway route document
  proto      - proto3 messages and enums

Available commands:
  generate - Generate every configured output (default)
  check    - Verify generated files are up to date
  watch    - Regenerate when sources or configuration change
  init     - Write a starter configuration file
  version  - Show version information

Examples:
  gaspar                        # Generate using ./gaspar.{json,yaml,toml}
  gaspar --config api/gaspar.json
  gaspar generate --dry-run     # Print generated files to stdout
  gaspar check                  # Exit 1 when generated files are stale
  gaspar watch -v`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(jsonOutput, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
	RunE: commands.GenerateCmd.RunE,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (default: nearest gaspar.{json,yaml,yml,toml})")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	rootCmd.Flags().Bool("dry-run", false, "Print generated files to stdout instead of writing them")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
