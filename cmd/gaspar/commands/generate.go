package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/typegen"
)

// GenerateCmd generates every configured output
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate every configured output",
	Long: `Parse the configured C# sources and write every model and controller
output listed in the configuration.

An output that cannot be generated (for example string enums requested for
proto3) is skipped without touching its file; the other outputs are still
written and the command exits non-zero listing every failure.

Examples:
  gaspar generate
  gaspar generate --dry-run     # Print to stdout instead of writing`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().Bool("dry-run", false, "Print generated files to stdout instead of writing them")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	artifacts, genErr := build(cmd.Context(), cfg)
	if artifacts == nil && genErr == nil {
		pterm.Warning.Println("No outputs configured")
	}

	if dryRun {
		for _, a := range artifacts {
			fmt.Fprintf(cmd.OutOrStdout(), "==> %s <==\n%s\n", relativePath(cfg, a.Path), a.Content)
		}
	} else {
		if err := typegen.Write(artifacts); err != nil {
			return errors.Wrap(err, "failed to write generated files")
		}
		for _, a := range artifacts {
			pterm.Success.Printfln("Generated %s", relativePath(cfg, a.Path))
		}
	}

	return reportFailures(genErr)
}
