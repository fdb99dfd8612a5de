package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/typegen"
)

// CheckCmd checks that generated files are up to date
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated files are up to date",
	Long: `Generate every output in memory and compare it with the files on disk.

Exit codes:
  0 - Generated files are up to date
  1 - Files are missing or out of date (unified diff shown), or generation failed

Examples:
  gaspar check
  gaspar check --config api/gaspar.json`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	artifacts, genErr := build(cmd.Context(), cfg)
	diffs, err := typegen.Compare(artifacts)
	if err != nil {
		return errors.Wrap(err, "failed to compare generated files")
	}

	for _, d := range diffs {
		if d.Missing {
			pterm.Error.Printfln("%s is missing", relativePath(cfg, d.Path))
			continue
		}
		pterm.Error.Printfln("%s is out of date", relativePath(cfg, d.Path))
		fmt.Fprintln(cmd.OutOrStdout(), d.Diff)
	}

	if err := reportFailures(genErr); err != nil {
		return err
	}
	if len(diffs) > 0 {
		return errors.WithHint(
			errors.Newf("%d generated file(s) out of date", len(diffs)),
			"run 'gaspar generate' to update them")
	}

	pterm.Success.Println("Generated files are up to date")
	return nil
}
