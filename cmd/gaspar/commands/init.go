package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gaspar/config"
)

// InitCmd writes a starter configuration
var InitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Long: `Write a starter configuration with one output of every kind.
The format follows the file extension unless --format is given.

Examples:
  gaspar init                   # writes gaspar.toml
  gaspar init gaspar.yaml
  gaspar init cfg/api --format yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	InitCmd.Flags().String("format", "", "Configuration format: toml or yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := "gaspar.toml"
	if len(args) == 1 {
		path = args[0]
	}
	format, _ := cmd.Flags().GetString("format")

	if err := config.WriteSample(path, format); err != nil {
		return err
	}
	pterm.Success.Printfln("Wrote %s", path)
	return nil
}
