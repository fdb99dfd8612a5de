// Package commands implements the gaspar subcommands.
package commands

import (
	"context"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/csharp"
	"github.com/teranos/gaspar/errors"
	"github.com/teranos/gaspar/extract"
	"github.com/teranos/gaspar/logger"
	"github.com/teranos/gaspar/source"
	"github.com/teranos/gaspar/typegen"
)

// loadConfig loads the file named by --config, or the nearest one
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// build runs one full pass: discover, parse, extract, generate. Artifacts
// of outputs that succeeded are returned even when others failed.
func build(ctx context.Context, cfg *config.Config) ([]typegen.Artifact, error) {
	start := time.Now()
	root := cfg.RootDir()

	files, err := source.Discover(root,
		source.Matcher{Include: cfg.Models.Include, Exclude: cfg.Models.Exclude},
		source.Matcher{Include: cfg.Controllers.Include, Exclude: cfg.Controllers.Exclude},
	)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warnw("No source files matched", logger.FieldLocation, root)
	}

	parsed, err := csharp.NewParser().ParseFiles(ctx, root, files)
	if err != nil {
		return nil, err
	}

	set := extract.Walk(parsed, extract.ResolverFor(cfg))
	artifacts, genErr := typegen.NewGenerator(cfg).Generate(set)

	logger.Infow("Generation pass complete",
		logger.FieldCount, len(artifacts),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return artifacts, genErr
}

// relativePath shortens p for display
func relativePath(cfg *config.Config, p string) string {
	if rel, err := filepath.Rel(cfg.Dir(), p); err == nil {
		return rel
	}
	return p
}

// reportFailures prints every joined generation error with its hints
func reportFailures(err error) error {
	if err == nil {
		return nil
	}
	failures := errors.Flatten(err)
	for _, f := range failures {
		printError(f)
	}
	return errors.Newf("%d output(s) failed", len(failures))
}

// printError prints one failure and its hints
func printError(err error) {
	pterm.Error.Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		pterm.Info.Println(hint)
	}
}
