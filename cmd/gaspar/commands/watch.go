package commands

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/gaspar/config"
	"github.com/teranos/gaspar/logger"
	"github.com/teranos/gaspar/typegen"
)

// WatchCmd regenerates on every source or configuration change
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate when sources or configuration change",
	Long: `Generate once, then watch the configuration file and the source tree and
regenerate after every burst of changes. Changing root in the configuration
moves the watch to the new source tree. Stop with Ctrl-C.

Examples:
  gaspar watch
  gaspar watch -v               # Log every regeneration`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &watchSession{cfg: cfg, debounce: config.DefaultDebounce, regenerate: regenerate}
	regenerate(ctx, cfg)
	return s.run(ctx)
}

// regenerate runs one pass and writes what succeeded
func regenerate(ctx context.Context, cfg *config.Config) {
	artifacts, genErr := build(ctx, cfg)
	if err := typegen.Write(artifacts); err != nil {
		printError(err)
		return
	}
	pterm.Success.Printfln("Generated %d file(s)", len(artifacts))
	if err := reportFailures(genErr); err != nil {
		pterm.Warning.Println(err.Error())
	}
}

// watchSession keeps a watcher on the current configuration's source tree,
// replacing it whenever a reload moves root.
type watchSession struct {
	mu         sync.Mutex
	cfg        *config.Config
	debounce   time.Duration
	regenerate func(ctx context.Context, cfg *config.Config)
}

func (s *watchSession) config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *watchSession) setConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// run watches until ctx is cancelled
func (s *watchSession) run(ctx context.Context) error {
	for {
		moved, err := s.watch(ctx)
		if err != nil || !moved || ctx.Err() != nil {
			return err
		}
		logger.Infow("Source root changed, watching new tree", logger.FieldLocation, s.config().RootDir())
	}
}

// watch runs one watcher and reports whether it stopped because root moved
func (s *watchSession) watch(ctx context.Context) (bool, error) {
	cfg := s.config()
	w, err := config.NewWatcher(cfg.Path, cfg.RootDir())
	if err != nil {
		return false, err
	}
	w.SetDebounce(s.debounce)

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	moved := false

	w.OnChange(func(changed []string) error {
		current := s.config()
		if w.ConfigChanged(changed) {
			reloaded, err := config.Load(current.Path)
			if err != nil {
				printError(err)
				return nil
			}
			s.setConfig(reloaded)
			logger.Infow("Configuration reloaded", logger.FieldFile, reloaded.Path)
			if reloaded.RootDir() != current.RootDir() {
				moved = true
				s.regenerate(ctx, reloaded)
				cancel()
				return nil
			}
			current = reloaded
		}
		logger.Debugw("Sources changed", logger.FieldCount, len(changed))
		s.regenerate(ctx, current)
		return nil
	})

	pterm.Info.Printfln("Watching %s", cfg.RootDir())
	if err := w.Run(wctx); err != nil {
		return false, err
	}
	return moved, nil
}
