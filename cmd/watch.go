package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lintrun/lintrun"
	"github.com/lintrun/lintrun/formatter"
	"github.com/lintrun/lintrun/internal/env"
	"github.com/lintrun/lintrun/runner"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the checkers whenever watched files change",
	Run: func(cmd *cobra.Command, args []string) {
		if code := runWatch(); code != lintrun.ExitOK {
			os.Exit(code)
		}
	},
}

func runWatch() int {
	cfg, err := loadConfig()
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return lintrun.ExitInvalidConfig
	}

	ectx, err := env.Prepare(cfg.ProjectDir, cfg.EnvDir)
	if err != nil {
		logger.Error("Failed to prepare execution context", zap.Error(err))
		return lintrun.ExitContextError
	}

	// The bar would fight the streamed checker output on every re-run.
	r := runner.New(logger, ectx, runner.WithProgress(false))

	watcher, err := runner.NewWatcher(r, cfg, func(results []runner.Result) {
		fmt.Fprint(os.Stderr, formatter.Summary(results))
	})
	if err != nil {
		logger.Error("Failed to start watcher", zap.Error(err))
		return lintrun.ExitContextError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Watching for changes", zap.String("dir", ectx.WorkDir))
	if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Watcher stopped", zap.Error(err))
		return 1
	}
	return lintrun.ExitOK
}
