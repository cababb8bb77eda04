package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lintrun/lintrun"
	"github.com/lintrun/lintrun/formatter"
	"github.com/lintrun/lintrun/internal/config"
	"github.com/lintrun/lintrun/internal/env"
	"github.com/lintrun/lintrun/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured checkers and propagate their exit status",
	Run: func(cmd *cobra.Command, args []string) {
		// A clean run falls through to the normal zero exit.
		if code := runCheckers(); code != lintrun.ExitOK {
			os.Exit(code)
		}
	},
}

// runCheckers performs the full sequence: load configuration, prepare the
// execution context, run every checker, and map the outcome to an exit
// code. Context preparation failures are surfaced before any checker is
// invoked.
func runCheckers() int {
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

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	r := runner.New(logger, ectx)
	results, err := r.Run(ctx, cfg.Checkers)

	fmt.Fprint(os.Stderr, formatter.Summary(results))

	if errors.Is(err, env.ErrNotFound) {
		return lintrun.ExitContextError
	}
	return runner.ExitCode(results)
}

// loadConfig reads the configuration file and applies the flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if projectDir != "" {
		cfg.ProjectDir = projectDir
	}
	if envDir != "" {
		cfg.EnvDir = envDir
	}
	return cfg, cfg.Validate()
}
