package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lintrun/lintrun"
	"github.com/lintrun/lintrun/formatter"
	"github.com/lintrun/lintrun/internal/env"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the project directory, environment, and checkers without running anything",
	Run: func(cmd *cobra.Command, args []string) {
		if code := runPreflight(); code != lintrun.ExitOK {
			os.Exit(code)
		}
	},
}

// runPreflight validates every precondition of a run: configuration,
// project directory, environment activation, and checker resolvability.
// No checker is executed.
func runPreflight() int {
	cfg, err := loadConfig()
	if err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		return lintrun.ExitInvalidConfig
	}

	ectx, err := env.Prepare(cfg.ProjectDir, cfg.EnvDir)
	fmt.Print(formatter.CheckLine("execution context", err))
	if err != nil {
		return lintrun.ExitContextError
	}

	failed := false
	for _, checker := range cfg.Checkers {
		_, err := ectx.LookPath(checker.Command)
		fmt.Print(formatter.CheckLine(checker.Name, err))
		if err != nil {
			failed = true
		}
	}
	if failed {
		return lintrun.ExitContextError
	}
	return lintrun.ExitOK
}
