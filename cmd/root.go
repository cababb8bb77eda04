package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile    string
	projectDir string
	envDir     string
	timeout    time.Duration
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "lintrun",
	Short:            "lintrun - run a project's style checkers inside its pre-built environment",
	TraverseChildren: true, // Prioritize subcommands
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(verbose)
	},
	Run: func(cmd *cobra.Command, args []string) {
		// bare `lintrun` behaves like the run subcommand
		runCmd.Run(runCmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func newLogger(verbose bool) *zap.Logger {
	var l *zap.Logger
	var err error
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to the configuration file (default .lintrun.yaml)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", "", "Project directory to lint (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&envDir, "env", "", "Environment directory (overrides configuration)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Overall timeout for the run")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(watchCmd)
}
