package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lintrun/lintrun/internal/config"
)

// initCmd: lintrun init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new lintrun configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			path = config.DefaultFile
		}
		if err := config.Save(config.Default(), path); err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			return
		}
		fmt.Printf("Configuration file created/updated: %s\n", path)
	},
}
