package main

import (
	"os"

	"github.com/lintrun/lintrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
