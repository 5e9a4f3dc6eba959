package main

import (
	"os"

	"github.com/grovetools/clueitems/cli"
	"github.com/grovetools/clueitems/cmd"
	"github.com/grovetools/clueitems/version"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	cli.SetVersionTemplate(rootCmd, version.GetInfo())

	if err := rootCmd.Execute(); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		_ = cli.NewErrorHandler(verbose, os.Stderr).Handle(err)
		os.Exit(1)
	}
}
