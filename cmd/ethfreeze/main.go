package main

import (
	"os"

	"github.com/spf13/cobra"

	"ethfreeze/cmd/cli"
)

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "ethfreeze",
		Short:   "extract Ethereum JSON-RPC data into columnar files",
		Version: Version,
	}
	rootCmd.AddCommand(cli.FreezeCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
