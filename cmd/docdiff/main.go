package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "docdiff",
		Short:         "Compare two versions of a document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")

	root.AddCommand(serveCMD(&configPath), compareCMD(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
}
