package main

import (
	"fmt"
	"os"

	"github.com/assessly-hq/assessly-ai/internal/cli"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "assesslyd",
		Short: "Assessly AI service daemon",
		Long:  "Assessly AI daemon for FAQ chat, document-to-test extraction and answer scoring",
	}

	rootCmd.AddCommand(cli.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
