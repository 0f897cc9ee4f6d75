// Package main provides the entry point for the pagesmith deployment server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pagesmith",
	Short: "LLM Code Deployment API",
	Long:  "Pagesmith accepts webhook briefs, generates single-page web applications with an LLM, publishes them as GitHub repositories with Pages hosting, and reports the resulting URLs back to the caller.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
