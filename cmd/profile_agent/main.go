// Package main provides the entry point for the profile extractor CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "profile_agent",
	Short:         "Profile Extractor",
	Long:          "Profile Extractor turns resumes (PDF) and company or school websites into normalized profiles, combining heuristics with optional AI enhancement.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
