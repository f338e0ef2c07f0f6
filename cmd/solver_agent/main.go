// Package main provides the entry point for the visual challenge solver.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "solver_agent",
	Short: "Visual challenge solver",
	Long:  "Solver for pick-the-image challenges: interprets the instruction markup, segments the candidate images, and selects the image the rule asks for.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
