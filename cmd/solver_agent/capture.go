package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/challenge-solver/internal/capture"
	"github.com/jonathan/challenge-solver/internal/manifest"
)

var captureCommand = &cobra.Command{
	Use:   "capture",
	Short: "Capture a live challenge page into a manifest file",
	Long: `Renders the page in a headless browser, extracts the instruction markup and
the candidate images, and writes them as a challenge manifest. The manifest
can be replayed later with 'solve --challenge'.`,
	RunE: runCaptureCmd,
}

var (
	capturePageURL string
	captureOut     string
	captureVerbose bool
)

func init() {
	captureCommand.Flags().StringVar(&capturePageURL, "page-url", "", "URL of the challenge page (required)")
	captureCommand.Flags().StringVarP(&captureOut, "out", "o", "challenge.json", "Path to write the manifest to")
	captureCommand.Flags().BoolVarP(&captureVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = captureCommand.MarkFlagRequired("page-url")

	rootCmd.AddCommand(captureCommand)
}

func runCaptureCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	opts := capture.DefaultOptions()
	opts.Verbose = captureVerbose
	challenge, err := capture.FromPage(ctx, capturePageURL, opts)
	if err != nil {
		return err
	}

	m := manifest.Manifest{
		Name:        capturePageURL,
		Instruction: challenge.Instruction,
	}
	for _, u := range challenge.ImageURLs {
		m.Images = append(m.Images, manifest.ImageRef{DataURL: u})
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("captured challenge is incomplete: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(captureOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s (%d images)\n", captureOut, len(m.Images))
	return nil
}
