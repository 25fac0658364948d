// Package cmd implements the pose-detector command line.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pose-detector",
	Short: "Real-time body pose recognition from a camera feed",
	Long: `Pose Detector reads frames from a camera, extracts body landmarks with a
pose estimation service and classifies the posture (T-Pose, Hands Up,
Sitting, ...). The annotated video is shown in a window or in the browser.

Running without a subcommand starts the detection loop with the settings
from the environment.`,
	RunE:          runDetector,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	addRunFlags(rootCmd)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

// outputJSON writes data to stdout as indented JSON.
func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
