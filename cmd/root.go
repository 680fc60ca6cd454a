package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/dubber-api/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dubber-api",
	Short: "Dubber API server",
	Long: `Dubber API - an on-demand machine dubbing server for streaming media

The server turns a video's transcript into translated speech while the
consumer watches: captions are fetched and merged into speakable segments,
translated in batches in the background, and synthesized just ahead of the
reported playback position.

Features:
  • Caption fetch with transcription fallback
  • Position-driven audio production with look-ahead
  • Persisted cross-session result cache
  • Whole-chunk dubbing via a remote provider`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it
func loadConfig() {
	// Version and help never need config
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
