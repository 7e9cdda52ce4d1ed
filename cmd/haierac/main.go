// Haierac decodes the binary status frames exchanged with Haier air
// conditioners over their network interface.
//
// It decodes single frames given as hex, analyses capture files of many
// frames, browses them interactively, and keeps a small registry of known
// indoor units with their nicknames and last reported state.
//
// Usage:
//
//	haierac [command] [flags]
//
// See 'haierac --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/haierac/internal/config"
	"github.com/muurk/haierac/internal/logging"
	"github.com/muurk/haierac/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "haierac",
	Short: "Haier Air Conditioner Frame Decoder",
	Long: `Decode and analyse the binary status frames reported by Haier air
conditioners.

A response frame carries the unit's MAC address, a sequence number and a
36-byte status block with power, mode, fan speed, temperatures and swing
limits, protected by a one-byte checksum.`,
	Version: version.Version,
	// main prints the error once
	SilenceErrors: true,
	Example: `  # Decode one response frame
  haierac decode response 000027150000000000000000303030374138...

  # Summarise a capture file and remember the units seen
  haierac analyze capture.jsonl --record

  # Browse a capture interactively
  haierac inspect capture.jsonl`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent unless --log-level or HAIERAC_LOG_LEVEL is set
		return logging.Initialize(logLevel)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Device registry file (default $"+config.ConfigEnvVar+" or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level on stderr: debug, info, warn, error (default $"+logging.LogLevelEnvVar+")")

	rootCmd.AddCommand(versionCmd)
}

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFormat == config.FormatJSON {
			return newPrinter(cmd).PrintJSON(version.Get())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "haierac %s\n", version.Full())
		return nil
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", config.FormatText, "Output format: text or json")
}
