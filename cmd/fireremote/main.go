// Fireremote is a network remote control for Amazon Fire TV devices.
//
// It discovers devices over mDNS, pairs with them through the on-screen
// PIN handshake, and sends navigation, media, and text commands over the
// device's REST API. No ADB setup or USB cable required.
//
// Usage:
//
//	fireremote [command] [flags]
//
// Running without arguments launches the interactive remote.
// See 'fireremote --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/fireremote/internal/logging"
	"github.com/muurk/fireremote/internal/version"
)

func main() {
	_ = logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fireremote",
	Short: "Fire TV Network Remote Control",
	Long: `A network remote control for Amazon Fire TV devices.

Discovers devices over mDNS, pairs through the on-screen PIN handshake,
and sends navigation, media, and text commands over the local network.

If no command is specified, the interactive remote will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the interactive remote when no subcommand
		// provided
		return runRemote(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fireremote %s (commit: %s)\n", version.Version, version.Commit)
	},
}
