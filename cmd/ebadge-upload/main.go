// Command ebadge-upload uploads static images and animated content (GIFs
// and short videos) to a battery-powered e-Badge display over Bluetooth
// Low Energy. Each upload takes one source file; slideshows assembled
// from several still images are not supported.
//
// Usage:
//
//	ebadge-upload upload <file> [flags]
//	ebadge-upload scan [flags]
//	ebadge-upload status [flags]
//
// See 'ebadge-upload --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ebadge-upload/internal/logging"
	"github.com/muurk/ebadge-upload/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "ebadge-upload",
	Short: "e-Badge BLE display upload controller",
	Long: `A standalone utility for uploading images and animations to
battery-powered e-Badge displays over Bluetooth Low Energy.

Provides device discovery, single-image upload, GIF/video animation
upload, and device status queries. Slideshows built from several still
images are not supported.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent if unset")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ebadge-upload %s\n", version.Full())
	},
}
