// Package cmd implements the nekotrayd command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	foreground bool
	port       int
)

var rootCmd = &cobra.Command{
	Use:   "nekotrayd",
	Short: "Run the nekotray daemon",
	Long: `nekotrayd runs a cat in the system tray that runs faster as CPU load rises.

With --foreground the cat is drawn in the terminal instead of the tray.`,
	SilenceUsage: true,
	RunE:         runDaemon,
}

// Execute runs the daemon command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "Draw the cat in this terminal instead of the system tray")
	rootCmd.Flags().IntVar(&port, "port", -1, "Port for the control API (0 for dynamic allocation; default from settings)")
}
