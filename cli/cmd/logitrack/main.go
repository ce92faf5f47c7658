package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "logitrack",
		Short: "Terminal client for the LogiTrack transport management API",
		Long: `logitrack is the terminal client for LogiTrack.

Sign in once and your session is kept locally until you sign out or
the server expires it. Set LOGITRACK_API_URL to your API address.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		registerCmd(),
		whoamiCmd(),
		resetPasswordCmd(),
		otsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
