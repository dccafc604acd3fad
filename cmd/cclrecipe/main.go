package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frederic-klein/cclrecipe/internal/logging"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
)

var (
	logLevel string
	verbose  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cclrecipe",
		Short: "Package recipe for the libccl header-only library",
		Long: "cclrecipe drives the libccl package lifecycle: it resolves the library version from its " +
			"CMake declaration, generates the CMake toolchain and dependency files, builds and tests " +
			"through CMake, and declares the package metadata.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logLevel
			if verbose {
				level = "debug"
			}
			logging.SetDefaultLogger("cclrecipe", version, level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (same as --log-level debug)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newCreateCmd(),
		newPackageIDCmd(),
		newInspectCmd(),
		newProfilesCmd(),
	)
	return rootCmd
}
