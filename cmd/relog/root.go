package main

import (
	"github.com/spf13/cobra"

	"relog/internal/version"
)

var (
	// rootFlag is the CLI --root flag value: the target tree root
	rootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "relog",
	Short: "relog - transactional logging refactor engine",
	Long: `relog reclassifies ad-hoc debug logging calls across a native source tree
into a categorized debug-macro scheme. Every run is journaled, every touched
file is backed up before mutation, and the whole run can be undone exactly.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("relog version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Target source tree root (default: current directory)")
}
