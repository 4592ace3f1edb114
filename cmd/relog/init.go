package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"relog/internal/config"
	"relog/internal/paths"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the state directory with default config and rules",
	Long: `Create the .relog state directory at the target root and write the default
config.json and a starter rules.toml with the built-in category table and
keyword sets, ready to edit.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing config and rules")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root := mustGetRoot()

	if _, err := paths.EnsureStateDir(root); err != nil {
		return err
	}

	configPath := paths.ConfigPath(root)
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := config.DefaultConfig().Save(root); err != nil {
		return err
	}

	rulesPath := paths.RulesPath(root)
	if _, err := os.Stat(rulesPath); os.IsNotExist(err) || initForce {
		if err := config.WriteDefaultRules(root); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized %s\n", paths.StateDir(root))
	fmt.Printf("  %s\n", configPath)
	fmt.Printf("  %s\n", rulesPath)
	return nil
}
