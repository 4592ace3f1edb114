package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore every journaled file from its backup",
	Long: `Restore all files recorded in the journal from their pre-mutation backups,
in reverse order of modification. The journal and backup store are deleted
only if every restoration succeeds; otherwise both are kept for a retry.`,
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	root := mustGetRoot()
	eng := mustGetEngine(root)

	result, err := eng.UndoAll()
	if err != nil {
		return err
	}

	if result.Total == 0 {
		fmt.Println("Nothing to undo: no journal or no recorded modifications.")
		return nil
	}

	fmt.Printf("Restored %d/%d files\n", result.Restored, result.Total)
	if result.CleanedUp {
		fmt.Println("All restorations succeeded; journal and backup store removed.")
		return nil
	}

	fmt.Println("Partial undo: journal and backups kept intact for retry.")
	for _, f := range result.Failed {
		fmt.Printf("  failed: %s\n", f)
	}
	os.Exit(1)
	return nil
}
