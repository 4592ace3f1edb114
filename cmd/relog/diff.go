package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"relog/internal/diff"
	"relog/internal/journal"
)

var diffCmd = &cobra.Command{
	Use:   "diff [path]",
	Short: "Show per-file change stats against the backups",
	Long: `Diff each journaled file's pre-mutation backup against its live content
and report added/removed line counts. With a path argument, only that file
is diffed.`,
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	root := mustGetRoot()

	if !journal.Exists(root) {
		fmt.Println("No outstanding refactor run.")
		return nil
	}

	j, err := journal.Load(root)
	if err != nil {
		return err
	}

	txns := j.Modifications
	if len(args) == 1 {
		txn := j.FindTransaction(args[0])
		if txn == nil {
			return fmt.Errorf("no journaled transaction for %s", args[0])
		}
		txns = []journal.FileTransaction{*txn}
	}

	totalAdded, totalRemoved := 0, 0
	for i := range txns {
		stat, err := diff.StatTransaction(root, &txns[i])
		if err != nil {
			fmt.Printf("  %s: diff failed: %v\n", txns[i].Filepath, err)
			continue
		}
		fmt.Printf("  %s (%s): +%d -%d\n", stat.Filepath, stat.Category, stat.Added, stat.Removed)
		totalAdded += stat.Added
		totalRemoved += stat.Removed
	}

	fmt.Printf("\n%d files, +%d -%d lines\n", len(txns), totalAdded, totalRemoved)
	return nil
}
