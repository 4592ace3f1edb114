package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"relog/internal/export"
	"relog/internal/journal"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a compressed audit artifact of the journal",
	Long: `Serialize the current journal as a zstd-compressed audit artifact under
the state directory. Useful before an undo, which deletes the journal.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	root := mustGetRoot()

	if !journal.Exists(root) {
		fmt.Println("No outstanding refactor run to export.")
		return nil
	}

	j, err := journal.Load(root)
	if err != nil {
		return err
	}

	artifact, err := export.WriteAuditArtifact(root, j)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d bytes, %d transactions)\n",
		artifact.Path, artifact.SizeBytes, len(j.Modifications))
	return nil
}
