package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"relog/internal/engine"
)

var (
	statusFormat string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the outstanding run recorded in the journal",
	Long:  "Display start time, processed file count, total modifications, and the most recently processed files. Pure read.",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusFormat, "format", "human", "Output format (human, json, yaml)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	root := mustGetRoot()

	report, err := engine.ReadStatus(root)
	if err != nil {
		return err
	}
	if report == nil {
		fmt.Println("No outstanding refactor run.")
		return nil
	}

	if statusFormat != "human" {
		output, err := FormatResponse(report, OutputFormat(statusFormat))
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	}

	fmt.Println(formatStatusHuman(report))
	return nil
}

func formatStatusHuman(report *engine.StatusReport) string {
	var b strings.Builder

	b.WriteString("Refactor status:\n")
	b.WriteString(fmt.Sprintf("  Run:                 %s\n", report.RunID))
	b.WriteString(fmt.Sprintf("  Started:             %s\n", report.StartTime))
	if report.EndTime != "" {
		b.WriteString(fmt.Sprintf("  Finished:            %s\n", report.EndTime))
	}
	b.WriteString(fmt.Sprintf("  Processed files:     %d\n", report.ProcessedFiles))
	b.WriteString(fmt.Sprintf("  Total modifications: %d\n", report.TotalModifications))

	if len(report.FailedFiles) > 0 {
		b.WriteString(fmt.Sprintf("  Failed files:        %d\n", len(report.FailedFiles)))
	}

	if len(report.RecentFiles) > 0 {
		b.WriteString("\nRecently processed:\n")
		for _, f := range report.RecentFiles {
			b.WriteString(fmt.Sprintf("  %s (%s, %d modifications)\n",
				f.Filepath, f.Category, f.ModificationCount))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
