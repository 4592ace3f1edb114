package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"relog/internal/history"
	"relog/internal/logging"
)

var (
	historyFormat string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past refactor runs",
	Long:  "List past runs from the persistent history database, most recent first. History survives undo.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFormat, "format", "human", "Output format (human, json, yaml)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	root := mustGetRoot()
	logger := logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.WarnLevel})

	store, err := history.Open(root, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	if historyFormat != "human" {
		output, err := FormatResponse(runs, OutputFormat(historyFormat))
		if err != nil {
			return err
		}
		fmt.Println(output)
		return nil
	}

	var b strings.Builder
	for _, r := range runs {
		state := "applied"
		if r.Undone {
			state = "undone"
		}
		b.WriteString(fmt.Sprintf("%s  %s  %d files, %d modifications, %d failed (%s)\n",
			r.StartedAt, r.RunID, r.FilesModified, r.TotalModifications, r.FilesFailed, state))
	}
	fmt.Print(b.String())
	return nil
}
