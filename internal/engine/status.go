package engine

import (
	"relog/internal/journal"
)

// recentFileCount is how many recently processed files a status report shows
const recentFileCount = 5

// RecentFile summarizes one recently processed file
type RecentFile struct {
	Filepath          string `json:"filepath"`
	Category          string `json:"category"`
	ModificationCount int    `json:"modification_count"`
}

// StatusReport summarizes the outstanding run recorded in the journal
type StatusReport struct {
	RunID              string       `json:"run_id"`
	StartTime          string       `json:"start_time"`
	EndTime            string       `json:"end_time,omitempty"`
	ProcessedFiles     int          `json:"processed_files"`
	TotalModifications int          `json:"total_modifications"`
	FailedFiles        []string     `json:"failed_files,omitempty"`
	RecentFiles        []RecentFile `json:"recent_files,omitempty"`
}

// ReadStatus reads the journal and builds a status report. Pure read, no
// mutation. Returns (nil, nil) when no journal exists for the root.
func ReadStatus(root string) (*StatusReport, error) {
	if !journal.Exists(root) {
		return nil, nil
	}

	j, err := journal.Load(root)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		RunID:              j.RunID,
		StartTime:          j.StartTime,
		EndTime:            j.EndTime,
		ProcessedFiles:     len(j.Modifications),
		TotalModifications: j.TotalModifications(),
		FailedFiles:        j.FailedFiles,
	}

	start := len(j.Modifications) - recentFileCount
	if start < 0 {
		start = 0
	}
	for _, txn := range j.Modifications[start:] {
		report.RecentFiles = append(report.RecentFiles, RecentFile{
			Filepath:          txn.Filepath,
			Category:          txn.Category,
			ModificationCount: txn.ModificationCount,
		})
	}

	return report, nil
}
