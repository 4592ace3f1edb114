// Package diff inspects what an outstanding run changed by diffing each
// journaled backup against its live file. It shells out to git for the
// unified diff and parses the output into structured per-file stats.
package diff

import (
	"os/exec"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"relog/internal/journal"
	"relog/internal/paths"
)

// FileStat summarizes the changes to one file relative to its backup
type FileStat struct {
	Filepath string `json:"filepath"`
	Category string `json:"category"`
	Added    int    `json:"added"`
	Removed  int    `json:"removed"`
}

// StatTransaction diffs a transaction's backup against the live file and
// returns added/removed line counts. A byte-identical pair yields zero
// counts, which after an undo is the expected result.
func StatTransaction(root string, txn *journal.FileTransaction) (*FileStat, error) {
	backupAbs := paths.JoinRootPath(root, txn.BackupPath)
	liveAbs := paths.JoinRootPath(root, txn.Filepath)

	output, err := runGitDiff(backupAbs, liveAbs)
	if err != nil {
		return nil, err
	}

	stat := &FileStat{Filepath: txn.Filepath, Category: txn.Category}
	if strings.TrimSpace(output) == "" {
		return stat, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(output))
	if err != nil {
		return nil, err
	}

	for _, fd := range fileDiffs {
		for _, hunk := range fd.Hunks {
			added, removed := countHunkLines(hunk)
			stat.Added += added
			stat.Removed += removed
		}
	}

	return stat, nil
}

// runGitDiff executes git diff --no-index between two paths.
// git exits 1 when the files differ; that is not an error here.
func runGitDiff(oldPath, newPath string) (string, error) {
	cmd := exec.Command("git", "diff", "--no-index", "--", oldPath, newPath)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return string(output), nil
		}
		return "", err
	}

	return string(output), nil
}

// countHunkLines counts added and removed lines in a hunk body
func countHunkLines(hunk *godiff.Hunk) (added, removed int) {
	for _, line := range strings.Split(string(hunk.Body), "\n") {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '+':
			added++
		case '-':
			removed++
		}
	}
	return added, removed
}
