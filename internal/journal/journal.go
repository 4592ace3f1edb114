// Package journal defines the durable, append-only record of a refactor run.
// The journal is the single source of truth for resume and undo: it is
// flushed at every checkpoint and deleted only after a fully successful undo.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"relog/internal/paths"
)

// SchemaVersion is the journal schema version. Bump on incompatible change.
const SchemaVersion = "1.0"

// ModificationKind distinguishes the two recorded change shapes
type ModificationKind string

const (
	// KindCallRewrite is a rewritten logging call site
	KindCallRewrite ModificationKind = "call-rewrite"
	// KindHeaderInsertion is the injected support-header include
	KindHeaderInsertion ModificationKind = "header-insertion"
)

// Modification is one recorded change within a file transaction
type Modification struct {
	Kind       ModificationKind `json:"kind"`
	Original   string           `json:"original,omitempty"`
	New        string           `json:"new,omitempty"`
	Level      string           `json:"level,omitempty"`
	Category   string           `json:"category,omitempty"`
	Message    string           `json:"message,omitempty"`
	LineNumber int              `json:"line_number"`
}

// FileTransaction records the complete, reversible mutation of one file.
// OriginalHash is computed strictly before any mutation and NewHash strictly
// after the final write; BackupPath points at a byte-identical pre-mutation
// copy that outlives the transaction's journal entry.
type FileTransaction struct {
	Filepath          string         `json:"filepath"`
	Timestamp         string         `json:"timestamp"`
	Category          string         `json:"category"`
	OriginalHash      string         `json:"original_hash"`
	NewHash           string         `json:"new_hash"`
	BackupPath        string         `json:"backup_path"`
	Modifications     []Modification `json:"modifications"`
	ModificationCount int            `json:"modification_count"`
}

// Journal is the persisted run record. Modifications are ordered exactly as
// files were processed; undo replays them in reverse.
type Journal struct {
	Version        string            `json:"version"`
	RunID          string            `json:"run_id"`
	StartTime      string            `json:"start_time"`
	EndTime        string            `json:"end_time,omitempty"`
	Modifications  []FileTransaction `json:"modifications"`
	CompletedFiles []string          `json:"completed_files"`
	FailedFiles    []string          `json:"failed_files"`
	TotalProcessed int               `json:"total_processed,omitempty"`
}

// New creates an empty journal for a fresh run
func New() *Journal {
	return &Journal{
		Version:        SchemaVersion,
		RunID:          uuid.NewString(),
		StartTime:      time.Now().UTC().Format(time.RFC3339),
		Modifications:  []FileTransaction{},
		CompletedFiles: []string{},
		FailedFiles:    []string{},
	}
}

// Exists reports whether a journal file is present for the given root
func Exists(root string) bool {
	_, err := os.Stat(paths.JournalPath(root))
	return err == nil
}

// Load reads the journal for the given root
func Load(root string) (*Journal, error) {
	data, err := os.ReadFile(paths.JournalPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}

	var j Journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parsing journal: %w", err)
	}
	if j.Version != SchemaVersion {
		return nil, fmt.Errorf("unsupported journal schema version %q", j.Version)
	}

	return &j, nil
}

// Save persists the journal durably. The write goes to a temporary file in
// the same directory and is renamed over the journal so a crash mid-write
// never leaves a truncated journal behind.
func (j *Journal) Save(root string) error {
	if _, err := paths.EnsureStateDir(root); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding journal: %w", err)
	}

	target := paths.JournalPath(root)
	tmp, err := os.CreateTemp(filepath.Dir(target), "journal-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp journal: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing temp journal: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("syncing temp journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp journal: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing journal: %w", err)
	}

	return nil
}

// Delete removes the journal file for the given root
func Delete(root string) error {
	return os.Remove(paths.JournalPath(root))
}

// Append adds a completed file transaction and marks its file completed
func (j *Journal) Append(txn FileTransaction) {
	j.Modifications = append(j.Modifications, txn)
	j.CompletedFiles = append(j.CompletedFiles, txn.Filepath)
}

// RecordFailure marks a file as failed for this run
func (j *Journal) RecordFailure(relPath string) {
	j.FailedFiles = append(j.FailedFiles, relPath)
}

// CompletedSet returns the completed files as a lookup set
func (j *Journal) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(j.CompletedFiles))
	for _, f := range j.CompletedFiles {
		set[f] = true
	}
	return set
}

// FindTransaction returns the recorded transaction for a relative path, or nil
func (j *Journal) FindTransaction(relPath string) *FileTransaction {
	for i := range j.Modifications {
		if j.Modifications[i].Filepath == relPath {
			return &j.Modifications[i]
		}
	}
	return nil
}

// TotalModifications sums modification counts across all transactions
func (j *Journal) TotalModifications() int {
	total := 0
	for _, m := range j.Modifications {
		total += m.ModificationCount
	}
	return total
}
