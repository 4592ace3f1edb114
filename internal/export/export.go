// Package export writes compressed audit artifacts of the journal, so a
// run's complete modification record can be handed off or archived before
// an undo deletes the journal itself.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"relog/internal/journal"
	"relog/internal/paths"
)

// Artifact describes a written audit artifact
type Artifact struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// WriteAuditArtifact serializes the journal and writes it zstd-compressed
// under .relog/export, named after the run id.
func WriteAuditArtifact(root string, j *journal.Journal) (*Artifact, error) {
	exportDir := paths.ExportDir(root)
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding journal: %w", err)
	}

	target := filepath.Join(exportDir, fmt.Sprintf("relog-audit-%s.json.zst", j.RunID))
	file, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("creating artifact: %w", err)
	}

	enc, err := zstd.NewWriter(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("creating compressor: %w", err)
	}

	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		_ = file.Close()
		return nil, fmt.Errorf("writing artifact: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("flushing artifact: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("closing artifact: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}

	return &Artifact{Path: target, SizeBytes: info.Size()}, nil
}

// ReadAuditArtifact decompresses an artifact back into a journal.
// Used to verify round-trips and to inspect archived runs.
func ReadAuditArtifact(path string) (*journal.Journal, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer func() { _ = file.Close() }()

	dec, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer dec.Close()

	var j journal.Journal
	if err := json.NewDecoder(dec.IOReadCloser()).Decode(&j); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}

	return &j, nil
}
