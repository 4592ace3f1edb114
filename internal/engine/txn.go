// Package engine implements the transactional rewrite: per-file transactions
// with verified backups, the sequential batch driver with journal
// checkpoints, reverse-order undo, and the read-only status reporter.
package engine

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"relog/internal/classify"
	"relog/internal/config"
	"relog/internal/errors"
	"relog/internal/journal"
	"relog/internal/logging"
	"relog/internal/paths"
	"relog/internal/rewrite"
)

// Status is the per-file outcome variant. Errors never unwind across file
// boundaries; every file resolves to exactly one of these.
type Status string

const (
	// StatusModified means the file was rewritten and journaled
	StatusModified Status = "modified"
	// StatusSkipped means the file needed no transaction (non-fatal)
	StatusSkipped Status = "skipped"
	// StatusFailed means this file's transaction aborted (batch continues)
	StatusFailed Status = "failed"
)

// Outcome is the result of applying one file transaction
type Outcome struct {
	Path   string // root-relative
	Status Status
	Reason string
	Code   errors.ErrorCode
	Txn    *journal.FileTransaction
	Err    error
}

// Engine applies the transactional rewrite against one target tree root
type Engine struct {
	root       string
	cfg        *config.Config
	classifier *classify.Classifier
	rewriter   *rewrite.Rewriter
	logger     *logging.Logger
}

// New creates an engine for the given root with immutable configuration
func New(root string, cfg *config.Config, rules classify.Rules, logger *logging.Logger) *Engine {
	return &Engine{
		root:       root,
		cfg:        cfg,
		classifier: classify.New(rules),
		rewriter: rewrite.New(rewrite.Config{
			Namespace:     cfg.Rewrite.Namespace,
			Macro:         cfg.Rewrite.Macro,
			HeaderInclude: cfg.Rewrite.HeaderInclude,
		}),
		logger: logger,
	}
}

// Root returns the target tree root the engine operates on
func (e *Engine) Root() string {
	return e.root
}

// ApplyFile runs the complete file transaction for one path:
// existence and denylist checks, candidate scan, verified backup, rewrite,
// idempotent header insertion, atomic persistence. The original file is
// never mutated without a verified backup, and a failed write leaves the
// original readable because new content lands in a temp file first.
func (e *Engine) ApplyFile(absPath string) Outcome {
	rel, err := paths.CanonicalizePath(absPath, e.root)
	if err != nil {
		return failedOutcome(absPath, errors.InternalError, "cannot canonicalize path", err)
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return Outcome{Path: rel, Status: StatusSkipped, Reason: "file does not exist", Code: errors.NotFound}
	}
	if err != nil {
		return failedOutcome(rel, errors.InternalError, "cannot stat file", err)
	}

	base := filepath.Base(absPath)
	for _, denied := range e.cfg.Denylist {
		if base == denied {
			return skippedOutcome(rel, "denylisted: defines the macro being introduced")
		}
	}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		return failedOutcome(rel, errors.InternalError, "cannot read file", err)
	}
	content := string(raw)

	if !e.rewriter.ContainsCandidate(content) {
		return skippedOutcome(rel, "no candidate logging calls")
	}

	// Hash-before is computed strictly before any mutation
	hashBefore := hashBytes(raw)

	backupRel, err := e.backupFile(rel, raw, hashBefore)
	if err != nil {
		return failedOutcome(rel, errors.BackupFailure, "cannot create verified backup", err)
	}

	category := e.classifier.ResolveCategory(absPath)

	lines := strings.Split(content, "\n")
	var mods []journal.Modification
	for i, line := range lines {
		newLine, rec := e.rewriter.RewriteLine(line, category)
		if rec != nil {
			rec.LineNumber = i + 1
			mods = append(mods, *rec)
			lines[i] = newLine
		}
	}

	if len(mods) == 0 {
		// No-op: discard the backup, distinguished from failure
		_ = os.Remove(paths.JoinRootPath(e.root, backupRel))
		return skippedOutcome(rel, "no modifications needed")
	}

	newContent := strings.Join(lines, "\n")
	newContent, headerRec := e.rewriter.EnsureHeader(newContent)
	if headerRec != nil {
		mods = append(mods, *headerRec)
	}

	if err := writeFileAtomic(absPath, []byte(newContent), info.Mode()); err != nil {
		return failedOutcome(rel, errors.WriteFailure, "cannot persist rewritten content", err)
	}

	// Hash-after is computed strictly after the final write
	hashAfter := hashBytes([]byte(newContent))

	return Outcome{
		Path:   rel,
		Status: StatusModified,
		Txn: &journal.FileTransaction{
			Filepath:          rel,
			Timestamp:         time.Now().UTC().Format(time.RFC3339),
			Category:          string(category),
			OriginalHash:      hashBefore,
			NewHash:           hashAfter,
			BackupPath:        backupRel,
			Modifications:     mods,
			ModificationCount: len(mods),
		},
	}
}

// backupFile copies the original bytes into the backup store at the mirrored
// relative path and verifies the copy hashes identically before returning.
func (e *Engine) backupFile(rel string, raw []byte, wantHash string) (string, error) {
	backupAbs := filepath.Join(paths.BackupDir(e.root), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(backupAbs), 0755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	if err := os.WriteFile(backupAbs, raw, 0644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}

	written, err := os.ReadFile(backupAbs)
	if err != nil {
		return "", fmt.Errorf("verifying backup: %w", err)
	}
	if hashBytes(written) != wantHash {
		return "", fmt.Errorf("backup verification failed: content mismatch")
	}

	return paths.StateDirName + "/" + paths.BackupsSubdir + "/" + rel, nil
}

func skippedOutcome(rel, reason string) Outcome {
	return Outcome{Path: rel, Status: StatusSkipped, Reason: reason, Code: errors.Excluded}
}

func failedOutcome(rel string, code errors.ErrorCode, reason string, err error) Outcome {
	return Outcome{
		Path:   rel,
		Status: StatusFailed,
		Reason: reason,
		Code:   code,
		Err:    errors.NewRefactorError(code, reason, err).WithPath(rel),
	}
}

// hashBytes computes the SHA256 hex digest of content
func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return fmt.Sprintf("%x", sum)
}

// writeFileAtomic writes content to a temp file in the target's directory
// and renames it over the target, so a failed write never corrupts the
// original.
func writeFileAtomic(target string, data []byte, mode fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".relog-write-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
