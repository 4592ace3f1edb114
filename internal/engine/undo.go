package engine

import (
	"fmt"
	"os"

	"relog/internal/errors"
	"relog/internal/history"
	"relog/internal/journal"
	"relog/internal/lock"
	"relog/internal/paths"
)

// UndoResult reports the outcome of an undo pass
type UndoResult struct {
	Total     int      `json:"total"`
	Restored  int      `json:"restored"`
	Failed    []string `json:"failed,omitempty"`
	CleanedUp bool     `json:"cleaned_up"`
}

// UndoAll restores every journaled file from its backup, in reverse
// chronological order (later transactions may depend on earlier ones having
// inserted the shared header, so undo peels layers back-to-front). A missing
// backup fails that restoration but processing continues. The journal and
// backup store are deleted only when every restoration succeeds; a partial
// undo leaves both intact so a retry remains possible.
func (e *Engine) UndoAll() (*UndoResult, error) {
	lk, err := lock.Acquire(e.root)
	if err != nil {
		return nil, errors.NewRefactorError(errors.Locked, "cannot acquire engine lock", err)
	}
	defer lk.Release()

	if !journal.Exists(e.root) {
		return &UndoResult{}, nil
	}

	j, err := journal.Load(e.root)
	if err != nil {
		return nil, errors.NewRefactorError(errors.JournalFailure, "cannot load journal", err)
	}

	result := &UndoResult{Total: len(j.Modifications)}
	if result.Total == 0 {
		return result, nil
	}

	for i := len(j.Modifications) - 1; i >= 0; i-- {
		txn := &j.Modifications[i]
		if err := e.restoreFile(txn); err != nil {
			result.Failed = append(result.Failed, txn.Filepath)
			e.logger.Error("Restore failed", map[string]interface{}{
				"file":  txn.Filepath,
				"error": err.Error(),
			})
			continue
		}
		result.Restored++
		e.logger.Info("Restored", map[string]interface{}{
			"file": txn.Filepath,
		})
	}

	// All-or-nothing cleanup: an incomplete undo must never destroy the
	// evidence needed to finish it later.
	if result.Restored == result.Total {
		if err := journal.Delete(e.root); err != nil {
			return result, errors.NewRefactorError(errors.JournalFailure, "cannot delete journal after undo", err)
		}
		if err := os.RemoveAll(paths.BackupDir(e.root)); err != nil {
			e.logger.Warn("Cannot remove backup store", map[string]interface{}{
				"error": err.Error(),
			})
		}
		result.CleanedUp = true
		e.markHistoryUndone(j.RunID)
	}

	return result, nil
}

// restoreFile copies a transaction's backup back over the live file and
// verifies the restored content hashes to the recorded hash-before.
func (e *Engine) restoreFile(txn *journal.FileTransaction) error {
	backupAbs := paths.JoinRootPath(e.root, txn.BackupPath)

	raw, err := os.ReadFile(backupAbs)
	if err != nil {
		return errors.NewRefactorError(errors.RestoreFailure, "backup missing or unreadable", err).WithPath(txn.Filepath)
	}

	if hashBytes(raw) != txn.OriginalHash {
		return errors.NewRefactorError(errors.RestoreFailure,
			fmt.Sprintf("backup content does not match recorded hash %s", txn.OriginalHash), nil).WithPath(txn.Filepath)
	}

	liveAbs := paths.JoinRootPath(e.root, txn.Filepath)
	if err := writeFileAtomic(liveAbs, raw, 0644); err != nil {
		return errors.NewRefactorError(errors.RestoreFailure, "cannot copy backup over live file", err).WithPath(txn.Filepath)
	}

	return nil
}

func (e *Engine) markHistoryUndone(runID string) {
	store, err := history.Open(e.root, e.logger)
	if err != nil {
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.MarkUndone(runID); err != nil {
		e.logger.Warn("Cannot mark run undone in history", map[string]interface{}{
			"run_id": runID,
			"error":  err.Error(),
		})
	}
}
