package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"relog/internal/errors"
	"relog/internal/history"
	"relog/internal/journal"
	"relog/internal/lock"
	"relog/internal/paths"
)

// Summary aggregates the outcome counts of one process run
type Summary struct {
	RunID              string `json:"run_id"`
	Scanned            int    `json:"scanned"`
	Modified           int    `json:"modified"`
	Skipped            int    `json:"skipped"`
	Failed             int    `json:"failed"`
	TotalModifications int    `json:"total_modifications"`
}

// Process runs the batch: enumerates candidates (or uses the explicit list),
// applies a file transaction per candidate, checkpoints the journal every
// CheckpointInterval modified files, and persists it once more at run end.
// Per-file failures are recorded and reported; only journal or lock errors
// abort the run.
func (e *Engine) Process(explicit []string) (*Summary, error) {
	lk, err := lock.Acquire(e.root)
	if err != nil {
		return nil, errors.NewRefactorError(errors.Locked, "cannot acquire engine lock", err)
	}
	defer lk.Release()

	var j *journal.Journal
	if journal.Exists(e.root) {
		j, err = journal.Load(e.root)
		if err != nil {
			return nil, errors.NewRefactorError(errors.JournalFailure, "cannot load existing journal", err)
		}
		e.logger.Info("Resuming outstanding run", map[string]interface{}{
			"run_id":    j.RunID,
			"completed": len(j.CompletedFiles),
		})
	} else {
		j = journal.New()
	}

	files, err := e.enumerate(explicit)
	if err != nil {
		return nil, err
	}

	summary := &Summary{RunID: j.RunID, Scanned: len(files)}
	completed := j.CompletedSet()
	sinceCheckpoint := 0

	for _, absPath := range files {
		rel, relErr := paths.CanonicalizePath(absPath, e.root)
		if relErr == nil && completed[rel] {
			e.verifyResumed(j, rel, absPath, summary)
			continue
		}

		outcome := e.ApplyFile(absPath)
		switch outcome.Status {
		case StatusModified:
			j.Append(*outcome.Txn)
			summary.Modified++
			summary.TotalModifications += outcome.Txn.ModificationCount
			sinceCheckpoint++
			e.logger.Info("Modified", map[string]interface{}{
				"file":          outcome.Path,
				"category":      outcome.Txn.Category,
				"modifications": outcome.Txn.ModificationCount,
			})

			if sinceCheckpoint >= e.cfg.CheckpointInterval {
				if err := j.Save(e.root); err != nil {
					return nil, errors.NewRefactorError(errors.JournalFailure, "cannot checkpoint journal", err)
				}
				sinceCheckpoint = 0
			}

		case StatusSkipped:
			summary.Skipped++
			e.logger.Debug("Skipped", map[string]interface{}{
				"file":   outcome.Path,
				"reason": outcome.Reason,
			})

		case StatusFailed:
			j.RecordFailure(outcome.Path)
			summary.Failed++
			e.logger.Error("Failed", map[string]interface{}{
				"file":  outcome.Path,
				"error": outcome.Err.Error(),
			})
		}
	}

	j.EndTime = time.Now().UTC().Format(time.RFC3339)
	j.TotalProcessed = len(j.Modifications)
	if err := j.Save(e.root); err != nil {
		return nil, errors.NewRefactorError(errors.JournalFailure, "cannot persist journal", err)
	}

	e.recordHistory(j, summary)

	return summary, nil
}

// verifyResumed handles a file already listed as completed by an outstanding
// run. The recorded hash-after is re-verified against the file's current
// content; a mismatch means the file changed since it was rewritten and is
// reported as a per-file failure rather than silently skipped.
func (e *Engine) verifyResumed(j *journal.Journal, rel, absPath string, summary *Summary) {
	txn := j.FindTransaction(rel)
	if txn == nil {
		summary.Skipped++
		return
	}

	current, err := os.ReadFile(absPath)
	if err != nil || hashBytes(current) != txn.NewHash {
		j.RecordFailure(rel)
		summary.Failed++
		e.logger.Warn("Completed file changed on disk since rewrite", map[string]interface{}{
			"file": rel,
		})
		return
	}

	summary.Skipped++
	e.logger.Debug("Skipped", map[string]interface{}{
		"file":   rel,
		"reason": "already completed by outstanding run",
	})
}

// enumerate returns the ordered candidate list. An explicit path list wins;
// otherwise the whole tree is walked, pruning excluded directory names and
// keeping files whose base name matches an include pattern. Walk order is
// lexical, so journal ordering is deterministic for a given tree.
func (e *Engine) enumerate(explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		files := make([]string, 0, len(explicit))
		for _, p := range explicit {
			if filepath.IsAbs(p) {
				files = append(files, p)
			} else {
				files = append(files, paths.JoinRootPath(e.root, p))
			}
		}
		return files, nil
	}

	excluded := make(map[string]bool, len(e.cfg.ExcludeDirs))
	for _, d := range e.cfg.ExcludeDirs {
		excluded[d] = true
	}

	var files []string
	err := filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			e.logger.Warn("Cannot access path during scan", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil
		}

		if d.IsDir() {
			if path != e.root && excluded[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		for _, pattern := range e.cfg.IncludePatterns {
			if ok, _ := filepath.Match(pattern, d.Name()); ok {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewRefactorError(errors.InternalError, "tree scan failed", err)
	}

	return files, nil
}

// recordHistory appends the run to the persistent history database.
// History is advisory; failures are logged, never fatal to the run.
func (e *Engine) recordHistory(j *journal.Journal, summary *Summary) {
	store, err := history.Open(e.root, e.logger)
	if err != nil {
		e.logger.Warn("Cannot open history database", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	defer func() { _ = store.Close() }()

	err = store.RecordRun(history.Run{
		RunID:              j.RunID,
		StartedAt:          j.StartTime,
		FinishedAt:         j.EndTime,
		FilesModified:      len(j.Modifications),
		FilesFailed:        len(j.FailedFiles),
		TotalModifications: j.TotalModifications(),
	})
	if err != nil {
		e.logger.Warn("Cannot record run history", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
