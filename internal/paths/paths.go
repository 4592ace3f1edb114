// Package paths centralizes the layout of the .relog state directory and
// the canonical repo-relative path form used in the journal.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// StateDirName is the engine state directory at the target tree root
	StateDirName = ".relog"
	// BackupsSubdir holds pristine pre-mutation copies, mirrored by relative path
	BackupsSubdir = "backups"
	// ExportSubdir holds compressed audit artifacts
	ExportSubdir = "export"
	// JournalFileName is the durable run journal
	JournalFileName = "journal.json"
	// LockFileName is the exclusive lock guarding a root against concurrent runs
	LockFileName = "lock"
	// ConfigFileName is the engine configuration file
	ConfigFileName = "config.json"
	// RulesFileName is the user-curated category and keyword rules file
	RulesFileName = "rules.toml"
	// HistoryDBFileName is the persistent run-history database
	HistoryDBFileName = "history.db"
)

// StateDir returns the state directory for a target tree root
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// EnsureStateDir creates the state directory if needed and returns its path
func EnsureStateDir(root string) (string, error) {
	dir := StateDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// JournalPath returns the journal file path for a root
func JournalPath(root string) string {
	return filepath.Join(StateDir(root), JournalFileName)
}

// BackupDir returns the backup store root for a root
func BackupDir(root string) string {
	return filepath.Join(StateDir(root), BackupsSubdir)
}

// ExportDir returns the audit-export directory for a root
func ExportDir(root string) string {
	return filepath.Join(StateDir(root), ExportSubdir)
}

// ConfigPath returns the config file path for a root
func ConfigPath(root string) string {
	return filepath.Join(StateDir(root), ConfigFileName)
}

// RulesPath returns the rules file path for a root
func RulesPath(root string) string {
	return filepath.Join(StateDir(root), RulesFileName)
}

// HistoryDBPath returns the run-history database path for a root
func HistoryDBPath(root string) string {
	return filepath.Join(StateDir(root), HistoryDBFileName)
}

// CanonicalizePath converts an absolute path to a root-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to the tree root
// - Converts backslashes to forward slashes
func CanonicalizePath(absolutePath string, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

// IsWithinRoot checks if a path is within the target tree root
func IsWithinRoot(path string, root string) bool {
	canonical, err := CanonicalizePath(path, root)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(canonical, "..")
}

// JoinRootPath joins a tree root with a canonical (forward-slash) path
func JoinRootPath(root string, canonicalPath string) string {
	normalized := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalized, "/")
	return filepath.Join(append([]string{root}, parts...)...)
}
