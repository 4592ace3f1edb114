//go:build windows

package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"relog/internal/paths"
)

// Lock represents an exclusive lock on a target tree root.
// Note: Windows locking uses a simple PID-based check, not a true flock.
type Lock struct {
	path string
	file *os.File
}

// Acquire attempts to acquire an exclusive lock for the given root.
// On Windows this uses a simple file-based check (not truly atomic).
func Acquire(root string) (*Lock, error) {
	stateDir, err := paths.EnsureStateDir(root)
	if err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	path := filepath.Join(stateDir, paths.LockFileName)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if _, err := file.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("writing PID to lock file: %w", err)
	}

	return &Lock{path: path, file: file}, nil
}

// Release releases the lock and removes the lock file.
func (l *Lock) Release() {
	if l == nil || l.file == nil {
		return
	}

	_ = l.file.Close()
	_ = os.Remove(l.path)
}
