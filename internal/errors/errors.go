package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// NotFound indicates the target file vanished before processing
	NotFound ErrorCode = "NOT_FOUND"
	// Excluded indicates the file is denylisted or has no candidate calls
	Excluded ErrorCode = "EXCLUDED"
	// BackupFailure indicates a verified pre-mutation copy could not be created
	BackupFailure ErrorCode = "BACKUP_FAILURE"
	// WriteFailure indicates rewritten content could not be persisted
	WriteFailure ErrorCode = "WRITE_FAILURE"
	// RestoreFailure indicates a backup was missing or could not be copied back
	RestoreFailure ErrorCode = "RESTORE_FAILURE"
	// JournalFailure indicates the journal itself could not be read or written
	JournalFailure ErrorCode = "JOURNAL_FAILURE"
	// Locked indicates another engine instance holds the lock on this root
	Locked ErrorCode = "LOCKED"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// RefactorError represents an engine error with a stable code and wrapped cause
type RefactorError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	cause   error     // Underlying error (not exported to JSON)
}

// NewRefactorError creates a new RefactorError
func NewRefactorError(code ErrorCode, message string, cause error) *RefactorError {
	return &RefactorError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *RefactorError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *RefactorError) Unwrap() error {
	return e.cause
}

// WithPath attaches the repo-relative path the error refers to
func (e *RefactorError) WithPath(path string) *RefactorError {
	e.Path = path
	return e
}

// SuggestedCommands maps error codes to commands that help recover
var SuggestedCommands = map[ErrorCode]string{
	RestoreFailure: "relog status",
	JournalFailure: "relog status --format json",
	Locked:         "relog status",
}

// SuggestedCommand returns a recovery command for an error code, if any
func SuggestedCommand(code ErrorCode) string {
	return SuggestedCommands[code]
}
