package types

import (
	"fmt"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants. All packages use these constants instead
// of hardcoded strings so the CLI can map failures to exit codes and the
// summary can bucket per-frame failures consistently.
const (
	// Configuration (fatal, before any processing)
	ErrCodeConfigInvalidLatitude  ErrorCode = "config_invalid_latitude"
	ErrCodeConfigInvalidLongitude ErrorCode = "config_invalid_longitude"
	ErrCodeConfigUnknownTimezone  ErrorCode = "config_unknown_timezone"
	ErrCodeConfigInvalidDuration  ErrorCode = "config_invalid_duration"
	ErrCodeConfigInvalidWidth     ErrorCode = "config_invalid_width"
	ErrCodeConfigInvalidWorkers   ErrorCode = "config_invalid_workers"
	ErrCodeConfigMissingInput     ErrorCode = "config_missing_input_dirs"
	ErrCodeConfigBadInputDir      ErrorCode = "config_input_dir_invalid"
	ErrCodeConfigOutputUnwritable ErrorCode = "config_output_dir_unwritable"
	ErrCodeConfigInvalid          ErrorCode = "config_invalid"

	// Empty input (fatal, reported with counts)
	ErrCodeEmptyNoImages ErrorCode = "empty_input_no_images"
	ErrCodeEmptyAllNight ErrorCode = "empty_input_all_frames_night"

	// Per-frame (isolated, collected, never fatal)
	ErrCodeFrameNoTimestamp ErrorCode = "frame_missing_timestamp"
	ErrCodeFrameUnreadable  ErrorCode = "frame_unreadable"
	ErrCodeFrameDecode      ErrorCode = "frame_decode_failed"
	ErrCodeFrameWrite       ErrorCode = "frame_write_failed"
)

// ExitCode maps an ErrorCode to the process exit code used by the CLI.
// Configuration errors exit 2, empty-input errors exit 3. Per-frame codes
// never terminate the process on their own; a run that only had isolated
// frame failures still exits 0 with the failures summarized.
func (c ErrorCode) ExitCode() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "config_"):
		return 2
	case strings.HasPrefix(s, "empty_input_"):
		return 3
	default:
		return 1
	}
}

// AppError is the standard application error type. All domain errors are
// expressed as AppError to enable consistent formatting, exit-code
// mapping, and error chain support.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Details map[string]any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewAppErrorWithDetails creates a new AppError carrying structured
// details, typically the offending file path or sequence number.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{Code: code, Message: message, Err: err, Details: details}
}
