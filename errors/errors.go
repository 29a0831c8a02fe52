// Package errors provides error types and handling for Azure Data Lake operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a Data Lake operation error with context about the operation
// that failed. It wraps the underlying service or transport error with additional
// context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "setAccessControlRecursive")
	Op string

	// Filesystem is the Data Lake filesystem (container) name, if applicable
	Filesystem string

	// Path is the file or directory path within the filesystem, if applicable
	Path string

	// Err is the underlying error from the service client or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Filesystem != "" && e.Path != "" {
		return fmt.Sprintf("datalake.%s %s/%s: %v", e.Op, e.Filesystem, e.Path, e.Err)
	}
	if e.Filesystem != "" {
		return fmt.Sprintf("datalake.%s filesystem %s: %v", e.Op, e.Filesystem, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("datalake.%s path %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("datalake.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithFilesystem adds filesystem context to an existing error.
func (e *Error) WithFilesystem(filesystem string) *Error {
	e.Filesystem = filesystem
	return e
}

// WithPath adds path context to an existing error.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewPathError creates a new Error with path context.
func NewPathError(op, path string, err error) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// RecursiveChangeError is returned when a recursive access control change fails
// partway through the tree. ContinuationToken holds the token as of the last
// successful batch so the caller can resume from where processing stopped.
// Progress made by earlier batches is not rolled back.
type RecursiveChangeError struct {
	// ContinuationToken is the resume point for the interrupted change
	ContinuationToken string

	// Err is the underlying error that aborted the batch loop
	Err error
}

// Error implements the error interface.
func (e *RecursiveChangeError) Error() string {
	return fmt.Sprintf("datalake: recursive access control change failed: %v", e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *RecursiveChangeError) Unwrap() error {
	return e.Err
}

// NewRecursiveChangeError creates a RecursiveChangeError carrying the given
// resume token and cause.
func NewRecursiveChangeError(continuationToken string, err error) *RecursiveChangeError {
	return &RecursiveChangeError{
		ContinuationToken: continuationToken,
		Err:               err,
	}
}

// Sentinel errors for common Data Lake operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("datalake: invalid input")

	// ErrPathNotFound indicates that the requested path does not exist
	ErrPathNotFound = errors.New("datalake: path not found")

	// ErrPathAlreadyExists indicates that the path already exists
	ErrPathAlreadyExists = errors.New("datalake: path already exists")

	// ErrFilesystemNotFound indicates that the requested filesystem does not exist
	ErrFilesystemNotFound = errors.New("datalake: filesystem not found")

	// ErrFileTooLarge indicates that the payload exceeds the service size limit
	ErrFileTooLarge = errors.New("datalake: file exceeds maximum size")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("datalake: access denied")

	// ErrInvalidRange indicates that the requested byte range is invalid
	ErrInvalidRange = errors.New("datalake: invalid range")

	// ErrTimeout indicates that the operation timed out
	ErrTimeout = errors.New("datalake: operation timeout")

	// ErrConnection indicates a connection error
	ErrConnection = errors.New("datalake: connection error")
)

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPathNotFound checks if an error indicates that a path was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsPathNotFound(err error) bool {
	return errors.Is(err, ErrPathNotFound)
}

// IsPathAlreadyExists checks if an error indicates that a path already exists.
func IsPathAlreadyExists(err error) bool {
	return errors.Is(err, ErrPathAlreadyExists)
}

// IsFileTooLarge checks if an error indicates the payload exceeds the service size limit.
func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
