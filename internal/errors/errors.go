// Package errors carries coded errors out of the recipe lifecycle so the
// driver can tell a missing version field from a failed build step without
// string matching.
package errors

import "fmt"

// ErrorCode classifies a terminal recipe failure.
type ErrorCode string

const (
	// ErrCodeVersionFieldMissing indicates MAJOR, MINOR or PATCH was absent
	// from the version declaration file.
	ErrCodeVersionFieldMissing ErrorCode = "VERSION_FIELD_MISSING"
	// ErrCodeDeclarationUnreadable indicates the version declaration file
	// could not be read.
	ErrCodeDeclarationUnreadable ErrorCode = "DECLARATION_UNREADABLE"
	// ErrCodeBuildStepFailed indicates a configure, compile, test or install
	// sub-step returned failure.
	ErrCodeBuildStepFailed ErrorCode = "BUILD_STEP_FAILED"
	// ErrCodeFileSelectionFailed indicates the packaging copy step failed.
	ErrCodeFileSelectionFailed ErrorCode = "FILE_SELECTION_FAILED"
	// ErrCodeInvalidRecipe indicates a malformed recipe or hook sequence.
	ErrCodeInvalidRecipe ErrorCode = "INVALID_RECIPE"
	// ErrCodeInternal indicates any other failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError wraps a cause with a code, a message and optional context.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}
