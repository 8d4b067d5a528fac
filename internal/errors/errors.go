package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the outermost error code, or "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeMissingColumns = "MISSING_REQUIRED_COLUMNS"
	CodeParseFailed    = "PARSE_FAILED"
	CodeUploadTooLarge = "UPLOAD_TOO_LARGE"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeInvalidInput   = "INVALID_INPUT"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// ParseFailed reports an upload the tabular reader could not make sense of.
func ParseFailed(cause error) *AppError {
	return &AppError{
		Code:    CodeParseFailed,
		Message: "could not parse uploaded file",
		Cause:   cause,
	}
}

// RequestTooLarge reports a request body cut off at the configured limit,
// before the file size is known.
func RequestTooLarge(limit int64) *AppError {
	return New(CodeUploadTooLarge, fmt.Sprintf("request exceeds the %d MB limit", limit/(1024*1024)))
}

// UploadTooLarge reports an upload over the configured limit.
func UploadTooLarge(size, limit int64) *AppError {
	return New(CodeUploadTooLarge, fmt.Sprintf("file size (%.1f MB) exceeds the %d MB limit",
		float64(size)/(1024*1024), limit/(1024*1024)))
}
