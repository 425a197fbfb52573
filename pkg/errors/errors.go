package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors. These are fatal and abort before any
	// reconciliation starts.
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Origin errors, recorded per package
	ErrOriginNetwork         ErrorCode = "ORIGIN_NETWORK"
	ErrOriginRefNotFound     ErrorCode = "ORIGIN_REF_NOT_FOUND"
	ErrOriginDirty           ErrorCode = "ORIGIN_DIRTY"
	ErrOriginNotFound        ErrorCode = "ORIGIN_NOT_FOUND"
	ErrOriginUnsupportedType ErrorCode = "ORIGIN_UNSUPPORTED_TYPE"
	ErrOriginInvalidRepo     ErrorCode = "ORIGIN_INVALID_REPO"

	// Link errors
	ErrLinkConflict   ErrorCode = "LINK_CONFLICT"
	ErrNotSymlinkable ErrorCode = "NOT_SYMLINKABLE"
	// A package folder that is a symlink (placed by sync-dev) is never
	// refreshed through.
	ErrLinkedPackage ErrorCode = "LINKED_PACKAGE"

	// FileSystem errors
	ErrFilesystem ErrorCode = "FILESYSTEM"
)

// originCodes is the set of codes that make up the origin error family.
var originCodes = map[ErrorCode]bool{
	ErrOriginNetwork:         true,
	ErrOriginRefNotFound:     true,
	ErrOriginDirty:           true,
	ErrOriginNotFound:        true,
	ErrOriginUnsupportedType: true,
	ErrOriginInvalidRepo:     true,
}

// CollectionError represents a structured error with code and details
type CollectionError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CollectionError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CollectionError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CollectionError) Is(target error) bool {
	var targetErr *CollectionError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CollectionError with the given code and message
func New(code ErrorCode, message string) *CollectionError {
	return &CollectionError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CollectionError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CollectionError {
	return &CollectionError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CollectionError
func Wrap(err error, code ErrorCode, message string) *CollectionError {
	if err == nil {
		return nil
	}
	return &CollectionError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CollectionError {
	if err == nil {
		return nil
	}
	return &CollectionError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CollectionError) WithDetail(key string, value interface{}) *CollectionError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *CollectionError) WithDetails(details map[string]interface{}) *CollectionError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var collErr *CollectionError
	if errors.As(err, &collErr) {
		return collErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CollectionError
func GetErrorCode(err error) ErrorCode {
	var collErr *CollectionError
	if errors.As(err, &collErr) {
		return collErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CollectionError
func GetErrorDetails(err error) map[string]interface{} {
	var collErr *CollectionError
	if errors.As(err, &collErr) {
		return collErr.Details
	}
	return nil
}

// IsOriginError reports whether err belongs to the origin error family
// (network, missing ref, dirty tree, missing package, unsupported type,
// broken repository).
func IsOriginError(err error) bool {
	return originCodes[GetErrorCode(err)]
}

// IsConfigError reports whether err is a manifest/configuration error.
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrConfigValid:
		return true
	}
	return false
}
