// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

// Package errors provides standardized error types and handling for vmctl
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error types that can be used across the application
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrOperationFailed = errors.New("operation failed")
	ErrRemoteOperation = errors.New("remote operation failed")
	ErrConfig          = errors.New("configuration error")
	ErrAuth            = errors.New("authentication failed")
	ErrCancelled       = errors.New("operation was cancelled")
)

// ErrorCode represents specific error codes for better error handling
type ErrorCode string

// Standard error codes
const (
	CodeNotFound        ErrorCode = "not_found"
	CodeInvalidInput    ErrorCode = "invalid_input"
	CodeOperationFailed ErrorCode = "operation_failed"
	CodeRemoteOperation ErrorCode = "remote_operation_failed"
	CodeConfig          ErrorCode = "config_error"
	CodeAuth            ErrorCode = "auth_failed"
	CodeCancelled       ErrorCode = "cancelled"
)

// AppError represents an application-specific error with context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface to support errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NotFound creates a new not found error
func NotFound(resourceType, identifier string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resourceType, identifier),
		Err:     ErrNotFound,
		Context: map[string]interface{}{
			"resourceType": resourceType,
			"identifier":   identifier,
		},
	}
}

// InvalidInput creates a new invalid input error
func InvalidInput(details string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("invalid input: %s", details),
		Err:     ErrInvalidInput,
	}
}

// OperationFailed creates a new operation failed error
func OperationFailed(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeOperationFailed,
		Message: fmt.Sprintf("operation '%s' failed", operation),
		Err:     err,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// RemoteOperation creates an error for a remote operation that finished with
// an error payload attached.
func RemoteOperation(label string, details []string) *AppError {
	return &AppError{
		Code:    CodeRemoteOperation,
		Message: fmt.Sprintf("%s failed: %s", label, strings.Join(details, "; ")),
		Err:     ErrRemoteOperation,
		Context: map[string]interface{}{
			"operation": label,
			"details":   details,
		},
	}
}

// Config creates a configuration error
func Config(message string, err error) *AppError {
	if err == nil {
		err = ErrConfig
	}
	return &AppError{
		Code:    CodeConfig,
		Message: message,
		Err:     err,
	}
}

// Auth creates an authentication or client setup error
func Auth(message string, err error) *AppError {
	if err == nil {
		err = ErrAuth
	}
	return &AppError{
		Code:    CodeAuth,
		Message: message,
		Err:     err,
	}
}

// Cancelled creates an error for a wait that was interrupted by its context
func Cancelled(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeCancelled,
		Message: fmt.Sprintf("%s interrupted", operation),
		Err:     fmt.Errorf("%w: %v", ErrCancelled, err),
	}
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound) || errors.Is(err, ErrNotFound)
}

// IsCancelled checks if the error is a cancellation error
func IsCancelled(err error) bool {
	return Is(err, CodeCancelled) || errors.Is(err, ErrCancelled)
}

// Is checks if the error is of the specified code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the first AppError in the chain
func CodeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}
