// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Chatify backend REST API.
package api

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
//
// The taxonomy mirrors how the views react: read-path connection and
// not-found failures degrade to empty states, write-path failures surface a
// transient message, and unauthorized is fatal to the view (back to login).
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeNotFound
	ErrTypeValidation
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "missing or expired credentials"}
	ErrNotFound     = &ClientError{Type: ErrTypeNotFound, Message: "not found"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsUnauthorized checks if an error is an authorization failure.
func IsUnauthorized(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnauthorized
	}
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound checks if an error is a not-found failure.
func IsNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsTimeout checks if an error is a timeout.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return errors.Is(err, ErrTimeout)
}

// IsValidation checks if an error is a local validation failure.
func IsValidation(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeValidation
	}
	return false
}
