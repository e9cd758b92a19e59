// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

package http

import "errors"

// Sentinel errors produced by the transport layer itself. Callers can match
// against them with [errors.Is].
var (
	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrInvalidUserID is returned when the {id} path segment is not a
	// positive integer.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidQuery is returned for malformed listing filters.
	ErrInvalidQuery = errors.New("invalid query parameter")

	// ErrMissingIdentifier is returned by lockout lookups without an
	// identifier query parameter.
	ErrMissingIdentifier = errors.New("identifier query parameter is required")

	// ErrOAuthDisabled is returned by OAuth routes when no provider is configured.
	ErrOAuthDisabled = errors.New("oauth sign-in is not configured")

	// ErrOAuthEmailMismatch is returned when the provider account being
	// linked belongs to a different email than the signed-in user.
	ErrOAuthEmailMismatch = errors.New("provider account email does not match")

	// ErrTooManyRequests is returned when a client exceeds the login rate.
	ErrTooManyRequests = errors.New("too many login attempts, try again later")

	// ErrInvalidLogin is the single message for unknown users and wrong
	// passwords so that account existence is not disclosed.
	ErrInvalidLogin = errors.New("Invalid email or password")
)
