// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

// Package validators holds the input and password rules applied before any
// credential is stored.
//
// Core concepts:
//   - Validator: generic interface to validate request shapes, with optional
//     field-level scoping.
//   - PasswordPolicy: stateless complexity rules plus the history hash.
//   - PhoneNormalizer: canonical E.164 form used for phone uniqueness.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may restrict the check to the named fields.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
