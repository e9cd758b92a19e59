// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

// Package adapter talks to external identity providers on behalf of the
// OAuth sign-in flow.
//
// Provider HTTP failures are mapped by mapHTTPError to the sentinels in
// errors.go so handlers can use [errors.Is] without knowing the transport
// (e.g. [ErrUnauthorized] for an expired access token).
package adapter

import (
	"context"

	"github.com/clepord34/pawres/models"
)

// OAuthProvider resolves an access token into the identity of its owner.
type OAuthProvider interface {
	// Name is the provider identifier stored on linked accounts.
	Name() string

	// FetchProfile returns the profile of the token owner. The email is
	// always present on success.
	FetchProfile(ctx context.Context, accessToken string) (models.OAuthProfile, error)

	// PictureReachable reports whether a profile picture URL can be
	// fetched right now.
	PictureReachable(ctx context.Context, url string) bool
}
