// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

package models

import (
	"strings"
	"time"
)

// User represents an account record as stored by the credential store.
// PasswordHash and PasswordSalt are never serialized; handlers must still
// return [User.Sanitized] so the values do not leave the service layer.
type User struct {
	// ID is the unique, immutable identifier of the account.
	ID int64 `json:"id"`

	// Name is the display name of the user (1-100 characters).
	Name string `json:"name"`

	// Email is the unique login email. Matching is case-sensitive.
	Email string `json:"email"`

	// Phone is the E.164-normalized phone number, unique when present.
	Phone *string `json:"phone,omitempty"`

	// Role is the RBAC role of the account.
	Role Role `json:"role"`

	// PasswordHash is the hex PBKDF2 digest. Empty for OAuth-only accounts.
	PasswordHash string `json:"-"`

	// PasswordSalt is the hex per-user salt used for PasswordHash.
	PasswordSalt string `json:"-"`

	// IsDisabled blocks every login attempt when true.
	IsDisabled bool `json:"is_disabled"`

	// FailedLoginAttempts counts consecutive failed password checks.
	FailedLoginAttempts int `json:"failed_login_attempts"`

	// LockedUntil is set while the account is locked out.
	LockedUntil *time.Time `json:"locked_until,omitempty"`

	// OAuthProvider names the linked identity provider (e.g. "google").
	OAuthProvider *string `json:"oauth_provider,omitempty"`

	// ProfilePicture is either a stored filename or a remote URL.
	ProfilePicture *string `json:"profile_picture,omitempty"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Sanitized returns a copy of u with credential material stripped.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.PasswordSalt = ""
	return u
}

// HasPassword reports whether the account can authenticate with a password.
func (u User) HasPassword() bool {
	return u.PasswordHash != "" && u.PasswordSalt != ""
}

// IsOAuth reports whether an identity provider is linked to the account.
func (u User) IsOAuth() bool {
	return u.OAuthProvider != nil && *u.OAuthProvider != ""
}

// IsLockedAt reports whether the lockout is still active at now.
func (u User) IsLockedAt(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Registration carries the input of self-registration and admin creation.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role,omitempty"`

	// SkipPolicy bypasses the password complexity policy. It is never
	// accepted from request bodies.
	SkipPolicy bool `json:"-"`
}

// UserUpdate is an admin partial update. Nil fields are left untouched.
type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Role  *Role   `json:"role,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Role == nil
}

// ProfileUpdate is a self-service partial update of the caller's own profile.
type ProfileUpdate struct {
	Name           *string `json:"name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Phone == nil && u.ProfilePicture == nil
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	IncludeDisabled bool
	Role            *Role
	// Search is matched as a substring of name or email.
	Search string
}

// SearchPattern returns Search as a LIKE pattern, or "" when unset.
func (f UserFilter) SearchPattern() string {
	s := strings.TrimSpace(f.Search)
	if s == "" {
		return ""
	}
	return "%" + s + "%"
}

// UserStats aggregates account counts for the admin dashboard.
type UserStats struct {
	Total         int `json:"total"`
	Admins        int `json:"admins"`
	Users         int `json:"users"`
	Disabled      int `json:"disabled"`
	RecentSignups int `json:"recent_signups"`
}

// ResetPasswordOptions controls the checks applied by an admin reset.
type ResetPasswordOptions struct {
	SkipPolicy   bool `json:"skip_policy"`
	CheckHistory bool `json:"check_history"`
}
