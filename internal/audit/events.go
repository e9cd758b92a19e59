// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

// Package audit records security-relevant events (logins, lockouts,
// account administration, access denials) and fans them out to sinks.
package audit

import (
	"time"

	"github.com/clepord34/pawres/models"
)

// EventType names a security-relevant event.
type EventType string

const (
	LoginSuccess       EventType = "LOGIN_SUCCESS"
	LoginFailure       EventType = "LOGIN_FAILURE"
	Logout             EventType = "LOGOUT"
	AccountLockout     EventType = "ACCOUNT_LOCKOUT"
	LockoutExpired     EventType = "LOCKOUT_EXPIRED"
	PasswordChanged    EventType = "PASSWORD_CHANGED"
	PasswordReset      EventType = "PASSWORD_RESET"
	SessionExpired     EventType = "SESSION_EXPIRED"
	UserCreated        EventType = "USER_CREATED"
	UserDisabled       EventType = "USER_DISABLED"
	UserEnabled        EventType = "USER_ENABLED"
	UserDeleted        EventType = "USER_DELETED"
	RoleChanged        EventType = "ROLE_CHANGED"
	UnauthorizedAccess EventType = "UNAUTHORIZED_ACCESS"
	BruteForceAttempt  EventType = "BRUTE_FORCE_ATTEMPT"
	OAuthLinked        EventType = "OAUTH_LINKED"
	OAuthUnlinked      EventType = "OAUTH_UNLINKED"
)

// Channel groups event types for routing.
type Channel string

const (
	ChannelAuth     Channel = "auth"
	ChannelAdmin    Channel = "admin"
	ChannelSecurity Channel = "security"
)

// Channel returns the channel the event type belongs to.
func (t EventType) Channel() Channel {
	switch t {
	case LoginSuccess, LoginFailure, Logout, PasswordChanged, SessionExpired, OAuthLinked, OAuthUnlinked:
		return ChannelAuth
	case PasswordReset, UserCreated, UserDisabled, UserEnabled, UserDeleted, RoleChanged:
		return ChannelAdmin
	default:
		return ChannelSecurity
	}
}

// Login failure reasons.
const (
	ReasonUserNotFound    = "user_not_found"
	ReasonAccountDisabled = "account_disabled"
	ReasonAccountLocked   = "account_locked"
	ReasonInvalidPassword = "invalid_password"
	ReasonNoPassword      = "no_password"
)

// Event is one audit record. Zero-valued fields are omitted by sinks.
type Event struct {
	Type EventType

	// UserID is the subject of the event, ActorID the admin who caused it.
	UserID  int64
	ActorID int64
	Email   string
	Role    models.Role

	Reason        string
	Method        string
	Route         string
	RequiredRoles []models.Role

	Attempts        int
	DurationMinutes int

	OldRole models.Role
	NewRole models.Role

	OccurredAt time.Time
}

// Channel returns the channel of the event's type.
func (e Event) Channel() Channel {
	return e.Type.Channel()
}
