// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The PawRes Authors

package models

import (
	"slices"
	"time"
)

// Redirect targets signalled by access decisions.
const (
	RedirectLogin          = "/login"
	RedirectAdminDashboard = "/admin"
	RedirectUserDashboard  = "/user"
)

// Session is the in-process state of one authenticated principal.
// A zero LastActivity means the session has not been touched yet.
type Session struct {
	UserID          int64     `json:"user_id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Role            Role      `json:"role"`
	IsAuthenticated bool      `json:"is_authenticated"`
	LastActivity    time.Time `json:"last_activity"`
}

// NewSession builds an authenticated session for user.
func NewSession(user User, now time.Time) Session {
	return Session{
		UserID:          user.ID,
		Email:           user.Email,
		Name:            user.Name,
		Role:            user.Role,
		IsAuthenticated: true,
		LastActivity:    now,
	}
}

// Clear resets the session to the anonymous state.
func (s *Session) Clear() {
	*s = Session{}
}

// Touch moves the sliding expiry window to now.
func (s *Session) Touch(now time.Time) {
	s.LastActivity = now
}

// IdleFor returns how long the session has been inactive at now.
// Zero is returned for a session without recorded activity.
func (s Session) IdleFor(now time.Time) time.Duration {
	if s.LastActivity.IsZero() {
		return 0
	}
	return now.Sub(s.LastActivity)
}

// RouteAccessRule is the access metadata attached to a route.
type RouteAccessRule struct {
	RequiresAuth bool
	// AllowedRoles restricts the route to the listed roles. A nil slice
	// means any authenticated role; an empty non-nil slice admits no role.
	AllowedRoles []Role
}

// Permits reports whether role satisfies the rule's role restriction.
func (r RouteAccessRule) Permits(role Role) bool {
	if r.AllowedRoles == nil {
		return true
	}
	return slices.Contains(r.AllowedRoles, role)
}

// DenyReason explains a denied access check.
type DenyReason string

const (
	DenyNotAuthenticated DenyReason = "not_authenticated"
	DenySessionExpired   DenyReason = "session_expired"
	DenyInsufficientRole DenyReason = "insufficient_role"
)

// AccessDecision is the result of an authorization check.
type AccessDecision struct {
	Allowed  bool       `json:"allowed"`
	Reason   DenyReason `json:"reason,omitempty"`
	Redirect string     `json:"redirect,omitempty"`
}

// Allow is the decision for a permitted access.
func Allow() AccessDecision {
	return AccessDecision{Allowed: true}
}

// Deny builds a denied decision.
func Deny(reason DenyReason, redirect string) AccessDecision {
	return AccessDecision{Reason: reason, Redirect: redirect}
}
