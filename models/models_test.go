package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Sanitized(t *testing.T) {
	u := User{ID: 1, Email: "a@b.c", PasswordHash: "abcd", PasswordSalt: "ef01"}

	s := u.Sanitized()

	assert.Empty(t, s.PasswordHash)
	assert.Empty(t, s.PasswordSalt)
	assert.Equal(t, "abcd", u.PasswordHash, "original must stay untouched")
	assert.Equal(t, int64(1), s.ID)
}

func TestUser_JSONNeverContainsCredentials(t *testing.T) {
	u := User{ID: 7, Email: "x@y.z", PasswordHash: "deadbeef", PasswordSalt: "cafe"}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(b), "deadbeef")
	assert.NotContains(t, string(b), "cafe")
}

func TestUser_IsLockedAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, User{}.IsLockedAt(now))
	assert.True(t, User{LockedUntil: &future}.IsLockedAt(now))
	assert.False(t, User{LockedUntil: &past}.IsLockedAt(now))
	assert.False(t, User{LockedUntil: &now}.IsLockedAt(now))
}

func TestUser_HasPasswordAndIsOAuth(t *testing.T) {
	google := "google"
	empty := ""

	assert.True(t, User{PasswordHash: "h", PasswordSalt: "s"}.HasPassword())
	assert.False(t, User{PasswordHash: "h"}.HasPassword())
	assert.True(t, User{OAuthProvider: &google}.IsOAuth())
	assert.False(t, User{OAuthProvider: &empty}.IsOAuth())
	assert.False(t, User{}.IsOAuth())
}

func TestRole_Dashboard(t *testing.T) {
	assert.Equal(t, "/admin", RoleAdmin.Dashboard())
	assert.Equal(t, "/user", RoleUser.Dashboard())
	assert.Equal(t, "/login", Role("guest").Dashboard())
	assert.False(t, Role("guest").IsValid())
}

func TestRouteAccessRule_Permits(t *testing.T) {
	adminOnly := RouteAccessRule{RequiresAuth: true, AllowedRoles: []Role{RoleAdmin}}
	anyRole := RouteAccessRule{RequiresAuth: true}
	noRole := RouteAccessRule{RequiresAuth: true, AllowedRoles: []Role{}}

	assert.True(t, adminOnly.Permits(RoleAdmin))
	assert.False(t, adminOnly.Permits(RoleUser))
	assert.True(t, anyRole.Permits(RoleUser))
	assert.True(t, anyRole.Permits(RoleAdmin))
	// пустой список ролей не пропускает никого
	assert.False(t, noRole.Permits(RoleAdmin))
	assert.False(t, noRole.Permits(RoleUser))
}

func TestSession_ClearAndIdle(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession(User{ID: 3, Email: "a@b.c", Role: RoleUser}, now.Add(-10*time.Minute))

	assert.True(t, s.IsAuthenticated)
	assert.Equal(t, 10*time.Minute, s.IdleFor(now))

	s.Clear()
	assert.Equal(t, Session{}, s)
	assert.Zero(t, s.IdleFor(now))
}

func TestUserFilter_SearchPattern(t *testing.T) {
	assert.Equal(t, "", UserFilter{Search: "  "}.SearchPattern())
	assert.Equal(t, "%ali%", UserFilter{Search: " ali "}.SearchPattern())
}

func TestAppBuildInfo_DefaultsToNA(t *testing.T) {
	info := NewAppBuildInfo("1.0.0", "", "")

	b, err := json.Marshal(info)
	require.NoError(t, err)

	assert.JSONEq(t, `{"version":"1.0.0","build_date":"N/A","build_commit":"N/A"}`, string(b))
}

func TestOAuthResult_StartsSession(t *testing.T) {
	assert.True(t, OAuthResult{Kind: OAuthCreated}.StartsSession())
	assert.True(t, OAuthResult{Kind: OAuthLoggedIn}.StartsSession())
	assert.False(t, OAuthResult{Kind: OAuthNeedsLinking}.StartsSession())
}
