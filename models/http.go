package models

// OAuthTokenRequest carries the provider access token obtained by the
// client-side OAuth flow.
type OAuthTokenRequest struct {
	AccessToken string `json:"access_token"`
}

// PasswordChangeRequest is the body of a self-service password change.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PasswordSetRequest is the body of the first password of an OAuth account.
type PasswordSetRequest struct {
	NewPassword string `json:"new_password"`
}

// PasswordResetRequest is the body of an admin password reset.
type PasswordResetRequest struct {
	NewPassword string `json:"new_password"`
	ResetPasswordOptions
}
