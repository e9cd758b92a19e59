package models

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`

	// Messages lists validation failures in rule order.
	Messages []string `json:"messages,omitempty"`

	// RemainingMinutes is set when a login hits an active lockout.
	RemainingMinutes *int `json:"remaining_minutes,omitempty"`
}

// CreatedResponse is returned by endpoints that create an account.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// OAuthResponse is the body of a successful or pending OAuth sign-in.
type OAuthResponse struct {
	Result string `json:"result"`
	User   User   `json:"user"`
}

// PasswordRequirementsResponse lists the enabled password rules.
type PasswordRequirementsResponse struct {
	Requirements string `json:"requirements"`
}

// AccessDeniedResponse is the body of a request rejected by route
// authorization. Redirect is the page the client should navigate to.
type AccessDeniedResponse struct {
	Error    DenyReason `json:"error"`
	Redirect string     `json:"redirect"`
}
