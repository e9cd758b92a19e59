package models

// LoginResult is the discriminated outcome of a password login.
type LoginResult int

const (
	LoginSuccess LoginResult = iota
	LoginInvalidCredentials
	LoginUserNotFound
	LoginAccountLocked
	LoginAccountDisabled
)

func (r LoginResult) String() string {
	switch r {
	case LoginSuccess:
		return "success"
	case LoginInvalidCredentials:
		return "invalid_credentials"
	case LoginUserNotFound:
		return "user_not_found"
	case LoginAccountLocked:
		return "account_locked"
	case LoginAccountDisabled:
		return "account_disabled"
	default:
		return "unknown"
	}
}

// LoginOutcome pairs the result with the sanitized user on success.
type LoginOutcome struct {
	Result LoginResult
	User   *User
}

// LockoutStatus reports an active lockout and its remaining whole minutes.
type LockoutStatus struct {
	Locked           bool `json:"locked"`
	RemainingMinutes *int `json:"remaining_minutes,omitempty"`
}

// Credentials is the login request body. Identifier is an email or phone.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LockoutInfo is the admin view of an account's lockout state.
type LockoutInfo struct {
	LockoutStatus
	FailedAttempts *int `json:"failed_attempts,omitempty"`
}
