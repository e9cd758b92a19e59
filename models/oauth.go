package models

// OAuthProfile is the identity returned by an OAuth provider.
type OAuthProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// OAuthLogin is the input of an OAuth sign-in.
type OAuthLogin struct {
	Email          string
	Name           string
	Provider       string
	ProfilePicture string
	// PictureResolved reports whether ProfilePicture could be fetched.
	PictureResolved bool
}

// OAuthResultKind discriminates the outcome of an OAuth sign-in.
type OAuthResultKind int

const (
	// OAuthCreated means a new OAuth-only account was created.
	OAuthCreated OAuthResultKind = iota + 1
	// OAuthLoggedIn means an account already linked to the provider signed in.
	OAuthLoggedIn
	// OAuthNeedsLinking means a password account owns the email and must be
	// linked explicitly before the provider can be used.
	OAuthNeedsLinking
)

func (k OAuthResultKind) String() string {
	switch k {
	case OAuthCreated:
		return "created"
	case OAuthLoggedIn:
		return "logged_in"
	case OAuthNeedsLinking:
		return "needs_linking"
	default:
		return "unknown"
	}
}

// OAuthResult is the outcome of an OAuth sign-in. User is always sanitized;
// for OAuthNeedsLinking it is the existing account that owns the email.
type OAuthResult struct {
	Kind OAuthResultKind
	User User
}

// StartsSession reports whether the caller may open a session.
func (r OAuthResult) StartsSession() bool {
	return r.Kind == OAuthCreated || r.Kind == OAuthLoggedIn
}
