package validators

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clepord34/pawres/internal/crypto"
)

// SpecialCharacters is the set accepted by the special-character rule.
const SpecialCharacters = "!@#$%^&*(),.?\":{}|<>_-+=[]\\/`~"

const (
	DefaultMinPasswordLength    = 8
	DefaultPasswordHistoryCount = 5
)

// PasswordPolicyConfig toggles the complexity rules.
type PasswordPolicyConfig struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigit     bool
	RequireSpecial   bool
	HistoryCount     int
}

// DefaultPasswordPolicyConfig enables every rule with the stock limits.
func DefaultPasswordPolicyConfig() PasswordPolicyConfig {
	return PasswordPolicyConfig{
		MinLength:        DefaultMinPasswordLength,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		RequireSpecial:   true,
		HistoryCount:     DefaultPasswordHistoryCount,
	}
}

// PasswordPolicy evaluates password complexity. It holds no state
// besides its configuration and is safe for concurrent use.
type PasswordPolicy struct {
	cfg    PasswordPolicyConfig
	hasher crypto.PasswordHasher
}

func NewPasswordPolicy(cfg PasswordPolicyConfig, hasher crypto.PasswordHasher) *PasswordPolicy {
	if cfg.MinLength < 0 {
		cfg.MinLength = 0
	}
	if cfg.HistoryCount < 0 {
		cfg.HistoryCount = 0
	}
	return &PasswordPolicy{cfg: cfg, hasher: hasher}
}

// Validate reports whether password satisfies every enabled rule. All rules
// are evaluated; the returned messages keep a fixed order. Letter classes are
// ASCII only, matching the advertised A-Z and a-z.
func (p *PasswordPolicy) Validate(password string) (bool, []string) {
	if password == "" {
		return false, []string{"Password is required"}
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case 'a' <= r && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(SpecialCharacters, r):
			special = true
		}
	}

	var errs []string
	if utf8.RuneCountInString(password) < p.cfg.MinLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters", p.cfg.MinLength))
	}
	if p.cfg.RequireUppercase && !upper {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if p.cfg.RequireLowercase && !lower {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}
	if p.cfg.RequireDigit && !digit {
		errs = append(errs, "Password must contain at least one digit")
	}
	if p.cfg.RequireSpecial && !special {
		errs = append(errs, "Password must contain at least one special character (!@#$%^&*...)")
	}

	return len(errs) == 0, errs
}

// RequirementsText lists the enabled rules as bullet lines.
func (p *PasswordPolicy) RequirementsText() string {
	lines := []string{fmt.Sprintf("• At least %d characters", p.cfg.MinLength)}
	if p.cfg.RequireUppercase {
		lines = append(lines, "• At least one uppercase letter (A-Z)")
	}
	if p.cfg.RequireLowercase {
		lines = append(lines, "• At least one lowercase letter (a-z)")
	}
	if p.cfg.RequireDigit {
		lines = append(lines, "• At least one digit (0-9)")
	}
	if p.cfg.RequireSpecial {
		lines = append(lines, "• At least one special character (!@#$%^&*...)")
	}
	return strings.Join(lines, "\n")
}

// HashForHistory hashes password with an existing history salt so the
// digest can be compared against stored history entries.
func (p *PasswordPolicy) HashForHistory(password, salt string) (string, error) {
	return p.hasher.Hash(password, salt)
}

// HistoryCount is the number of previous passwords that may not be reused.
func (p *PasswordPolicy) HistoryCount() int {
	return p.cfg.HistoryCount
}
