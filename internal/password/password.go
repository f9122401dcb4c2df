// Package password implements the account password policy.
package password

import (
	"errors"
	"strings"
)

const (
	// MinLength is the minimum number of characters in a password.
	MinLength = 8
	// SpecialChars is the set of accepted special characters; at least one is required.
	SpecialChars = "@$!%*?&"
)

// Policy messages reported to API clients.
const (
	PolicyMessage = "password must be at least 8 characters and include an uppercase letter, a lowercase letter, a number and one of @$!%*?&, with no other characters"
	CommonMessage = "password is too common"
)

var (
	// ErrWeak is returned when a password does not meet the complexity rules.
	ErrWeak = errors.New(PolicyMessage)
	// ErrTooCommon is returned when a password is on the denylist.
	ErrTooCommon = errors.New(CommonMessage)
)

var defaultCommon = []string{
	"password",
	"password1",
	"password12",
	"password123",
	"password1!",
	"12345678",
	"123456789",
	"1234567890",
	"87654321",
	"11111111",
	"00000000",
	"qwerty123",
	"qwertyuiop",
	"qwerty12",
	"1q2w3e4r",
	"1qaz2wsx",
	"abc12345",
	"abcd1234",
	"iloveyou",
	"letmein1",
	"letmein!",
	"welcome1",
	"welcome123",
	"admin123",
	"administrator",
	"sunshine1",
	"football1",
	"baseball1",
	"monkey123",
	"dragon123",
	"trustno1",
	"princess1",
	"superman1",
	"changeme",
	"changeme1",
	"p@ssw0rd",
	"p@ssword1",
	"passw0rd",
	"qwerty1!",
	"zaq12wsx",
}

// Policy checks passwords against the complexity rules and a denylist of common passwords.
// A Policy is immutable after construction and safe for concurrent use.
type Policy struct {
	common map[string]struct{}
}

// NewPolicy builds a policy from the built-in denylist plus any extra entries.
// Entries are matched case-insensitively.
func NewPolicy(extraCommon ...string) *Policy {
	common := make(map[string]struct{}, len(defaultCommon)+len(extraCommon))
	for _, list := range [][]string{defaultCommon, extraCommon} {
		for _, p := range list {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				common[p] = struct{}{}
			}
		}
	}
	return &Policy{common: common}
}

var defaultPolicy = NewPolicy()

// Check returns nil for an acceptable password, ErrTooCommon for a denylisted one and
// ErrWeak when the complexity rules are not met. The denylist is checked first, so a
// password failing both rules reports ErrTooCommon.
func (p *Policy) Check(password string) error {
	if p.IsCommon(password) {
		return ErrTooCommon
	}
	if !MeetsComplexity(password) {
		return ErrWeak
	}
	return nil
}

// IsCommon reports whether the password is on the denylist.
func (p *Policy) IsCommon(password string) bool {
	_, found := p.common[strings.ToLower(password)]
	return found
}

// IsStrong reports whether the password passes both the denylist and complexity rules.
func (p *Policy) IsStrong(password string) bool {
	return p.Check(password) == nil
}

// Check validates a password against the default policy.
func Check(password string) error {
	return defaultPolicy.Check(password)
}

// IsStrong reports whether a password passes the default policy.
func IsStrong(password string) bool {
	return defaultPolicy.IsStrong(password)
}

// CheckPtr treats a missing password as weak.
func CheckPtr(password *string) error {
	if password == nil {
		return ErrWeak
	}
	return Check(*password)
}

// MeetsComplexity checks the character-class rules only: at least MinLength characters,
// one ASCII upper, one ASCII lower, one digit and one of SpecialChars, and nothing outside
// letters, digits and SpecialChars.
func MeetsComplexity(password string) bool {
	if len(password) < MinLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for i := 0; i < len(password); i++ {
		c := password[i]
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.IndexByte(SpecialChars, c) >= 0:
			hasSpecial = true
		default:
			return false
		}
	}

	return hasUpper && hasLower && hasDigit && hasSpecial
}
