package auth

import "strings"

// Guard checks the shared secret carried by mutating requests
type Guard struct {
	secret string
}

// NewGuard creates a guard for secret; surrounding whitespace is ignored
func NewGuard(secret string) *Guard {
	return &Guard{secret: strings.TrimSpace(secret)}
}

// Configured reports whether a secret is set
func (g *Guard) Configured() bool {
	return g.secret != ""
}

// Authorize reports whether supplied matches the configured secret.
// An unset secret never authorizes, not even an empty supplied value.
func (g *Guard) Authorize(supplied string) bool {
	if g.secret == "" {
		return false
	}
	return supplied == g.secret
}
