package domain

import "strings"

// Session is the authenticated identity the portal keeps per token. It only
// ever gets replaced or cleared, never mutated in place.
type Session struct {
	// Token is the opaque bearer token issued by the upstream on login.
	Token string `json:"token"`
	// Role is the upstream-assigned role for the account.
	Role string `json:"role"`
}

// IsAdmin reports whether the session carries admin privilege. The upstream
// has been seen returning both "admin" and "Admin", so the comparison ignores
// case.
func (s *Session) IsAdmin() bool {
	return strings.EqualFold(s.Role, "admin")
}
