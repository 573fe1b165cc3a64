package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Principal is the authenticated user as asserted by the external auth
// layer. The service never stores principals; an Agent is derived from
// one on first listing submission.
type Principal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Phone  string `json:"phone"`
}

// AvatarOrFallback returns the principal's avatar URL, falling back to a
// generated initials avatar when the auth provider supplied none.
func (p Principal) AvatarOrFallback() string {
	if p.Avatar != "" {
		return p.Avatar
	}
	var initials strings.Builder
	for _, word := range strings.Fields(p.Name) {
		r := []rune(word)
		initials.WriteRune(r[0])
	}
	seed := strings.ToUpper(initials.String())
	return fmt.Sprintf("https://api.dicebear.com/7.x/initials/png?seed=%s", url.QueryEscape(seed))
}
