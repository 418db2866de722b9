package models

import "strings"

// User is the identity the auth middleware extracts from a verified Firebase
// ID token. An empty UID means "no identified user": per-user store
// operations must be guarded before they are attempted.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// DisplayName returns the name shown on feed posts for this user.
func (u User) DisplayName() string {
	if u.Email != "" {
		return u.Email
	}
	return "Anonymous"
}

// Handle derives a feed handle from the email local part.
func (u User) Handle() string {
	if u.Email == "" {
		return "@trainer"
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return "@" + local
}
