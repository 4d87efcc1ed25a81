package core

import "stenolearn-backend-go/internal/models"

// Session is the explicit per-caller context every profile operation takes
// in place of ambient "current user" state. It owns the in-memory profile
// cache: the cache is written only after a store call fully succeeds, and
// a session is never shared between callers, so the struct needs no
// locking.
type Session struct {
	UID         string
	Email       string
	DisplayName string

	profile *models.UserProfile
}

// NewSession creates a session for a verified identity. Email and display
// name come from the identity provider's token claims and seed the profile
// on first creation.
func NewSession(uid, email, displayName string) *Session {
	return &Session{UID: uid, Email: email, DisplayName: displayName}
}
