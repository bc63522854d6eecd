package auth

import (
	"net/http"
	"strings"
)

const UserIDHeader = "x-user-id"

// HeaderAuthenticator trusts the x-user-id header as the caller identity.
// Possession of an id is the whole authorization model in this mode.
type HeaderAuthenticator struct{}

func NewHeaderAuthenticator() *HeaderAuthenticator {
	return &HeaderAuthenticator{}
}

func (h *HeaderAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			unauthorized(w, r)
			return
		}
		serveAuthenticated(next, w, r, User{ID: userID})
	})
}
