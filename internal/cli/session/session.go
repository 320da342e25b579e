package session

import (
	"fmt"

	"github.com/briefhub-dev/briefhub/internal/auth"
)

// Session roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is what the client knows about the logged-in account. It is read
// optimistically from the token's claims without verifying the signature; the
// backend re-validates the token on every call, so a forged identity buys
// nothing beyond a mislabeled prompt.
type Identity struct {
	ID          string
	DisplayName string
	Email       string
	IsAdmin     bool
}

// Role derives the session role from the identity.
func (i *Identity) Role() string {
	if i.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// UserSession holds the end-user credential plus the identity decoded from
// it. The two are coupled: identity is present exactly when a well-formed
// token is held.
type UserSession struct {
	store    Store
	token    string
	identity *Identity
}

// NewUserSession creates a session over the given store and hydrates it.
// Hydration failure degrades to logged-out; it is never surfaced as an error.
func NewUserSession(store Store) *UserSession {
	s := &UserSession{store: store}
	s.hydrate()
	return s
}

func (s *UserSession) hydrate() {
	token, err := s.store.Load()
	if err != nil {
		s.reset()
		return
	}
	claims, err := auth.DecodeClaims(token)
	if err != nil {
		// Corrupt stored state is self-healing: treat as logged out.
		_ = s.store.Clear()
		s.reset()
		return
	}
	s.token = token
	s.identity = identityFromClaims(claims)
}

func (s *UserSession) reset() {
	s.token = ""
	s.identity = nil
}

// Login stores the token and decodes its claims into an identity. A token
// that cannot be decoded is a failed login: all partial state is cleared and
// the session is left unauthenticated.
func (s *UserSession) Login(token string) (*Identity, error) {
	claims, err := auth.DecodeClaims(token)
	if err != nil {
		s.reset()
		_ = s.store.Clear()
		return nil, fmt.Errorf("received an unreadable access token: %w", err)
	}

	// Write through to storage before updating in-memory state so a restart
	// reconstructs the same session.
	if err := s.store.Save(token); err != nil {
		s.reset()
		return nil, err
	}

	s.token = token
	s.identity = identityFromClaims(claims)
	return s.identity, nil
}

// Logout clears storage and in-memory state. Calling it when already logged
// out is a no-op.
func (s *UserSession) Logout() error {
	s.reset()
	return s.store.Clear()
}

func (s *UserSession) IsAuthenticated() bool {
	return s.token != ""
}

func (s *UserSession) Token() string {
	return s.token
}

func (s *UserSession) Identity() *Identity {
	return s.identity
}

// Role returns the derived role, or "" when logged out.
func (s *UserSession) Role() string {
	if s.identity == nil {
		return ""
	}
	return s.identity.Role()
}

func identityFromClaims(claims *auth.JWTClaims) *Identity {
	return &Identity{
		ID:          claims.UserID,
		DisplayName: claims.Username,
		Email:       claims.Email,
		IsAdmin:     claims.IsAdmin,
	}
}

// AdminSession holds the administrator credential. Unlike UserSession it
// never decodes the token: presence of a token alone implies the admin role,
// and identity comes from GET /admin_users/me when a view needs it.
type AdminSession struct {
	store Store
}

// NewAdminSession creates a session over the given store. Admin sessions are
// expected to use a volatile store so elevation lasts only for the process.
func NewAdminSession(store Store) *AdminSession {
	return &AdminSession{store: store}
}

// Login stores the token. An empty token is rejected so the session cannot
// end up "authenticated" with nothing to send.
func (s *AdminSession) Login(token string) error {
	if token == "" {
		_ = s.store.Clear()
		return fmt.Errorf("received an empty access token")
	}
	return s.store.Save(token)
}

// Logout clears the stored token; idempotent.
func (s *AdminSession) Logout() error {
	return s.store.Clear()
}

func (s *AdminSession) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *AdminSession) Token() string {
	token, err := s.store.Load()
	if err != nil {
		return ""
	}
	return token
}

// Role returns "admin" when a token is held, "" otherwise.
func (s *AdminSession) Role() string {
	if s.IsAuthenticated() {
		return RoleAdmin
	}
	return ""
}
