package glpi

import (
	"net/http"
	"sync"
)

// Session carries the credentials attached to every GLPI call. It is created
// once by the caller and shared with the Client; InitSession fills in the
// session token.
type Session struct {
	appToken  string
	userToken string

	mu    sync.RWMutex
	token string
}

// NewSession creates a session that authenticates with the user token until
// a session token is obtained.
func NewSession(appToken, userToken string) *Session {
	return &Session{appToken: appToken, userToken: userToken}
}

// Token returns the session token, or "" before InitSession succeeded.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// apply sets the authentication headers on h.
func (s *Session) apply(h http.Header) {
	h.Set("App-Token", s.appToken)
	h.Set("Content-Type", "application/json")
	if token := s.Token(); token != "" {
		h.Set("Session-Token", token)
		return
	}
	h.Set("Authorization", "user_token "+s.userToken)
}
