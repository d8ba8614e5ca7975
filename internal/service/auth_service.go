package service

import (
	"errors"
	"strings"
	"sync"

	"aihub-backend/internal/config"
	"aihub-backend/internal/model"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService is the demo authentication shim: one configured credential
// pair, opaque uuid tokens, everything in memory. Not a security boundary.
type AuthService struct {
	demoEmail    string
	demoPassword string

	mu     sync.RWMutex
	tokens map[string]model.User
}

func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		demoEmail:    cfg.DemoEmail,
		demoPassword: cfg.DemoPassword,
		tokens:       make(map[string]model.User),
	}
}

// Login checks the demo credentials and issues a token. The display name is
// derived from the email local part, same as the demo SPA did.
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	if email != s.demoEmail || password != s.demoPassword {
		return "", nil, ErrInvalidCredentials
	}

	user := model.User{
		ID:       "demo-user",
		Email:    email,
		FullName: strings.SplitN(email, "@", 2)[0],
	}
	token := uuid.New().String()

	s.mu.Lock()
	s.tokens[token] = user
	s.mu.Unlock()

	return token, &user, nil
}

func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

func (s *AuthService) UserForToken(token string) (*model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	return &user, true
}
