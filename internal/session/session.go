package session

import (
	"context"
	"sync"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/storage"

	"go.uber.org/zap"
)

const (
	KeyAccessToken = "accessToken"
	KeyAuthUser    = "authUser"
)

// Session holds the authenticated candidate and their bearer token. Every
// mutation is written through to the storage port; write failures are logged
// and otherwise ignored.
type Session struct {
	mu     sync.RWMutex
	user   *godev.AuthUser
	token  string
	port   storage.Port
	logger *zap.Logger
}

func New(port storage.Port, logger *zap.Logger) *Session {
	return &Session{port: port, logger: logger}
}

// Init loads the persisted user and token. Missing or corrupt values leave the
// session logged out.
func (s *Session) Init(ctx context.Context) {
	var token string
	hasToken := storage.ReadJSON(ctx, s.logger, s.port, KeyAccessToken, &token)

	var user godev.AuthUser
	hasUser := storage.ReadJSON(ctx, s.logger, s.port, KeyAuthUser, &user)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	if hasToken {
		s.token = token
	}
	if hasUser && user.ID != "" {
		s.user = &user
	}

	s.logger.Debug("session hydrated",
		zap.Bool("has_token", s.token != ""),
		zap.Bool("has_user", s.user != nil),
	)
}

// SetUser stores a copy of user; nil removes it.
func (s *Session) SetUser(ctx context.Context, user *godev.AuthUser) {
	s.mu.Lock()
	if user == nil {
		s.user = nil
	} else {
		cp := *user
		s.user = &cp
	}
	s.mu.Unlock()

	if user == nil {
		storage.Remove(ctx, s.logger, s.port, KeyAuthUser)
		return
	}
	storage.WriteJSON(ctx, s.logger, s.port, KeyAuthUser, user)
}

func (s *Session) SetAccessToken(ctx context.Context, token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	storage.WriteJSON(ctx, s.logger, s.port, KeyAccessToken, token)
}

func (s *Session) ResetAccessToken(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	storage.Remove(ctx, s.logger, s.port, KeyAccessToken)
}

// Reset logs the candidate out.
func (s *Session) Reset(ctx context.Context) {
	s.ResetAccessToken(ctx)
	s.SetUser(ctx, nil)
}

// AccessToken implements godev.TokenSource.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *godev.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}
