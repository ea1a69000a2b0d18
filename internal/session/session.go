// Package session holds the current authentication state: the bearer token,
// the signed-in user and the outcome of the last login or register attempt.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"kboard/internal/service"
)

// ErrNotLoggedIn is returned by Token when no token is held.
var ErrNotLoggedIn = errors.New("not logged in")

// Authenticator is the subset of service.Service a session needs.
type Authenticator interface {
	Login(ctx context.Context, creds service.Credentials) (service.AuthResult, error)
	Register(ctx context.Context, reg service.Registration) (service.AuthResult, error)
}

// Session is the explicit, injected authentication state.
// It implements oauth2.TokenSource so the backend client reads the token
// from here on every authenticated call.
type Session struct {
	mu      sync.RWMutex
	store   TokenStore
	log     *zap.Logger
	token   string
	user    *service.User
	pending int
	err     string
}

var _ oauth2.TokenSource = (*Session)(nil)

// Open creates a session initialised from the durable slot.
func Open(store TokenStore, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	return &Session{store: store, log: log, token: token}, nil
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return nil, ErrNotLoggedIn
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}, nil
}

// IsAuthenticated reports whether a token is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// User returns the signed-in user. It is only known after Authenticate or
// Register in this process; a session restored from storage has a token but
// no user.
func (s *Session) User() (service.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return service.User{}, false
	}
	return *s.user, true
}

// Loading reports whether an authenticate or register call is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending > 0
}

// Err returns the message of the last failed attempt, or "".
func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ClearError resets the error message.
func (s *Session) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
}

// Authenticate logs in and persists the token on success.
func (s *Session) Authenticate(ctx context.Context, auth Authenticator, creds service.Credentials) error {
	s.begin()
	res, err := auth.Login(ctx, creds)
	return s.finish(res, err, "Login failed")
}

// Register creates an account and persists the token on success.
func (s *Session) Register(ctx context.Context, auth Authenticator, reg service.Registration) error {
	s.begin()
	res, err := auth.Register(ctx, reg)
	return s.finish(res, err, "Registration failed")
}

// End clears the token from memory and from the durable slot.
func (s *Session) End() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

func (s *Session) begin() {
	s.mu.Lock()
	s.pending++
	s.err = ""
	s.mu.Unlock()
}

func (s *Session) finish(res service.AuthResult, err error, fallback string) error {
	if err == nil && res.Token == "" {
		err = service.Rejected(0, "")
	}
	if err == nil {
		if serr := s.store.Save(res.Token); serr != nil {
			err = service.RequestFailed(fmt.Errorf("failed to save token: %w", serr))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if err != nil {
		s.err = service.Message(err, fallback)
		s.log.Debug("authentication failed", zap.String("message", s.err), zap.Error(err))
		return err
	}
	user := res.User
	s.token = res.Token
	s.user = &user
	s.log.Debug("authenticated", zap.String("user", user.ID))
	return nil
}

// Claims are the registered JWT claims carried by the bearer token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry is before now.
// Tokens without an expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}

// Claims decodes the bearer token without verifying its signature.
func (s *Session) Claims() (Claims, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return Claims{}, ErrNotLoggedIn
	}

	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, fmt.Errorf("token is not a JWT: %w", err)
	}
	var c Claims
	c.Subject = rc.Subject
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}
