package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/nbutton23/zxcvbn-go"
	"github.com/weberc2/reels/pkg/observable"
)

var (
	ErrUserNotFound      = errors.New("no user is currently signed in")
	ErrPasswordTooSimple = errors.New("password is too simple")
)

type AuthErr struct {
	Op  string
	Err error
}

func (err *AuthErr) Error() string {
	return fmt.Sprintf("failed to %s: %v", err.Op, err.Err)
}

func (err *AuthErr) Unwrap() error { return err.Err }

type User struct {
	ID          string
	Email       string
	DisplayName string
	Expires     time.Time
}

type State struct {
	User          *User
	Authenticated bool
}

// Session tracks the signed-in user and publishes every change, the way
// an auth state listener would.
type Session struct {
	Provider Provider
	Logger   *slog.Logger

	state *observable.Value[State]

	lock   sync.Mutex
	tokens *Tokens
}

func NewSession(
	provider Provider,
	dispatcher observable.Dispatcher,
	logger *slog.Logger,
) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		Provider: provider,
		Logger:   logger,
		state:    observable.NewValue(dispatcher, State{}),
	}
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.signIn(ctx, email, password); err != nil {
		return &AuthErr{Op: "sign in", Err: err}
	}
	return nil
}

// SignUp registers a new account and signs into it. Weak passwords are
// rejected before the provider is contacted.
func (s *Session) SignUp(ctx context.Context, email, password string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := validatePassword(email, password); err != nil {
		return &AuthErr{Op: "sign in", Err: err}
	}

	if err := s.Provider.Register(ctx, email, email, password); err != nil {
		return &AuthErr{Op: "sign in", Err: err}
	}

	if err := s.signIn(ctx, email, password); err != nil {
		return &AuthErr{Op: "sign in", Err: err}
	}
	return nil
}

func (s *Session) signIn(ctx context.Context, email, password string) error {
	tokens, err := s.Provider.Login(ctx, email, password)
	if err != nil {
		return err
	}

	user, err := userFromToken(tokens.AccessToken)
	if err != nil {
		return err
	}
	if user.Email == "" {
		user.Email = email
	}

	s.tokens = tokens
	s.state.Set(State{User: &user, Authenticated: true})
	s.Logger.Info("signed in", "user", user.ID)
	return nil
}

// SignOut revokes the refresh token and clears the session. Signing out
// while signed out does nothing.
func (s *Session) SignOut(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.tokens == nil {
		return nil
	}

	if err := s.Provider.Logout(ctx, s.tokens.RefreshToken.Token); err != nil {
		return &AuthErr{Op: "sign out", Err: err}
	}

	s.tokens = nil
	s.state.Set(State{})
	s.Logger.Info("signed out")
	return nil
}

func (s *Session) CurrentUser() (User, error) {
	state := s.state.Get()
	if state.User == nil {
		return User{}, ErrUserNotFound
	}
	return *state.User, nil
}

// AccessToken returns the current access token, or the empty string when
// signed out.
func (s *Session) AccessToken() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.tokens == nil {
		return ""
	}
	return s.tokens.AccessToken.Token
}

func (s *Session) State() State { return s.state.Get() }

func (s *Session) Subscribe(fn func(State)) (cancel func()) {
	return s.state.Subscribe(fn)
}

func validatePassword(email, password string) error {
	minEntropyMatch := zxcvbn.PasswordStrength(password, []string{email})
	if minEntropyMatch.Score < 3 {
		return fmt.Errorf("validating password: %w", ErrPasswordTooSimple)
	}
	return nil
}

type claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// userFromToken reads the user out of an access token without verifying
// its signature.
func userFromToken(token Token) (User, error) {
	var c claims
	if _, _, err := new(jwt.Parser).ParseUnverified(token.Token, &c); err != nil {
		return User{}, fmt.Errorf("parsing access token: %w", err)
	}
	if c.Subject == "" {
		return User{}, fmt.Errorf("parsing access token: missing `sub` claim")
	}
	return User{
		ID:          c.Subject,
		Email:       c.Email,
		DisplayName: c.Name,
		Expires:     token.Expires,
	}, nil
}
