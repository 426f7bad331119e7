// Package auth manages the authenticated session: token persistence and the
// current-user state shared by every other layer.
package auth

import (
	"context"
	"log/slog"
	"sync"

	"duetrack/internal/api"
	"duetrack/internal/models"
)

// State is the session's authentication state.
type State int

const (
	Unauthenticated State = iota
	Loading
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Session holds the current user and authentication state. Subscribers are
// notified whenever the authenticated flag flips, which is what drives the
// deadline store's refetch on login and logout.
type Session struct {
	client *api.Client
	logger *slog.Logger

	mu    sync.RWMutex
	state State
	user  *models.User
	subs  map[int]func(authenticated bool)
	nextS int
}

// NewSession creates a session over the given API client.
func NewSession(client *api.Client, logger *slog.Logger) *Session {
	return &Session{
		client: client,
		logger: logger,
		state:  Unauthenticated,
		subs:   make(map[int]func(bool)),
	}
}

// Init restores the session from a persisted token. With a token held, the
// current user is fetched; if that fails the token is cleared and the
// session stays unauthenticated. Init never fails the program start.
func (s *Session) Init(ctx context.Context) {
	if !s.client.IsAuthenticated() {
		return
	}
	s.setState(Loading, nil)

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("Stored token rejected, clearing it", "error", err)
		s.client.Logout()
		s.setState(Unauthenticated, nil)
		return
	}
	s.setState(Authenticated, user)
}

// Login obtains a token for the credentials and loads the current user.
func (s *Session) Login(ctx context.Context, email, password string) error {
	// The service's login form takes the email in the username field.
	if _, err := s.client.Login(ctx, api.LoginRequest{Username: email, Password: password}); err != nil {
		return err
	}
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.client.Logout()
		return err
	}
	s.setState(Authenticated, user)
	s.logger.Info("Logged in", "user", user.Username)
	return nil
}

// Register creates an account and logs it in.
func (s *Session) Register(ctx context.Context, email, username, password string) error {
	req := api.RegisterRequest{Email: email, Username: username, Password: password}
	if _, err := s.client.Register(ctx, req); err != nil {
		return err
	}
	return s.Login(ctx, email, password)
}

// Logout drops the session synchronously. No network call is made.
func (s *Session) Logout() {
	s.client.Logout()
	s.setState(Unauthenticated, nil)
	s.logger.Info("Logged out")
}

// User returns the cached current user, or nil when unauthenticated.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// State returns the current authentication state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Authenticated reports whether a user is loaded.
func (s *Session) Authenticated() bool {
	return s.State() == Authenticated
}

// Subscribe registers fn to run on every authenticated-flag transition.
// The returned function unsubscribes.
func (s *Session) Subscribe(fn func(authenticated bool)) func() {
	s.mu.Lock()
	id := s.nextS
	s.nextS++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) setState(state State, user *models.User) {
	s.mu.Lock()
	wasAuth := s.state == Authenticated
	s.state = state
	s.user = user
	isAuth := state == Authenticated
	var subs []func(bool)
	if wasAuth != isAuth {
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(isAuth)
	}
}
