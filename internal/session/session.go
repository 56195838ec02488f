// Package session resolves who is signed in for the duration of one request.
//
// A Session moves through three states:
//
//	Uninitialized → Loading → Ready(user | none)
//
// EnsureReady is the only way to read the user. The first caller starts
// the /auth/me/ lookup; concurrent callers wait for it instead of
// issuing their own. A failed lookup forgets the token and settles on
// Ready with no user.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/models"
)

// State is the resolution state of a session
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Session holds the auth state of one request
type Session struct {
	mu       sync.Mutex
	state    State
	token    string
	user     *models.User
	cleared  bool
	done     chan struct{}
	provider backend.Provider
	log      zerolog.Logger
}

// New creates an uninitialized session for token. An empty token means
// nobody is signed in.
func New(token string, provider backend.Provider, log zerolog.Logger) *Session {
	return &Session{
		token:    token,
		provider: provider,
		log:      log,
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the token, empty once it has been cleared
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Cleared reports whether the stored token was dropped during this
// request and the cookie must be removed
func (s *Session) Cleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

// API returns backend endpoints authorized with the session token
func (s *Session) API() *backend.API {
	return s.provider.For(s.Token())
}

// EnsureReady resolves the session and returns the user, nil when
// nobody is signed in. It only returns an error when ctx ends first.
func (s *Session) EnsureReady(ctx context.Context) (*models.User, error) {
	for {
		s.mu.Lock()
		switch s.state {
		case Ready:
			user := s.user
			s.mu.Unlock()
			return user, nil

		case Loading:
			done := s.done
			s.mu.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}

		default:
			if s.token == "" {
				s.state = Ready
				s.mu.Unlock()
				return nil, nil
			}
			s.state = Loading
			s.done = make(chan struct{})
			token := s.token
			s.mu.Unlock()

			user, err := s.provider.For(token).Auth.Me(ctx)
			s.finish(ctx, user, err)
			if err != nil && ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}
	}
}

func (s *Session) finish(ctx context.Context, user *models.User, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(s.done)

	switch {
	case err == nil:
		s.user = user
		s.state = Ready
	case ctx.Err() != nil:
		// Cancelled mid-flight: nothing was learned about the token
		s.state = Uninitialized
	default:
		s.log.Debug().Err(err).Msg("Session token rejected, clearing")
		s.token = ""
		s.user = nil
		s.cleared = true
		s.state = Ready
	}
}

// SignIn stores a freshly issued token and its user
func (s *Session) SignIn(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.cleared = false
	s.state = Ready
}

// SignOut forgets the token and the user
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.cleared = true
	s.state = Ready
}
