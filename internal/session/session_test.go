package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/config"
	"github.com/rubiane-edu/finedu-web/internal/mocks"
	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/session"
)

func TestEnsureReady_NoToken(t *testing.T) {
	provider := mocks.NewMockProvider()
	s := session.New("", provider, zerolog.Nop())

	if s.State() != session.Uninitialized {
		t.Fatalf("Expected uninitialized, got %v", s.State())
	}

	user, err := s.EnsureReady(context.Background())
	if err != nil {
		t.Fatalf("EnsureReady failed: %v", err)
	}
	if user != nil {
		t.Errorf("Expected no user, got %+v", user)
	}
	if s.State() != session.Ready {
		t.Errorf("Expected ready, got %v", s.State())
	}
	if provider.Auth.Calls() != 0 {
		t.Errorf("No token must not call /auth/me/, got %d calls", provider.Auth.Calls())
	}
}

func TestEnsureReady_ResolvesOnce(t *testing.T) {
	provider := mocks.NewMockProvider()
	provider.Auth.MeFunc = func(ctx context.Context) (*models.User, error) {
		return &models.User{ID: 9, Email: "admin@example.com", IsStaff: true}, nil
	}
	s := session.New("tok", provider, zerolog.Nop())

	for i := 0; i < 3; i++ {
		user, err := s.EnsureReady(context.Background())
		if err != nil {
			t.Fatalf("EnsureReady failed: %v", err)
		}
		if user == nil || user.ID != 9 {
			t.Fatalf("Unexpected user %+v", user)
		}
	}
	if provider.Auth.Calls() != 1 {
		t.Errorf("Expected 1 /auth/me/ call, got %d", provider.Auth.Calls())
	}
	if provider.Tokens[0] != "tok" {
		t.Errorf("Expected lookup with session token, got %q", provider.Tokens[0])
	}
}

func TestEnsureReady_ConcurrentCallersShareLookup(t *testing.T) {
	provider := mocks.NewMockProvider()
	release := make(chan struct{})
	provider.Auth.MeFunc = func(ctx context.Context) (*models.User, error) {
		<-release
		return &models.User{ID: 4}, nil
	}
	s := session.New("tok", provider, zerolog.Nop())

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan *models.User, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user, _ := s.EnsureReady(context.Background())
			results <- user
		}()
	}

	// Wait until someone is loading before releasing the lookup
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != session.Loading && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()
	close(results)

	for user := range results {
		if user == nil || user.ID != 4 {
			t.Errorf("Unexpected user %+v", user)
		}
	}
	if provider.Auth.Calls() != 1 {
		t.Errorf("Expected a single shared lookup, got %d", provider.Auth.Calls())
	}
}

func TestEnsureReady_RejectedTokenIsCleared(t *testing.T) {
	provider := mocks.NewMockProvider()
	provider.Auth.MeFunc = func(ctx context.Context) (*models.User, error) {
		return nil, errors.New("401")
	}
	s := session.New("stale", provider, zerolog.Nop())

	user, err := s.EnsureReady(context.Background())
	if err != nil {
		t.Fatalf("Rejected token should not surface an error, got %v", err)
	}
	if user != nil {
		t.Errorf("Expected no user, got %+v", user)
	}
	if s.Token() != "" {
		t.Errorf("Expected token cleared, got %q", s.Token())
	}
	if !s.Cleared() {
		t.Error("Expected Cleared() to report the dropped token")
	}
	if s.State() != session.Ready {
		t.Errorf("Expected ready, got %v", s.State())
	}
}

func TestEnsureReady_WaiterHonoursContext(t *testing.T) {
	provider := mocks.NewMockProvider()
	release := make(chan struct{})
	defer close(release)
	provider.Auth.MeFunc = func(ctx context.Context) (*models.User, error) {
		<-release
		return &models.User{ID: 1}, nil
	}
	s := session.New("tok", provider, zerolog.Nop())

	go s.EnsureReady(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != session.Loading && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.EnsureReady(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestEnsureReady_CancelledLookupKeepsToken(t *testing.T) {
	provider := mocks.NewMockProvider()
	provider.Auth.MeFunc = func(ctx context.Context) (*models.User, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	s := session.New("tok", provider, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.EnsureReady(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected cancellation, got %v", err)
	}
	if s.Token() != "tok" || s.Cleared() {
		t.Error("A cancelled lookup must not clear the token")
	}
	if s.State() != session.Uninitialized {
		t.Errorf("Expected uninitialized after cancellation, got %v", s.State())
	}
}

func TestSignInAndOut(t *testing.T) {
	provider := mocks.NewMockProvider()
	s := session.New("", provider, zerolog.Nop())

	s.SignIn("new-token", &models.User{ID: 2})
	user, _ := s.EnsureReady(context.Background())
	if user == nil || user.ID != 2 || s.Token() != "new-token" {
		t.Fatalf("SignIn not applied: %+v %q", user, s.Token())
	}

	s.SignOut()
	user, _ = s.EnsureReady(context.Background())
	if user != nil || s.Token() != "" || !s.Cleared() {
		t.Error("SignOut not applied")
	}
	if provider.Auth.Calls() != 0 {
		t.Errorf("Sign in/out should not call the backend, got %d", provider.Auth.Calls())
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := session.NewStore(config.SessionConfig{
		Name:   "finedu_session",
		Key:    "0123456789abcdef0123456789abcdef",
		MaxAge: 3600,
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := store.Save(w, r, "abc"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].HttpOnly {
		t.Fatalf("Expected one HTTP-only cookie, got %+v", cookies)
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	if got := store.Token(next); got != "abc" {
		t.Errorf("Expected token abc, got %q", got)
	}

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.AddCookie(&http.Cookie{Name: "finedu_session", Value: "garbage"})
	if got := store.Token(tampered); got != "" {
		t.Errorf("Tampered cookie should yield no token, got %q", got)
	}
}

func TestStore_Clear(t *testing.T) {
	store := session.NewStore(config.SessionConfig{Name: "s", Key: "0123456789abcdef0123456789abcdef", MaxAge: 60})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := store.Clear(w, r); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("Expected expired cookie, got %+v", cookies)
	}
}

func TestStore_FlashesArePoppedOnce(t *testing.T) {
	store := session.NewStore(config.SessionConfig{Name: "s", Key: "0123456789abcdef0123456789abcdef", MaxAge: 60})

	w := httptest.NewRecorder()
	if err := store.AddFlash(w, httptest.NewRequest(http.MethodPost, "/", nil), "Enviado"); err != nil {
		t.Fatalf("AddFlash failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(w.Result().Cookies()[0])
	w2 := httptest.NewRecorder()
	if got := store.Flashes(w2, r); len(got) != 1 || got[0] != "Enviado" {
		t.Fatalf("Expected the queued flash, got %v", got)
	}

	r3 := httptest.NewRequest(http.MethodGet, "/", nil)
	r3.AddCookie(w2.Result().Cookies()[0])
	if got := store.Flashes(httptest.NewRecorder(), r3); len(got) != 0 {
		t.Errorf("Flash should be gone, got %v", got)
	}
}
