package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/rubiane-edu/finedu-web/internal/config"
)

const tokenKey = "token"

// Store keeps the backend token in a signed, HTTP-only cookie
type Store struct {
	cookies *sessions.CookieStore
	name    string
}

// NewStore creates a cookie store from the session settings
func NewStore(cfg config.SessionConfig) *Store {
	cookies := sessions.NewCookieStore([]byte(cfg.Key))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cookies, name: cfg.Name}
}

// Token reads the token from the request cookie. A missing or tampered
// cookie yields "".
func (s *Store) Token(r *http.Request) string {
	sess, err := s.cookies.Get(r, s.name)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[tokenKey].(string)
	return token
}

// Save writes token into the cookie
func (s *Store) Save(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := s.cookies.Get(r, s.name)
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

// Clear expires the cookie
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.cookies.Get(r, s.name)
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// AddFlash queues a one-time message for the next page
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	sess, _ := s.cookies.Get(r, s.name)
	sess.AddFlash(msg)
	return sess.Save(r, w)
}

// Flashes pops the queued messages
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, err := s.cookies.Get(r, s.name)
	if err != nil {
		return nil
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	out := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	// Popping only sticks once the cookie is rewritten
	_ = sess.Save(r, w)
	return out
}
