package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/session"
	"github.com/rubiane-edu/finedu-web/internal/validation"
)

const (
	msgLoginFailed    = "Erro ao fazer login"
	msgRegisterFailed = "Erro ao registar"
	msgDeletionFailed = "Erro ao solicitar a eliminação da conta"
)

// registerFields are the labelled register errors, in display order
var registerFields = []struct{ key, label string }{
	{"email", "Email"},
	{"username", "Username"},
	{"password", "Palavra-passe"},
	{"password_confirm", "Confirmação"},
	{"phone", "Telefone"},
}

// AuthService handles sign in, registration and sign out
type AuthService struct {
	validator *validation.Validator
	log       zerolog.Logger
}

func newAuthService(validator *validation.Validator, log zerolog.Logger) *AuthService {
	return &AuthService{
		validator: validator,
		log:       log.With().Str("service", "auth").Logger(),
	}
}

// HomeFor returns where a user lands after signing in
func HomeFor(user *models.User) string {
	if user.IsAdmin() {
		return "/admin"
	}
	return "/area-do-aluno"
}

// Login signs the session in and returns the redirect target
func (s *AuthService) Login(ctx context.Context, sess *session.Session, creds models.Credentials) (string, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if errs := s.validator.ValidateLogin(&creds); len(errs) > 0 {
		return "", &UserError{Message: msgLoginFailed}
	}

	resp, err := sess.API().Auth.Login(ctx, creds)
	if err != nil {
		s.log.Info().Err(err).Msg("Login rejected")
		return "", &UserError{
			Message: backend.Message(err, msgLoginFailed, "email", "password", "non_field_errors"),
			Err:     err,
		}
	}

	user, err := s.completeSignIn(ctx, sess, resp)
	if err != nil {
		return "", err
	}
	return HomeFor(user), nil
}

// Register creates an account, signs it in and returns the redirect target.
// New accounts are always students.
func (s *AuthService) Register(ctx context.Context, sess *session.Session, reg models.Registration) (string, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	if errs := s.validator.ValidateRegistration(&reg); len(errs) > 0 {
		return "", &UserError{Message: validation.First(errs)}
	}

	resp, err := sess.API().Auth.Register(ctx, reg)
	if err != nil {
		s.log.Info().Err(err).Msg("Registration rejected")
		return "", &UserError{Message: registerMessage(err), Err: err}
	}

	if _, err := s.completeSignIn(ctx, sess, resp); err != nil {
		return "", err
	}
	return "/area-do-aluno", nil
}

// Logout signs the session out
func (s *AuthService) Logout(sess *session.Session) {
	sess.SignOut()
}

// RequestDeletion asks the backend to delete the signed-in account
func (s *AuthService) RequestDeletion(ctx context.Context, sess *session.Session) error {
	user, err := sess.EnsureReady(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrLoginRequired
	}
	if err := sess.API().Auth.RequestDeletion(ctx); err != nil {
		return &UserError{Message: backend.Message(err, msgDeletionFailed), Err: err}
	}
	return nil
}

// completeSignIn stores the token. When the response carries no user,
// it is fetched with the new token.
func (s *AuthService) completeSignIn(ctx context.Context, sess *session.Session, resp *models.AuthResponse) (*models.User, error) {
	if resp.Token == "" {
		return nil, &UserError{Message: msgLoginFailed, Err: errors.New("no token in response")}
	}

	user := resp.User
	if user == nil {
		sess.SignIn(resp.Token, nil)
		me, err := sess.API().Auth.Me(ctx)
		if err != nil {
			sess.SignOut()
			return nil, &UserError{Message: msgLoginFailed, Err: err}
		}
		user = me
	}

	sess.SignIn(resp.Token, user)
	s.log.Info().Int("user_id", user.ID).Bool("admin", user.IsAdmin()).Msg("Signed in")
	return user, nil
}

// registerMessage joins every labelled field error, one per line, then
// falls back to the generic error key.
func registerMessage(err error) string {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return msgRegisterFailed
	}

	var lines []string
	for _, f := range registerFields {
		if msgs := apiErr.Fields[f.key]; len(msgs) > 0 {
			lines = append(lines, f.label+": "+strings.Join(msgs, ", "))
		}
	}
	lines = append(lines, apiErr.Fields["non_field_errors"]...)

	if len(lines) > 0 {
		return strings.Join(lines, "\n")
	}
	return backend.Message(err, msgRegisterFailed)
}
