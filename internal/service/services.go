package service

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/config"
	"github.com/rubiane-edu/finedu-web/internal/validation"
)

var (
	// ErrLoginRequired means the page needs a signed-in user (or an
	// admin, for admin pages). Handlers redirect to /login without a message.
	ErrLoginRequired = errors.New("login required")
	// ErrNotFound means the requested course or lesson does not exist
	ErrNotFound = errors.New("not found")
	// ErrBusy is returned when a form is submitted while a submission is in flight
	ErrBusy = errors.New("submission already in progress")
)

// UserError carries the message to show for a failed action
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// UserMessage extracts the message of a UserError, or fallback
func UserMessage(err error, fallback string) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return fallback
}

// Services holds all page services
type Services struct {
	Auth    *AuthService
	Catalog *CatalogService
	Student *StudentService
	Admin   *AdminService
}

// NewServices creates all services
func NewServices(cfg *config.Config, log zerolog.Logger) *Services {
	validator := validation.NewValidator(cfg.Server.MaxUploadSize)

	return &Services{
		Auth:    newAuthService(validator, log),
		Catalog: newCatalogService(log),
		Student: newStudentService(validator, log),
		Admin:   newAdminService(log),
	}
}
