package validation

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/slug"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Messages shown to the user
const (
	MsgPasswordMismatch = "As palavras-passe não coincidem"
	MsgRequired         = "Campo obrigatório"
	MsgInvalidEmail     = "Email inválido"
	MsgInvalidSlug      = "O slug deve conter apenas letras minúsculas, números e hífens"
	MsgFileRequired     = "Selecione um ficheiro"
	MsgFileTooLarge     = "O ficheiro é demasiado grande"
	MsgFileType         = "Formato não suportado. Envie uma imagem ou PDF"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// proofExtensions are the payment proof formats accepted by the upload form
var proofExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".heic": true,
}

// Validator provides the checks done before a form reaches the backend.
// Everything else is left to the backend, whose messages are shown as is.
type Validator struct {
	maxUploadSize int64
}

// NewValidator creates a new validator instance
func NewValidator(maxUploadSize int64) *Validator {
	return &Validator{maxUploadSize: maxUploadSize}
}

// ValidateLogin checks that both credentials were typed
func (v *Validator) ValidateLogin(creds *models.Credentials) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(creds.Email) == "" {
		errors = append(errors, ValidationError{Field: "email", Message: MsgRequired})
	}
	if creds.Password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: MsgRequired})
	}

	return errors
}

// ValidateRegistration checks required fields and the password confirmation.
// A mismatch is always reported first.
func (v *Validator) ValidateRegistration(reg *models.Registration) []ValidationError {
	var errors []ValidationError

	// Validate confirmation
	if reg.Password != reg.PasswordConfirm {
		errors = append(errors, ValidationError{Field: "password_confirm", Message: MsgPasswordMismatch})
	}

	// Validate email
	if reg.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: MsgRequired})
	} else if !emailRegex.MatchString(reg.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: MsgInvalidEmail, Value: reg.Email})
	}

	// Validate username
	if strings.TrimSpace(reg.Username) == "" {
		errors = append(errors, ValidationError{Field: "username", Message: MsgRequired})
	}

	// Validate password
	if reg.Password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: MsgRequired})
	}

	return errors
}

// ValidateSlug reports a typed slug that the generator would not produce.
// Used as a hint only; the backend stays the authority.
func (v *Validator) ValidateSlug(s string) []ValidationError {
	if s == "" || slug.Valid(s) {
		return nil
	}
	return []ValidationError{{Field: "slug", Message: MsgInvalidSlug, Value: s}}
}

// ValidateProof checks a payment proof file before it is forwarded
func (v *Validator) ValidateProof(filename string, size int64) []ValidationError {
	if filename == "" {
		return []ValidationError{{Field: "file", Message: MsgFileRequired}}
	}

	var errors []ValidationError
	ext := strings.ToLower(filepath.Ext(filename))
	if !proofExtensions[ext] {
		errors = append(errors, ValidationError{Field: "file", Message: MsgFileType, Value: filename})
	}
	if v.maxUploadSize > 0 && size > v.maxUploadSize {
		errors = append(errors, ValidationError{Field: "file", Message: MsgFileTooLarge, Value: size})
	}
	return errors
}

// First returns the first message, or "" when there are no errors
func First(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message
}
