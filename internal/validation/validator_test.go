package validation

import (
	"testing"

	"github.com/rubiane-edu/finedu-web/internal/models"
)

func TestValidateRegistration(t *testing.T) {
	validator := NewValidator(0)

	tests := []struct {
		name       string
		reg        *models.Registration
		wantErrors int
		wantFields []string
	}{
		{
			name: "valid registration",
			reg: &models.Registration{
				Email:           "aluno@example.com",
				Username:        "aluno",
				Password:        "segredo123",
				PasswordConfirm: "segredo123",
			},
			wantErrors: 0,
		},
		{
			name: "password mismatch",
			reg: &models.Registration{
				Email:           "aluno@example.com",
				Username:        "aluno",
				Password:        "segredo123",
				PasswordConfirm: "segredo124",
			},
			wantErrors: 1,
			wantFields: []string{"password_confirm"},
		},
		{
			name: "invalid email format",
			reg: &models.Registration{
				Email:           "not-an-email",
				Username:        "aluno",
				Password:        "x",
				PasswordConfirm: "x",
			},
			wantErrors: 1,
			wantFields: []string{"email"},
		},
		{
			name:       "everything missing",
			reg:        &models.Registration{},
			wantErrors: 3,
			wantFields: []string{"email", "username", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.ValidateRegistration(tt.reg)
			if len(errors) != tt.wantErrors {
				t.Errorf("ValidateRegistration() got %d errors, want %d. Errors: %v", len(errors), tt.wantErrors, errors)
			}

			// Check specific fields if provided
			for _, wantField := range tt.wantFields {
				found := false
				for _, err := range errors {
					if err.Field == wantField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("Expected error for field %s not found", wantField)
				}
			}
		})
	}
}

func TestValidateRegistration_MismatchFirst(t *testing.T) {
	validator := NewValidator(0)
	errs := validator.ValidateRegistration(&models.Registration{
		Email:           "bad",
		Password:        "a",
		PasswordConfirm: "b",
	})
	if First(errs) != MsgPasswordMismatch {
		t.Errorf("Expected mismatch message first, got %q", First(errs))
	}
}

func TestValidateLogin(t *testing.T) {
	validator := NewValidator(0)

	if errs := validator.ValidateLogin(&models.Credentials{Email: "a@b.co", Password: "x"}); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
	if errs := validator.ValidateLogin(&models.Credentials{Email: "  "}); len(errs) != 2 {
		t.Errorf("Expected 2 errors, got %v", errs)
	}
}

func TestValidateSlug(t *testing.T) {
	validator := NewValidator(0)

	for _, s := range []string{"", "curso-basico", "abc123"} {
		if errs := validator.ValidateSlug(s); len(errs) != 0 {
			t.Errorf("ValidateSlug(%q) = %v, want none", s, errs)
		}
	}
	for _, s := range []string{"Curso", "curso basico", "curso--basico", "-x"} {
		if errs := validator.ValidateSlug(s); len(errs) != 1 {
			t.Errorf("ValidateSlug(%q) = %v, want one error", s, errs)
		}
	}
}

func TestValidateProof(t *testing.T) {
	validator := NewValidator(1024)

	tests := []struct {
		name     string
		filename string
		size     int64
		want     string
	}{
		{"pdf ok", "recibo.pdf", 100, ""},
		{"uppercase image ok", "RECIBO.JPG", 100, ""},
		{"missing file", "", 0, MsgFileRequired},
		{"wrong type", "recibo.exe", 100, MsgFileType},
		{"too large", "recibo.png", 2048, MsgFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := First(validator.ValidateProof(tt.filename, tt.size)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
