package models

import (
	"time"
)

// User is the authenticated account as returned by /auth/me/
type User struct {
	ID          int        `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone,omitempty"`
	IsStaff     bool       `json:"is_staff"`
	IsSuperuser bool       `json:"is_superuser"`
	IsAdminFlag bool       `json:"is_admin"`
	DateJoined  *time.Time `json:"date_joined,omitempty"`
}

// IsAdmin reports whether the user may open the admin area.
// Any of the three backend flags grants it.
func (u *User) IsAdmin() bool {
	if u == nil {
		return false
	}
	return u.IsAdminFlag || u.IsStaff || u.IsSuperuser
}

// DisplayName returns the first name, falling back to the email
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Email
}

// FullName joins first and last name, falling back to the username
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// RoleLabel is the role column shown in the admin users table
func (u *User) RoleLabel() string {
	switch {
	case u.IsSuperuser:
		return "Super Admin"
	case u.IsStaff:
		return "Admin"
	default:
		return "Estudante"
	}
}

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body
type Registration struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
