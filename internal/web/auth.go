package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/service"
)

// AuthHandler handles sign in, registration and sign out
type AuthHandler struct {
	*base
	services *service.Services
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, b *base, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		base:     b,
		services: services,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// loginPage backs both tabs of /login
type loginPage struct {
	Tab      string
	Email    string
	Username string
	First    string
	Last     string
	Phone    string
	Error    string
}

// LoginPage handles GET /login. Signed-in users go straight home.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	user, err := currentSession(c).EnsureReady(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	if user != nil {
		h.redirect(c, service.HomeFor(user))
		return
	}

	tab := "login"
	if c.Query("tab") == "register" {
		tab = "register"
	}
	h.render(c, http.StatusOK, "login.html", "Entrar", loginPage{Tab: tab})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	creds := models.Credentials{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	redirect, err := h.services.Auth.Login(c.Request.Context(), currentSession(c), creds)
	if err != nil {
		if msg := service.UserMessage(err, ""); msg != "" {
			h.render(c, http.StatusUnauthorized, "login.html", "Entrar", loginPage{Tab: "login", Email: creds.Email, Error: msg})
			return
		}
		h.fail(c, err, "/login")
		return
	}
	h.redirect(c, redirect)
}

// Register handles POST /registar
func (h *AuthHandler) Register(c *gin.Context) {
	reg := models.Registration{
		Email:           c.PostForm("email"),
		Username:        c.PostForm("username"),
		FirstName:       c.PostForm("first_name"),
		LastName:        c.PostForm("last_name"),
		Phone:           c.PostForm("phone"),
		Password:        c.PostForm("password"),
		PasswordConfirm: c.PostForm("password_confirm"),
	}

	redirect, err := h.services.Auth.Register(c.Request.Context(), currentSession(c), reg)
	if err != nil {
		if msg := service.UserMessage(err, ""); msg != "" {
			h.render(c, http.StatusUnprocessableEntity, "login.html", "Criar Conta", loginPage{
				Tab:      "register",
				Email:    reg.Email,
				Username: reg.Username,
				First:    reg.FirstName,
				Last:     reg.LastName,
				Phone:    reg.Phone,
				Error:    msg,
			})
			return
		}
		h.fail(c, err, "/login?tab=register")
		return
	}
	h.redirect(c, redirect)
}

// Logout handles GET and POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.services.Auth.Logout(currentSession(c))
	h.redirect(c, "/")
}
