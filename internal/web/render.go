package web

import (
	"embed"
	"errors"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/config"
	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/service"
	"github.com/rubiane-edu/finedu-web/internal/session"
)

//go:embed templates/*.html static/*
var content embed.FS

const placeholderImage = "/static/placeholder.svg"

// footerMessage is prefilled in the WhatsApp chat opened from the footer
const footerMessage = "Olá! Gostaria de saber mais sobre os cursos de educação financeira."

// view is the data every template receives
type view struct {
	Title     string
	User      *models.User
	Site      config.SiteConfig
	Path      string
	RequestID string
	Data      interface{}
}

// alertPage is a blocking error shown after a failed action
type alertPage struct {
	Message string
	Back    string
}

type errorPage struct {
	Status  int
	Message string
}

// FormatKwanza formats an amount as "15.000,00 KZ". Anything that is not
// a number renders as "0 KZ".
func FormatKwanza(amount string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "0 KZ"
	}
	p := message.NewPrinter(language.Portuguese)
	return p.Sprintf("%v KZ", number.Decimal(v, number.Scale(2)))
}

// MediaURL resolves a media path against the backend origin. Empty
// paths get the placeholder image.
func MediaURL(root, path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return placeholderImage
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "/"):
		return root + path
	default:
		return root + "/" + path
	}
}

// WhatsAppLink opens a chat with number and a prefilled text
func WhatsAppLink(number, text string) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(text)
}

// lessonPolicy allows the markup a lesson body is written with and drops
// scripts, event handlers and unsafe URLs
var lessonPolicy = bluemonday.UGCPolicy()

// SanitizeHTML cleans lesson content coming from the backend before it
// is rendered unescaped
func SanitizeHTML(s string) template.HTML {
	return template.HTML(lessonPolicy.Sanitize(s))
}

func templateFuncs(cfg *config.Config) template.FuncMap {
	root := cfg.Backend.MediaRoot()
	return template.FuncMap{
		"formatCurrency": func(v interface{}) string {
			switch a := v.(type) {
			case models.Amount:
				return FormatKwanza(string(a))
			case string:
				return FormatKwanza(a)
			case float64:
				return FormatKwanza(strconv.FormatFloat(a, 'f', -1, 64))
			case int:
				return FormatKwanza(strconv.Itoa(a))
			default:
				return "0 KZ"
			}
		},
		"formatDate": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"mediaURL": func(path string) string {
			return MediaURL(root, path)
		},
		"whatsapp": func() string {
			return WhatsAppLink(cfg.Site.WhatsAppNumber, footerMessage)
		},
		"sanitizeHTML": SanitizeHTML,
		"year": func() int {
			return time.Now().Year()
		},
	}
}

func loadTemplates(cfg *config.Config) *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs(cfg)).ParseFS(content, "templates/*.html"))
}

// base holds what all handlers need to answer a page request
type base struct {
	cfg   *config.Config
	store *session.Store
	log   zerolog.Logger
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// syncCookie mirrors the session token into the cookie. It runs before
// anything is written, as headers cannot change afterwards.
func (b *base) syncCookie(c *gin.Context) {
	sess := currentSession(c)
	token := sess.Token()
	initial := c.GetString(initialTokenKey)

	var err error
	switch {
	case token == "" && sess.Cleared() && initial != "":
		err = b.store.Clear(c.Writer, c.Request)
	case token != "" && token != initial:
		err = b.store.Save(c.Writer, c.Request, token)
	}
	if err != nil {
		b.log.Error().Err(err).Msg("Failed to write session cookie")
	}
}

func (b *base) render(c *gin.Context, status int, name, title string, data interface{}) {
	v := view{
		Title:     title,
		Site:      b.cfg.Site,
		Path:      c.Request.URL.Path,
		RequestID: c.GetString(requestIDKey),
		Data:      data,
	}
	v.User, _ = currentSession(c).EnsureReady(c.Request.Context())
	b.syncCookie(c)
	c.HTML(status, name, v)
}

func (b *base) redirect(c *gin.Context, location string) {
	b.syncCookie(c)
	c.Redirect(http.StatusSeeOther, location)
}

func (b *base) alert(c *gin.Context, msg, back string) {
	b.render(c, http.StatusBadRequest, "alert.html", "Erro", alertPage{Message: msg, Back: back})
}

// fail answers a request whose page or action failed
func (b *base) fail(c *gin.Context, err error, back string) {
	if c.Request.Context().Err() != nil {
		c.Abort()
		return
	}

	switch {
	case errors.Is(err, service.ErrLoginRequired):
		b.redirect(c, "/login")
	case errors.Is(err, backend.ErrUnauthorized):
		currentSession(c).SignOut()
		b.redirect(c, "/login")
	case errors.Is(err, service.ErrNotFound):
		b.render(c, http.StatusNotFound, "error.html", "Página não encontrada",
			errorPage{Status: http.StatusNotFound, Message: "Página não encontrada"})
	default:
		if msg := service.UserMessage(err, ""); msg != "" {
			b.alert(c, msg, back)
			return
		}
		b.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		b.render(c, http.StatusInternalServerError, "error.html", "Erro",
			errorPage{Status: http.StatusInternalServerError, Message: "Ocorreu um erro inesperado"})
	}
}

// paramID parses the :id route parameter
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
