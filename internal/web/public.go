package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/service"
)

// featuredCourses is how many courses the home page shows
const featuredCourses = 3

// PublicHandler handles the catalog and informational pages
type PublicHandler struct {
	*base
	services *service.Services
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(services *service.Services, b *base, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		base:     b,
		services: services,
		log:      log.With().Str("handler", "public").Logger(),
	}
}

type catalogPage struct {
	Courses []models.Course
	Error   string
}

type freeLessonsPage struct {
	Lessons []models.Lesson
	Error   string
}

type deleteAccountPage struct {
	Done  bool
	Error string
}

// Home handles GET /
func (h *PublicHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	sess := currentSession(c)
	if _, err := sess.EnsureReady(ctx); err != nil {
		h.fail(c, err, "/")
		return
	}

	courses, err := h.services.Catalog.List(ctx, sess.API())
	if err != nil {
		// The home page still renders without its course strip
		h.log.Debug().Err(err).Msg("Featured courses unavailable")
		courses = nil
	}
	if len(courses) > featuredCourses {
		courses = courses[:featuredCourses]
	}
	h.render(c, http.StatusOK, "home.html", "", catalogPage{Courses: courses})
}

// Courses handles GET /cursos
func (h *PublicHandler) Courses(c *gin.Context) {
	ctx := c.Request.Context()
	sess := currentSession(c)
	if _, err := sess.EnsureReady(ctx); err != nil {
		h.fail(c, err, "/")
		return
	}

	page := catalogPage{}
	courses, err := h.services.Catalog.List(ctx, sess.API())
	if err != nil {
		if ctx.Err() != nil {
			c.Abort()
			return
		}
		page.Error = service.UserMessage(err, "Erro ao carregar cursos")
	}
	page.Courses = courses
	h.render(c, http.StatusOK, "courses.html", "Cursos", page)
}

// FreeLessons handles GET /conteudos-gratis
func (h *PublicHandler) FreeLessons(c *gin.Context) {
	ctx := c.Request.Context()
	sess := currentSession(c)
	if _, err := sess.EnsureReady(ctx); err != nil {
		h.fail(c, err, "/")
		return
	}

	page := freeLessonsPage{}
	lessons, err := h.services.Catalog.FreeLessons(ctx, sess.API())
	if err != nil {
		if ctx.Err() != nil {
			c.Abort()
			return
		}
		page.Error = service.UserMessage(err, "Erro ao carregar conteúdos gratuitos")
	}
	page.Lessons = lessons
	h.render(c, http.StatusOK, "free_lessons.html", "Conteúdos Grátis", page)
}

// Course handles GET /cursos/:id
func (h *PublicHandler) Course(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/cursos")
		return
	}

	ctx := c.Request.Context()
	sess := currentSession(c)
	if _, err := sess.EnsureReady(ctx); err != nil {
		h.fail(c, err, "/cursos")
		return
	}

	detail, err := h.services.Catalog.Detail(ctx, sess.API(), id)
	if err != nil {
		h.fail(c, err, "/cursos")
		return
	}
	h.render(c, http.StatusOK, "course.html", detail.Course.Title, detail)
}

// Buy handles POST /cursos/:id/comprar
func (h *PublicHandler) Buy(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/cursos")
		return
	}

	redirect, err := h.services.Catalog.Enroll(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.fail(c, err, "/cursos/"+c.Param("id"))
		return
	}
	h.redirect(c, redirect)
}

// Static renders an informational page
func (h *PublicHandler) Static(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render(c, http.StatusOK, name, title, nil)
	}
}

// DeleteAccountPage handles GET /delete-account
func (h *PublicHandler) DeleteAccountPage(c *gin.Context) {
	h.render(c, http.StatusOK, "delete_account.html", "Eliminar Conta", deleteAccountPage{})
}

// DeleteAccount handles POST /delete-account
func (h *PublicHandler) DeleteAccount(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		h.redirect(c, "/delete-account")
		return
	}

	err := h.services.Auth.RequestDeletion(c.Request.Context(), currentSession(c))
	if err != nil {
		if msg := service.UserMessage(err, ""); msg != "" {
			h.render(c, http.StatusBadRequest, "delete_account.html", "Eliminar Conta", deleteAccountPage{Error: msg})
			return
		}
		h.fail(c, err, "/delete-account")
		return
	}
	h.log.Info().Msg("Account deletion requested")
	h.render(c, http.StatusOK, "delete_account.html", "Eliminar Conta", deleteAccountPage{Done: true})
}
