package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/service"
	"github.com/rubiane-edu/finedu-web/internal/validation"
)

// StudentHandler handles the student area and lesson pages
type StudentHandler struct {
	*base
	services *service.Services
	log      zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(services *service.Services, b *base, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		base:     b,
		services: services,
		log:      log.With().Str("handler", "student").Logger(),
	}
}

type studentPage struct {
	*service.StudentArea
	Flash string
}

// Area handles GET /area-do-aluno
func (h *StudentHandler) Area(c *gin.Context) {
	area, err := h.services.Student.Area(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err, "/")
		return
	}

	page := studentPage{StudentArea: area}
	if flashes := h.store.Flashes(c.Writer, c.Request); len(flashes) > 0 {
		page.Flash = strings.Join(flashes, " ")
	}
	h.render(c, http.StatusOK, "student.html", "Área do Aluno", page)
}

// UploadProof handles POST /area-do-aluno/comprovativo/:id
func (h *StudentHandler) UploadProof(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/area-do-aluno")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.fail(c, &service.UserError{Message: validation.MsgFileRequired, Err: err}, "/area-do-aluno")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.fail(c, err, "/area-do-aluno")
		return
	}
	defer file.Close()

	msg, err := h.services.Student.UploadProof(c.Request.Context(), currentSession(c), id, service.ProofFile{
		Upload: backend.Upload{Filename: header.Filename, Content: file},
		Size:   header.Size,
		Notes:  c.PostForm("notes"),
	})
	if err != nil {
		h.fail(c, err, "/area-do-aluno")
		return
	}

	if err := h.store.AddFlash(c.Writer, c.Request, msg); err != nil {
		h.log.Warn().Err(err).Msg("Failed to store flash message")
	}
	h.redirect(c, "/area-do-aluno")
}

// Lesson handles GET /aulas/:id
func (h *StudentHandler) Lesson(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/area-do-aluno")
		return
	}

	page, err := h.services.Student.Lesson(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.fail(c, err, "/area-do-aluno")
		return
	}
	h.render(c, http.StatusOK, "lesson.html", page.Lesson.Title, page)
}

// MarkCompleted handles POST /aulas/:id/concluir
func (h *StudentHandler) MarkCompleted(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/area-do-aluno")
		return
	}

	back := "/aulas/" + c.Param("id")
	if err := h.services.Student.MarkCompleted(c.Request.Context(), currentSession(c), id); err != nil {
		h.fail(c, err, back)
		return
	}
	h.redirect(c, back)
}
