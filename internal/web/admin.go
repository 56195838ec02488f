package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/service"
	"github.com/rubiane-edu/finedu-web/internal/slug"
)

// AdminHandler handles the admin area
type AdminHandler struct {
	*base
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, b *base, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		base:     b,
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// confirmPage asks before a destructive action
type confirmPage struct {
	Question string
	Action   string
	Back     string
	Button   string
}

type courseFormPage struct {
	Form *service.CourseForm
}

type lessonFormPage struct {
	Form    *service.LessonForm
	Courses []models.Course
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.services.Admin.Dashboard(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, http.StatusOK, "admin_dashboard.html", "Painel", d)
}

// SlugPreview handles GET /admin/slug?title=
func (h *AdminHandler) SlugPreview(c *gin.Context) {
	if _, err := h.services.Admin.RequireAdmin(c.Request.Context(), currentSession(c)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug.Make(c.Query("title"))})
}

// Courses handles GET /admin/courses
func (h *AdminHandler) Courses(c *gin.Context) {
	list, err := h.services.Admin.Courses(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err, "/admin")
		return
	}
	h.render(c, http.StatusOK, "admin_courses.html", "Cursos", list)
}

// NewCourse handles GET /admin/courses/new
func (h *AdminHandler) NewCourse(c *gin.Context) {
	if _, err := h.services.Admin.RequireAdmin(c.Request.Context(), currentSession(c)); err != nil {
		h.fail(c, err, "/admin/courses")
		return
	}
	h.render(c, http.StatusOK, "admin_course_form.html", "Novo Curso", courseFormPage{Form: service.NewCourseForm()})
}

// EditCourse handles GET /admin/courses/:id
func (h *AdminHandler) EditCourse(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/admin/courses")
		return
	}
	course, err := h.services.Admin.Course(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.fail(c, err, "/admin/courses")
		return
	}
	h.render(c, http.StatusOK, "admin_course_form.html", "Editar Curso", courseFormPage{Form: service.EditCourseForm(course)})
}

// slugTouched reports whether the posted slug was edited by hand. The
// flag comes from the slug script; without it, a slug that differs from
// the one derived from the title still counts as typed.
func slugTouched(c *gin.Context) bool {
	if c.PostForm("slug_touched") == "1" {
		return true
	}
	typed := strings.TrimSpace(c.PostForm("slug"))
	return typed != "" && typed != slug.Make(c.PostForm("title"))
}

// courseFormFromPost rebuilds the form state from a submission
func courseFormFromPost(c *gin.Context, id int) *service.CourseForm {
	form := service.NewCourseForm()
	form.ID = id
	if slugTouched(c) {
		form.SetSlug(c.PostForm("slug"))
	}
	form.SetTitle(c.PostForm("title"))
	form.SetFields(
		c.PostForm("description"),
		c.PostForm("short_description"),
		c.PostForm("price"),
		c.PostForm("is_active") != "",
	)
	return form
}

// SaveCourse handles POST /admin/courses/new and /admin/courses/:id
func (h *AdminHandler) SaveCourse(c *gin.Context) {
	ctx := c.Request.Context()
	sess := currentSession(c)

	id := 0
	if c.Param("id") != "" {
		var ok bool
		if id, ok = paramID(c); !ok {
			h.fail(c, service.ErrNotFound, "/admin/courses")
			return
		}
	}

	actor, err := h.services.Admin.RequireAdmin(ctx, sess)
	if err != nil {
		h.fail(c, err, "/admin/courses")
		return
	}

	form := courseFormFromPost(c, id)
	if err := form.Submit(ctx, actor, sess.API().Admin); err != nil {
		if form.State == service.FormError {
			h.render(c, http.StatusUnprocessableEntity, "admin_course_form.html", "Curso", courseFormPage{Form: form})
			return
		}
		h.fail(c, err, "/admin/courses")
		return
	}

	h.log.Info().Int("course_id", form.ID).Bool("created", id == 0).Msg("Course saved")
	h.redirect(c, "/admin/courses")
}

// ConfirmDeleteCourse handles GET /admin/courses/:id/delete
func (h *AdminHandler) ConfirmDeleteCourse(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/admin/courses")
		return
	}
	course, err := h.services.Admin.Course(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.fail(c, err, "/admin/courses")
		return
	}
	h.render(c, http.StatusOK, "confirm.html", "Confirmar", confirmPage{
		Question: "Tem certeza que deseja excluir o curso \"" + course.Title + "\"?",
		Action:   "/admin/courses/" + strconv.Itoa(id) + "/delete",
		Back:     "/admin/courses",
		Button:   "Excluir",
	})
}

// DeleteCourse handles POST /admin/courses/:id/delete
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	h.destructive(c, "/admin/courses", func(id int) error {
		return h.services.Admin.DeleteCourse(c.Request.Context(), currentSession(c), id)
	})
}

// Lessons handles GET /admin/lessons?course=
func (h *AdminHandler) Lessons(c *gin.Context) {
	courseID, _ := strconv.Atoi(c.Query("course"))
	if courseID < 0 {
		courseID = 0
	}

	list, err := h.services.Admin.Lessons(c.Request.Context(), currentSession(c), courseID)
	if err != nil {
		h.fail(c, err, "/admin")
		return
	}
	h.render(c, http.StatusOK, "admin_lessons.html", "Aulas", list)
}

// NewLesson handles GET /admin/lessons/new?course=
func (h *AdminHandler) NewLesson(c *gin.Context) {
	courses, err := h.services.Admin.CourseOptions(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err, "/admin/lessons")
		return
	}
	courseID, _ := strconv.Atoi(c.Query("course"))
	h.render(c, http.StatusOK, "admin_lesson_form.html", "Nova Aula", lessonFormPage{
		Form:    service.NewLessonForm(courseID),
		Courses: courses,
	})
}

// EditLesson handles GET /admin/lessons/:id
func (h *AdminHandler) EditLesson(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/admin/lessons")
		return
	}
	lesson, courses, err := h.services.Admin.Lesson(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.fail(c, err, "/admin/lessons")
		return
	}
	h.render(c, http.StatusOK, "admin_lesson_form.html", "Editar Aula", lessonFormPage{
		Form:    service.EditLessonForm(lesson),
		Courses: courses,
	})
}

func lessonFormFromPost(c *gin.Context, id int) *service.LessonForm {
	form := service.NewLessonForm(0)
	form.ID = id
	if slugTouched(c) {
		form.SetSlug(c.PostForm("slug"))
	}
	form.SetTitle(c.PostForm("title"))
	form.SetFields(
		c.PostForm("course"),
		c.PostForm("description"),
		c.PostForm("video_url"),
		c.PostForm("duration"),
		c.PostForm("content"),
		c.PostForm("order"),
		c.PostForm("is_free") != "",
	)
	return form
}

// SaveLesson handles POST /admin/lessons/new and /admin/lessons/:id
func (h *AdminHandler) SaveLesson(c *gin.Context) {
	ctx := c.Request.Context()
	sess := currentSession(c)

	id := 0
	if c.Param("id") != "" {
		var ok bool
		if id, ok = paramID(c); !ok {
			h.fail(c, service.ErrNotFound, "/admin/lessons")
			return
		}
	}

	actor, err := h.services.Admin.RequireAdmin(ctx, sess)
	if err != nil {
		h.fail(c, err, "/admin/lessons")
		return
	}

	form := lessonFormFromPost(c, id)
	if err := form.Submit(ctx, actor, sess.API().Admin); err != nil {
		if form.State == service.FormError {
			courses, _ := h.services.Admin.CourseOptions(ctx, sess)
			h.render(c, http.StatusUnprocessableEntity, "admin_lesson_form.html", "Aula", lessonFormPage{Form: form, Courses: courses})
			return
		}
		h.fail(c, err, "/admin/lessons")
		return
	}

	h.log.Info().Int("lesson_id", form.ID).Bool("created", id == 0).Msg("Lesson saved")
	h.redirect(c, "/admin/lessons?course="+form.CourseID)
}

// ConfirmDeleteLesson handles GET /admin/lessons/:id/delete
func (h *AdminHandler) ConfirmDeleteLesson(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/admin/lessons")
		return
	}
	list, filter := lessonsURL(c)
	lesson, _, err := h.services.Admin.Lesson(c.Request.Context(), currentSession(c), id)
	if err != nil {
		h.fail(c, err, list)
		return
	}
	h.render(c, http.StatusOK, "confirm.html", "Confirmar", confirmPage{
		Question: "Tem certeza que deseja excluir a aula \"" + lesson.Title + "\"?",
		Action:   "/admin/lessons/" + strconv.Itoa(id) + "/delete" + filter,
		Back:     list,
		Button:   "Excluir",
	})
}

// lessonsURL returns the lessons list URL keeping a valid ?course=
// filter, and the query suffix on its own
func lessonsURL(c *gin.Context) (string, string) {
	courseID, err := strconv.Atoi(c.Query("course"))
	if err != nil || courseID <= 0 {
		return "/admin/lessons", ""
	}
	filter := "?course=" + strconv.Itoa(courseID)
	return "/admin/lessons" + filter, filter
}

// DeleteLesson handles POST /admin/lessons/:id/delete?course=
func (h *AdminHandler) DeleteLesson(c *gin.Context) {
	list, _ := lessonsURL(c)
	h.destructive(c, list, func(id int) error {
		return h.services.Admin.DeleteLesson(c.Request.Context(), currentSession(c), id)
	})
}

// Users handles GET /admin/users
func (h *AdminHandler) Users(c *gin.Context) {
	list, err := h.services.Admin.Users(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err, "/admin")
		return
	}
	h.render(c, http.StatusOK, "admin_users.html", "Utilizadores", list)
}

// ConfirmToggleStaff handles GET /admin/users/:id/toggle
func (h *AdminHandler) ConfirmToggleStaff(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, "/admin/users")
		return
	}
	actor, err := h.services.Admin.RequireAdmin(c.Request.Context(), currentSession(c))
	if err != nil {
		h.fail(c, err, "/admin/users")
		return
	}
	if !actor.IsSuperuser {
		h.alert(c, "Erro ao alterar permissões", "/admin/users")
		return
	}
	h.render(c, http.StatusOK, "confirm.html", "Confirmar", confirmPage{
		Question: "Tem certeza que deseja alterar as permissões deste utilizador?",
		Action:   "/admin/users/" + strconv.Itoa(id) + "/toggle",
		Back:     "/admin/users",
		Button:   "Confirmar",
	})
}

// ToggleStaff handles POST /admin/users/:id/toggle
func (h *AdminHandler) ToggleStaff(c *gin.Context) {
	h.destructive(c, "/admin/users", func(id int) error {
		return h.services.Admin.ToggleStaff(c.Request.Context(), currentSession(c), id)
	})
}

// destructive runs a confirmed action and redirects to list, whose
// GET fetches the fresh state. Without confirm=yes nothing happens.
func (h *AdminHandler) destructive(c *gin.Context, list string, action func(id int) error) {
	id, ok := paramID(c)
	if !ok {
		h.fail(c, service.ErrNotFound, list)
		return
	}
	if c.PostForm("confirm") != "yes" {
		h.redirect(c, list)
		return
	}
	if err := action(id); err != nil {
		h.fail(c, err, list)
		return
	}
	h.redirect(c, list)
}
