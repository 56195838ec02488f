package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/slug"
)

// FormState is the submission state of an admin form
type FormState int

const (
	FormEditing FormState = iota
	FormSubmitting
	FormSuccess
	FormError
)

func (s FormState) String() string {
	switch s {
	case FormEditing:
		return "editing"
	case FormSubmitting:
		return "submitting"
	case FormSuccess:
		return "success"
	case FormError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	msgCreateCourse = "Erro ao criar curso"
	msgUpdateCourse = "Erro ao atualizar curso"
	msgCreateLesson = "Erro ao criar aula"
	msgUpdateLesson = "Erro ao atualizar aula"
)

// slugField is the title/slug pair shared by the course and lesson forms.
// Until the slug is edited by hand it follows the title.
type slugField struct {
	Title       string
	Slug        string
	SlugTouched bool
}

func (f *slugField) setTitle(title string) {
	f.Title = title
	if !f.SlugTouched {
		f.Slug = slug.Make(title)
	}
}

func (f *slugField) setSlug(s string) {
	f.Slug = s
	f.SlugTouched = true
}

// effectiveSlug is what gets sent: the typed slug, else one from the title
func (f *slugField) effectiveSlug() string {
	return slug.Or(f.Slug, f.Title)
}

// formStatus holds the state machine common to all forms
type formStatus struct {
	State FormState
	Error string
}

// edited moves a failed form back to editing
func (f *formStatus) edited() {
	if f.State == FormError {
		f.State = FormEditing
		f.Error = ""
	}
}

// begin guards against double submission and checks the actor
func (f *formStatus) begin(actor *models.User) error {
	if f.State == FormSubmitting {
		return ErrBusy
	}
	if !actor.IsAdmin() {
		return ErrLoginRequired
	}
	f.State = FormSubmitting
	f.Error = ""
	return nil
}

func (f *formStatus) fail(err error, fallback string, fields ...string) error {
	f.State = FormError
	f.Error = backend.Message(err, fallback, fields...)
	return &UserError{Message: f.Error, Err: err}
}

// CourseForm is the create/edit course form.
// ID is zero for a new course.
type CourseForm struct {
	slugField
	formStatus

	ID               int
	Description      string
	ShortDescription string
	Price            string
	IsActive         bool
}

// NewCourseForm returns an empty form for a new, active course
func NewCourseForm() *CourseForm {
	return &CourseForm{IsActive: true}
}

// EditCourseForm prefills the form from an existing course. Its slug
// counts as touched so renaming does not change the URL.
func EditCourseForm(c *models.Course) *CourseForm {
	return &CourseForm{
		slugField:        slugField{Title: c.Title, Slug: c.Slug, SlugTouched: true},
		ID:               c.ID,
		Description:      c.Description,
		ShortDescription: c.ShortDescription,
		Price:            string(c.Price),
		IsActive:         c.IsActive,
	}
}

// SetTitle updates the title and, while the slug is untouched, the slug
func (f *CourseForm) SetTitle(title string) {
	f.setTitle(title)
	f.edited()
}

// SetSlug records a hand-typed slug; the slug no longer follows the title
func (f *CourseForm) SetSlug(s string) {
	f.setSlug(s)
	f.edited()
}

// SetFields updates the remaining fields
func (f *CourseForm) SetFields(description, shortDescription, price string, isActive bool) {
	f.Description = description
	f.ShortDescription = shortDescription
	f.Price = price
	f.IsActive = isActive
	f.edited()
}

// Input builds the request body. An unparsable price is sent as null
// and left for the backend to reject.
func (f *CourseForm) Input() models.CourseInput {
	in := models.CourseInput{
		Title:            f.Title,
		Slug:             f.effectiveSlug(),
		Description:      f.Description,
		ShortDescription: f.ShortDescription,
		IsActive:         f.IsActive,
	}
	if price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64); err == nil {
		in.Price = &price
	}
	return in
}

// IsNew reports whether the form creates a course
func (f *CourseForm) IsNew() bool {
	return f.ID == 0
}

// Submit sends the form. A non-admin actor gets ErrLoginRequired and
// nothing is sent. On failure the form moves to FormError with the
// first of the title, slug or price messages.
func (f *CourseForm) Submit(ctx context.Context, actor *models.User, api backend.AdminAPI) error {
	if err := f.begin(actor); err != nil {
		return err
	}

	in := f.Input()
	if f.IsNew() {
		course, err := api.CreateCourse(ctx, in)
		if err != nil {
			return f.fail(err, msgCreateCourse, "title", "slug", "price")
		}
		f.ID = course.ID
	} else {
		if _, err := api.UpdateCourse(ctx, f.ID, in); err != nil {
			return f.fail(err, msgUpdateCourse, "title", "slug", "price")
		}
	}

	f.Slug = in.Slug
	f.State = FormSuccess
	return nil
}

// LessonForm is the create/edit lesson form
type LessonForm struct {
	slugField
	formStatus

	ID          int
	CourseID    string
	Description string
	VideoURL    string
	Duration    string
	Content     string
	IsFree      bool
	Order       string
}

// NewLessonForm returns an empty form, optionally preselecting a course
func NewLessonForm(courseID int) *LessonForm {
	f := &LessonForm{Duration: "0", Order: "0"}
	if courseID != 0 {
		f.CourseID = strconv.Itoa(courseID)
	}
	return f
}

// EditLessonForm prefills the form from an existing lesson
func EditLessonForm(l *models.Lesson) *LessonForm {
	return &LessonForm{
		slugField:   slugField{Title: l.Title, Slug: l.Slug, SlugTouched: true},
		ID:          l.ID,
		CourseID:    strconv.Itoa(l.Course.ID),
		Description: l.Description,
		VideoURL:    l.VideoURL,
		Duration:    strconv.Itoa(l.Duration),
		Content:     l.Content,
		IsFree:      l.IsFree,
		Order:       strconv.Itoa(l.Order),
	}
}

// SetTitle updates the title and, while the slug is untouched, the slug
func (f *LessonForm) SetTitle(title string) {
	f.setTitle(title)
	f.edited()
}

// SetSlug records a hand-typed slug
func (f *LessonForm) SetSlug(s string) {
	f.setSlug(s)
	f.edited()
}

// SetFields updates the remaining fields
func (f *LessonForm) SetFields(courseID, description, videoURL, duration, content, order string, isFree bool) {
	f.CourseID = courseID
	f.Description = description
	f.VideoURL = videoURL
	f.Duration = duration
	f.Content = content
	f.Order = order
	f.IsFree = isFree
	f.edited()
}

// Input builds the request body. Unparsable numbers become 0.
func (f *LessonForm) Input() models.LessonInput {
	return models.LessonInput{
		Course:      atoiOrZero(f.CourseID),
		Title:       f.Title,
		Slug:        f.effectiveSlug(),
		Description: f.Description,
		VideoURL:    f.VideoURL,
		Duration:    atoiOrZero(f.Duration),
		Content:     f.Content,
		IsFree:      f.IsFree,
		Order:       atoiOrZero(f.Order),
	}
}

// IsNew reports whether the form creates a lesson
func (f *LessonForm) IsNew() bool {
	return f.ID == 0
}

// Submit sends the form; errors map from title, slug, then course
func (f *LessonForm) Submit(ctx context.Context, actor *models.User, api backend.AdminAPI) error {
	if err := f.begin(actor); err != nil {
		return err
	}

	in := f.Input()
	if f.IsNew() {
		lesson, err := api.CreateLesson(ctx, in)
		if err != nil {
			return f.fail(err, msgCreateLesson, "title", "slug", "course")
		}
		f.ID = lesson.ID
	} else {
		if _, err := api.UpdateLesson(ctx, f.ID, in); err != nil {
			return f.fail(err, msgUpdateLesson, "title", "slug", "course")
		}
	}

	f.Slug = in.Slug
	f.State = FormSuccess
	return nil
}

// atoiOrZero parses the leading integer like a lenient form field would
func atoiOrZero(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
