package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/pagestate"
	"github.com/rubiane-edu/finedu-web/internal/session"
)

const (
	msgLoadCourses = "Erro ao carregar cursos"
	msgLoadCourse  = "Erro ao carregar curso"
	msgEnroll      = "Erro ao inscrever-se"
	msgFreeLessons = "Erro ao carregar conteúdos gratuitos"
)

// CTA is the single call to action shown on a course page
type CTA int

const (
	CTABuy CTA = iota
	CTAPending
	CTAAccess
)

// LessonRow is a lesson on the course page. Locked rows render without a link.
type LessonRow struct {
	models.Lesson
	Viewable bool
}

// CourseDetail is the view model of /cursos/:id
type CourseDetail struct {
	Course    *models.Course
	HasAccess bool
	IsPending bool
	CTA       CTA
	Lessons   []LessonRow
}

// CatalogService serves the public course pages
type CatalogService struct {
	log zerolog.Logger
}

func newCatalogService(log zerolog.Logger) *CatalogService {
	return &CatalogService{log: log.With().Str("service", "catalog").Logger()}
}

// List returns the published courses
func (s *CatalogService) List(ctx context.Context, api *backend.API) ([]models.Course, error) {
	scope := pagestate.New(ctx)
	ticket := scope.Begin()

	courses, err := api.Courses.List(ctx)
	if gone := ticket.Err(); gone != nil {
		return nil, gone
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to list courses")
		return nil, &UserError{Message: backend.Message(err, msgLoadCourses), Err: err}
	}

	var out []models.Course
	if !pagestate.Apply(ticket, &out, courses) {
		return nil, ticket.Err()
	}
	return out, nil
}

// FreeLessons returns the free lessons of every published course
func (s *CatalogService) FreeLessons(ctx context.Context, api *backend.API) ([]models.Lesson, error) {
	ticket := pagestate.New(ctx).Begin()

	lessons, err := api.Courses.FreeLessons(ctx)
	if gone := ticket.Err(); gone != nil {
		return nil, gone
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to list free lessons")
		return nil, &UserError{Message: backend.Message(err, msgFreeLessons), Err: err}
	}
	return lessons, nil
}

// Detail builds the course page for the viewer
func (s *CatalogService) Detail(ctx context.Context, api *backend.API, id int) (*CourseDetail, error) {
	course, err := api.Courses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Warn().Err(err).Int("course_id", id).Msg("Failed to load course")
		return nil, &UserError{Message: backend.Message(err, msgLoadCourse), Err: err}
	}
	return NewCourseDetail(course), nil
}

// NewCourseDetail derives access, the call to action and lesson rows.
// Exactly one of the pending notice, the access block or the buy button applies.
func NewCourseDetail(course *models.Course) *CourseDetail {
	d := &CourseDetail{
		Course:    course,
		HasAccess: course.HasAccess(),
		IsPending: course.IsPending(),
	}

	switch {
	case d.IsPending:
		d.CTA = CTAPending
	case d.HasAccess:
		d.CTA = CTAAccess
	default:
		d.CTA = CTABuy
	}

	lessons := make([]models.Lesson, len(course.Lessons))
	copy(lessons, course.Lessons)
	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })

	d.Lessons = make([]LessonRow, 0, len(lessons))
	for _, l := range lessons {
		d.Lessons = append(d.Lessons, LessonRow{Lesson: l, Viewable: d.HasAccess || l.IsFree})
	}
	return d
}

// Enroll enrolls the viewer and returns the redirect target. Anonymous
// viewers are sent to /login without calling the backend.
func (s *CatalogService) Enroll(ctx context.Context, sess *session.Session, courseID int) (string, error) {
	user, err := sess.EnsureReady(ctx)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "/login", nil
	}

	if err := sess.API().Courses.Enroll(ctx, courseID); err != nil {
		s.log.Warn().Err(err).Int("course_id", courseID).Int("user_id", user.ID).Msg("Enrollment failed")
		return "", &UserError{Message: backend.Message(err, msgEnroll), Err: err}
	}

	s.log.Info().Int("course_id", courseID).Int("user_id", user.ID).Msg("Enrolled")
	return "/area-do-aluno", nil
}
