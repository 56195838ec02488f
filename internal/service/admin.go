package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/pagestate"
	"github.com/rubiane-edu/finedu-web/internal/session"
)

const (
	msgLoadLessons  = "Erro ao carregar aulas"
	msgLoadUsers    = "Erro ao carregar utilizadores"
	msgLoadStats    = "Erro ao carregar estatísticas"
	msgDeleteCourse = "Erro ao excluir curso"
	msgDeleteLesson = "Erro ao excluir aula"
	msgToggleStaff  = "Erro ao alterar permissões"
)

// Dashboard is the view model of /admin
type Dashboard struct {
	Actor *models.User
	Stats *models.AdminStats
	Error string
}

// CourseList is the view model of /admin/courses
type CourseList struct {
	Actor   *models.User
	Courses []models.Course
	Error   string
}

// LessonList is the view model of /admin/lessons
type LessonList struct {
	Actor        *models.User
	Lessons      []models.Lesson
	Courses      []models.Course
	CourseFilter int
	Error        string
}

// UserRow is a row of the admin users table
type UserRow struct {
	models.User
	CanToggle bool
}

// UserList is the view model of /admin/users
type UserList struct {
	Actor *models.User
	Users []UserRow
	Error string
}

// AdminService serves the admin area. Lists are always fetched fresh,
// so a page rendered after a delete or toggle reflects the server state.
type AdminService struct {
	log zerolog.Logger
}

func newAdminService(log zerolog.Logger) *AdminService {
	return &AdminService{log: log.With().Str("service", "admin").Logger()}
}

// RequireAdmin resolves the session and rejects non-admins
func (s *AdminService) RequireAdmin(ctx context.Context, sess *session.Session) (*models.User, error) {
	user, err := sess.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrLoginRequired
	}
	return user, nil
}

// Dashboard loads the summary statistics
func (s *AdminService) Dashboard(ctx context.Context, sess *session.Session) (*Dashboard, error) {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Actor: actor}
	ticket := pagestate.New(ctx).Begin()
	stats, err := sess.API().Admin.Stats(ctx)
	if gone := ticket.Err(); gone != nil {
		return nil, gone
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load stats")
		d.Error = backend.Message(err, msgLoadStats)
		return d, nil
	}
	d.Stats = stats
	return d, nil
}

// Courses loads the admin course table. A failed fetch is reported
// inline through Error.
func (s *AdminService) Courses(ctx context.Context, sess *session.Session) (*CourseList, error) {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return nil, err
	}

	list := &CourseList{Actor: actor}
	ticket := pagestate.New(ctx).Begin()
	courses, err := sess.API().Admin.ListCourses(ctx)
	if gone := ticket.Err(); gone != nil {
		return nil, gone
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to list courses")
		list.Error = backend.Message(err, msgLoadCourses)
		return list, nil
	}
	list.Courses = courses
	return list, nil
}

// Course loads one course for the edit form
func (s *AdminService) Course(ctx context.Context, sess *session.Session, id int) (*models.Course, error) {
	if _, err := s.RequireAdmin(ctx, sess); err != nil {
		return nil, err
	}
	course, err := sess.API().Admin.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &UserError{Message: backend.Message(err, msgLoadCourse), Err: err}
	}
	return course, nil
}

// DeleteCourse deletes a course
func (s *AdminService) DeleteCourse(ctx context.Context, sess *session.Session, id int) error {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return err
	}
	if err := sess.API().Admin.DeleteCourse(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("course_id", id).Msg("Failed to delete course")
		return &UserError{Message: backend.Message(err, msgDeleteCourse), Err: err}
	}
	s.log.Info().Int("course_id", id).Int("actor_id", actor.ID).Msg("Course deleted")
	return nil
}

// Lessons loads lessons, filtered by course when courseID is set, and
// the course list for the filter select, as one parallel batch.
func (s *AdminService) Lessons(ctx context.Context, sess *session.Session, courseID int) (*LessonList, error) {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return nil, err
	}

	list := &LessonList{Actor: actor, CourseFilter: courseID}
	api := sess.API()
	scope := pagestate.New(ctx)
	ticket := scope.Begin()

	var lessons []models.Lesson
	var courses []models.Course
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lessons, err = api.Admin.ListLessons(gctx, courseID)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = api.Admin.ListCourses(gctx)
		return err
	})

	err = g.Wait()
	if gone := ticket.Err(); gone != nil {
		return nil, gone
	}
	if err != nil {
		s.log.Warn().Err(err).Int("course_filter", courseID).Msg("Failed to list lessons")
		list.Error = backend.Message(err, msgLoadLessons)
		return list, nil
	}

	if !pagestate.Apply(ticket, &list.Lessons, lessons) || !pagestate.Apply(ticket, &list.Courses, courses) {
		return nil, ticket.Err()
	}
	return list, nil
}

// Lesson loads one lesson and the course options for the edit form
func (s *AdminService) Lesson(ctx context.Context, sess *session.Session, id int) (*models.Lesson, []models.Course, error) {
	if _, err := s.RequireAdmin(ctx, sess); err != nil {
		return nil, nil, err
	}

	api := sess.API()
	var lesson *models.Lesson
	var courses []models.Course
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lesson, err = api.Admin.GetLesson(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = api.Admin.ListCourses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, &UserError{Message: backend.Message(err, msgLoadLesson), Err: err}
	}
	return lesson, courses, nil
}

// CourseOptions lists courses for the new lesson form. A failure yields
// an empty select rather than an error page.
func (s *AdminService) CourseOptions(ctx context.Context, sess *session.Session) ([]models.Course, error) {
	if _, err := s.RequireAdmin(ctx, sess); err != nil {
		return nil, err
	}
	courses, err := sess.API().Admin.ListCourses(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load course options")
		return nil, nil
	}
	return courses, nil
}

// DeleteLesson deletes a lesson
func (s *AdminService) DeleteLesson(ctx context.Context, sess *session.Session, id int) error {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return err
	}
	if err := sess.API().Admin.DeleteLesson(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("lesson_id", id).Msg("Failed to delete lesson")
		return &UserError{Message: backend.Message(err, msgDeleteLesson, "detail"), Err: err}
	}
	s.log.Info().Int("lesson_id", id).Int("actor_id", actor.ID).Msg("Lesson deleted")
	return nil
}

// Users loads the users table. Only a superuser may toggle staff, and
// never on another superuser.
func (s *AdminService) Users(ctx context.Context, sess *session.Session) (*UserList, error) {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return nil, err
	}

	list := &UserList{Actor: actor}
	ticket := pagestate.New(ctx).Begin()
	users, err := sess.API().Admin.ListUsers(ctx)
	if gone := ticket.Err(); gone != nil {
		return nil, gone
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to list users")
		list.Error = backend.Message(err, msgLoadUsers)
		return list, nil
	}

	list.Users = make([]UserRow, 0, len(users))
	for _, u := range users {
		list.Users = append(list.Users, UserRow{User: u, CanToggle: CanToggleStaff(actor, &u)})
	}
	return list, nil
}

// CanToggleStaff reports whether actor may toggle target's staff flag
func CanToggleStaff(actor, target *models.User) bool {
	return actor != nil && actor.IsSuperuser && !target.IsSuperuser
}

// ToggleStaff flips the staff flag of a user
func (s *AdminService) ToggleStaff(ctx context.Context, sess *session.Session, id int) error {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return err
	}
	if !actor.IsSuperuser {
		return &UserError{Message: msgToggleStaff, Err: errors.New("actor is not a superuser")}
	}
	if err := sess.API().Admin.ToggleStaff(ctx, id); err != nil {
		s.log.Warn().Err(err).Int("user_id", id).Msg("Failed to toggle staff")
		return &UserError{Message: backend.Message(err, msgToggleStaff), Err: err}
	}
	s.log.Info().Int("user_id", id).Int("actor_id", actor.ID).Msg("Staff flag toggled")
	return nil
}
