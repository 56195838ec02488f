package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/session"
	"github.com/rubiane-edu/finedu-web/internal/validation"
)

const (
	msgUploadProof   = "Erro ao enviar comprovativo"
	msgProofSent     = "Comprovativo enviado com sucesso! Aguarde aprovação."
	msgMarkCompleted = "Erro ao marcar como concluída"
	msgLoadLesson    = "Erro ao carregar aula"
)

// StudentArea is the view model of /area-do-aluno
type StudentArea struct {
	User        *models.User
	Enrollments []models.Enrollment
	Error       string
}

// LessonPage is the view model of /aulas/:id
type LessonPage struct {
	Lesson *models.Lesson
	User   *models.User
}

// ProofFile is an uploaded payment proof
type ProofFile struct {
	backend.Upload
	Size  int64
	Notes string
}

// StudentService serves the signed-in student pages
type StudentService struct {
	validator *validation.Validator
	log       zerolog.Logger
}

func newStudentService(validator *validation.Validator, log zerolog.Logger) *StudentService {
	return &StudentService{
		validator: validator,
		log:       log.With().Str("service", "student").Logger(),
	}
}

func requireUser(ctx context.Context, sess *session.Session) (*models.User, error) {
	user, err := sess.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrLoginRequired
	}
	return user, nil
}

// Area loads the student's enrollments. A failed fetch renders an empty
// list, as the page has nothing else to show.
func (s *StudentService) Area(ctx context.Context, sess *session.Session) (*StudentArea, error) {
	user, err := requireUser(ctx, sess)
	if err != nil {
		return nil, err
	}

	area := &StudentArea{User: user}
	enrollments, err := sess.API().Courses.MyEnrollments(ctx)
	if err != nil {
		s.log.Warn().Err(err).Int("user_id", user.ID).Msg("Failed to load enrollments")
		area.Error = backend.Message(err, "Erro ao carregar dados")
		return area, nil
	}
	area.Enrollments = enrollments
	return area, nil
}

// UploadProof forwards a payment proof and returns the confirmation message
func (s *StudentService) UploadProof(ctx context.Context, sess *session.Session, enrollmentID int, file ProofFile) (string, error) {
	user, err := requireUser(ctx, sess)
	if err != nil {
		return "", err
	}

	if errs := s.validator.ValidateProof(file.Filename, file.Size); len(errs) > 0 {
		return "", &UserError{Message: validation.First(errs)}
	}

	if err := sess.API().Courses.UploadPaymentProof(ctx, enrollmentID, file.Upload, file.Notes); err != nil {
		s.log.Warn().Err(err).Int("enrollment_id", enrollmentID).Msg("Payment proof upload failed")
		return "", &UserError{Message: backend.Message(err, msgUploadProof), Err: err}
	}

	s.log.Info().Int("enrollment_id", enrollmentID).Int("user_id", user.ID).Msg("Payment proof uploaded")
	return msgProofSent, nil
}

// Lesson loads a lesson page. Access is enforced by the backend.
func (s *StudentService) Lesson(ctx context.Context, sess *session.Session, id int) (*LessonPage, error) {
	user, err := sess.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}

	lesson, err := sess.API().Lessons.Get(ctx, id)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &UserError{Message: backend.Message(err, msgLoadLesson), Err: err}
	}
	return &LessonPage{Lesson: lesson, User: user}, nil
}

// MarkCompleted records the lesson as completed for the student
func (s *StudentService) MarkCompleted(ctx context.Context, sess *session.Session, id int) error {
	if _, err := requireUser(ctx, sess); err != nil {
		return err
	}
	if err := sess.API().Lessons.MarkCompleted(ctx, id); err != nil {
		return &UserError{Message: backend.Message(err, msgMarkCompleted), Err: err}
	}
	return nil
}
