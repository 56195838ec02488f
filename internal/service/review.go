package service

import (
	"context"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/pagestate"
	"github.com/rubiane-edu/finedu-web/internal/session"
)

const (
	msgLoadEnrollments    = "Erro ao carregar matrículas"
	msgApproveEnrollment  = "Erro ao aprovar matrícula"
	msgCancelEnrollment   = "Erro ao cancelar matrícula"
	msgLoadPaymentProofs  = "Erro ao carregar comprovantes"
	msgApprovePayment     = "Erro ao aprovar pagamento"
	msgRejectPayment      = "Erro ao rejeitar pagamento"
	defaultPaymentsFilter = models.ProofPending
)

// Filter is one option of a status select
type Filter struct {
	Value string
	Label string
}

// EnrollmentFilters are the status options of /admin/enrollments
var EnrollmentFilters = []Filter{
	{"", "Todas"},
	{string(models.EnrollmentPending), "Pendentes"},
	{string(models.EnrollmentActive), "Ativas"},
	{string(models.EnrollmentCancelled), "Canceladas"},
}

// PaymentFilters are the status options of /admin/payments
var PaymentFilters = []Filter{
	{models.ProofPending, "Pendentes"},
	{models.ProofApproved, "Aprovados"},
	{models.ProofRejected, "Rejeitados"},
}

// EnrollmentList is the view model of /admin/enrollments
type EnrollmentList struct {
	Actor       *models.User
	Enrollments []models.AdminEnrollment
	Status      string
	Filters     []Filter
	Error       string
}

// PaymentList is the view model of /admin/payments
type PaymentList struct {
	Actor   *models.User
	Proofs  []models.AdminPaymentProof
	Status  string
	Filters []Filter
	Error   string
}

// EnrollmentStatus normalises a status query value. Unknown values list
// every enrollment.
func EnrollmentStatus(status string) string {
	for _, f := range EnrollmentFilters {
		if f.Value == status {
			return status
		}
	}
	return ""
}

// PaymentStatus normalises a status query value, defaulting to pending
func PaymentStatus(status string) string {
	for _, f := range PaymentFilters {
		if f.Value == status {
			return status
		}
	}
	return defaultPaymentsFilter
}

// Enrollments loads the enrollments, filtered by status when set
func (s *AdminService) Enrollments(ctx context.Context, sess *session.Session, status string) (*EnrollmentList, error) {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return nil, err
	}

	list := &EnrollmentList{Actor: actor, Status: EnrollmentStatus(status), Filters: EnrollmentFilters}
	ticket := pagestate.New(ctx).Begin()
	enrollments, err := sess.API().Admin.ListEnrollments(ctx, list.Status)
	if gone := ticket.Err(); gone != nil {
		return nil, gone
	}
	if err != nil {
		s.log.Warn().Err(err).Str("status", list.Status).Msg("Failed to list enrollments")
		list.Error = backend.Message(err, msgLoadEnrollments)
		return list, nil
	}
	list.Enrollments = enrollments
	return list, nil
}

// ApproveEnrollment activates a pending enrollment
func (s *AdminService) ApproveEnrollment(ctx context.Context, sess *session.Session, id int) error {
	return s.review(ctx, sess, "enrollment_id", id, "Enrollment approved", msgApproveEnrollment,
		backend.AdminAPI.ApproveEnrollment)
}

// CancelEnrollment cancels a pending or active enrollment
func (s *AdminService) CancelEnrollment(ctx context.Context, sess *session.Session, id int) error {
	return s.review(ctx, sess, "enrollment_id", id, "Enrollment cancelled", msgCancelEnrollment,
		backend.AdminAPI.CancelEnrollment)
}

// PaymentProofs loads the payment proofs with the given status. The
// default is the pending queue.
func (s *AdminService) PaymentProofs(ctx context.Context, sess *session.Session, status string) (*PaymentList, error) {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return nil, err
	}

	list := &PaymentList{Actor: actor, Status: PaymentStatus(status), Filters: PaymentFilters}
	ticket := pagestate.New(ctx).Begin()
	proofs, err := sess.API().Admin.ListPaymentProofs(ctx, list.Status)
	if gone := ticket.Err(); gone != nil {
		return nil, gone
	}
	if err != nil {
		s.log.Warn().Err(err).Str("status", list.Status).Msg("Failed to list payment proofs")
		list.Error = backend.Message(err, msgLoadPaymentProofs)
		return list, nil
	}
	list.Proofs = proofs
	return list, nil
}

// ApprovePayment approves a proof, which activates its enrollment
func (s *AdminService) ApprovePayment(ctx context.Context, sess *session.Session, id int) error {
	return s.review(ctx, sess, "proof_id", id, "Payment proof approved", msgApprovePayment,
		backend.AdminAPI.ApprovePaymentProof)
}

// RejectPayment rejects a proof
func (s *AdminService) RejectPayment(ctx context.Context, sess *session.Session, id int) error {
	return s.review(ctx, sess, "proof_id", id, "Payment proof rejected", msgRejectPayment,
		backend.AdminAPI.RejectPaymentProof)
}

func (s *AdminService) review(ctx context.Context, sess *session.Session, key string, id int, done, fallback string,
	call func(backend.AdminAPI, context.Context, int) error) error {
	actor, err := s.RequireAdmin(ctx, sess)
	if err != nil {
		return err
	}
	if err := call(sess.API().Admin, ctx, id); err != nil {
		s.log.Warn().Err(err).Int(key, id).Msg("Review action failed")
		return &UserError{Message: backend.Message(err, fallback), Err: err}
	}
	s.log.Info().Int(key, id).Int("actor_id", actor.ID).Msg(done)
	return nil
}
