package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rubiane-edu/finedu-web/internal/mocks"
	"github.com/rubiane-edu/finedu-web/internal/models"
	"github.com/rubiane-edu/finedu-web/internal/service"
	"github.com/rubiane-edu/finedu-web/internal/session"
)

// readySession resolves the user up front so a closed page fails in the
// list fetch rather than in the session guard
func readySession(t *testing.T, provider *mocks.MockProvider) *session.Session {
	t.Helper()
	sess := signedIn(provider, adminUser)
	if _, err := sess.EnsureReady(context.Background()); err != nil {
		t.Fatal(err)
	}
	return sess
}

func TestAdmin_ClosedPageSkipsInlineError(t *testing.T) {
	screens := []struct {
		name string
		load func(*service.Services, context.Context, *session.Session) (interface{}, error)
	}{
		{"dashboard", func(s *service.Services, ctx context.Context, sess *session.Session) (interface{}, error) {
			return s.Admin.Dashboard(ctx, sess)
		}},
		{"courses", func(s *service.Services, ctx context.Context, sess *session.Session) (interface{}, error) {
			return s.Admin.Courses(ctx, sess)
		}},
		{"lessons", func(s *service.Services, ctx context.Context, sess *session.Session) (interface{}, error) {
			return s.Admin.Lessons(ctx, sess, 2)
		}},
		{"users", func(s *service.Services, ctx context.Context, sess *session.Session) (interface{}, error) {
			return s.Admin.Users(ctx, sess)
		}},
		{"enrollments", func(s *service.Services, ctx context.Context, sess *session.Session) (interface{}, error) {
			return s.Admin.Enrollments(ctx, sess, "")
		}},
		{"payments", func(s *service.Services, ctx context.Context, sess *session.Session) (interface{}, error) {
			return s.Admin.PaymentProofs(ctx, sess, "")
		}},
	}
	for _, tt := range screens {
		t.Run(tt.name, func(t *testing.T) {
			services := newTestServices()
			provider := mocks.NewMockProvider()
			sess := readySession(t, provider)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			provider.Admin.ListErr = fmt.Errorf("list %s: %w", tt.name, context.Canceled)

			view, err := tt.load(services, ctx, sess)
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Expected context.Canceled, got %v", err)
			}
			if err == nil {
				t.Errorf("Closed page got a view: %+v", view)
			}
		})
	}
}

func TestCatalog_ClosedPageDropsError(t *testing.T) {
	services := newTestServices()
	provider := mocks.NewMockProvider()
	provider.Courses.ListErr = fmt.Errorf("list: %w", context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api := provider.For("")

	if _, err := services.Catalog.List(ctx, api); !errors.Is(err, context.Canceled) {
		t.Errorf("List: expected context.Canceled, got %v", err)
	}
	if _, err := services.Catalog.FreeLessons(ctx, api); !errors.Is(err, context.Canceled) {
		t.Errorf("FreeLessons: expected context.Canceled, got %v", err)
	}
}

func TestCatalog_FreeLessons(t *testing.T) {
	services := newTestServices()
	provider := mocks.NewMockProvider()
	provider.Courses.FreeLessonList = []models.Lesson{{ID: 3, Title: "Poupar", IsFree: true}}

	lessons, err := services.Catalog.FreeLessons(context.Background(), provider.For(""))
	if err != nil {
		t.Fatalf("FreeLessons failed: %v", err)
	}
	if len(lessons) != 1 || lessons[0].ID != 3 {
		t.Errorf("Unexpected lessons %+v", lessons)
	}

	provider.Courses.ListErr = errors.New("boom")
	_, err = services.Catalog.FreeLessons(context.Background(), provider.For(""))
	if got := service.UserMessage(err, ""); got != "Erro ao carregar conteúdos gratuitos" {
		t.Errorf("Got %q", got)
	}
}

func TestAdmin_EnrollmentsFilter(t *testing.T) {
	services := newTestServices()
	provider := mocks.NewMockProvider()
	provider.Admin.Enrollments[1] = &models.AdminEnrollment{ID: 1, Status: models.EnrollmentPending}
	provider.Admin.Enrollments[2] = &models.AdminEnrollment{ID: 2, Status: models.EnrollmentActive}
	sess := signedIn(provider, adminUser)

	list, err := services.Admin.Enrollments(context.Background(), sess, "pending")
	if err != nil {
		t.Fatalf("Enrollments failed: %v", err)
	}
	if list.Status != "pending" || len(list.Enrollments) != 1 || list.Enrollments[0].ID != 1 {
		t.Errorf("Unexpected list %+v", list)
	}

	list, _ = services.Admin.Enrollments(context.Background(), sess, "bogus")
	if list.Status != "" || len(list.Enrollments) != 2 {
		t.Errorf("Unknown status should list all, got %q with %d rows", list.Status, len(list.Enrollments))
	}
	if want := []string{"pending", ""}; fmt.Sprint(provider.Admin.StatusFilters) != fmt.Sprint(want) {
		t.Errorf("Filters sent %q, want %q", provider.Admin.StatusFilters, want)
	}

	provider.Admin.ListErr = errors.New("boom")
	list, err = services.Admin.Enrollments(context.Background(), sess, "")
	if err != nil || list.Error != "Erro ao carregar matrículas" {
		t.Errorf("Expected inline error, got %q %v", list.Error, err)
	}
}

func TestAdmin_EnrollmentReview(t *testing.T) {
	services := newTestServices()
	provider := mocks.NewMockProvider()
	provider.Admin.Enrollments[4] = &models.AdminEnrollment{ID: 4, Status: models.EnrollmentPending}
	provider.Admin.Enrollments[5] = &models.AdminEnrollment{ID: 5, Status: models.EnrollmentActive}
	sess := signedIn(provider, adminUser)

	if err := services.Admin.ApproveEnrollment(context.Background(), sess, 4); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if err := services.Admin.CancelEnrollment(context.Background(), sess, 5); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if provider.Admin.Enrollments[4].Status != models.EnrollmentActive {
		t.Error("Approved enrollment should be active")
	}
	if provider.Admin.Enrollments[5].Status != models.EnrollmentCancelled {
		t.Error("Cancelled enrollment should be cancelled")
	}

	provider.Admin.ReviewErr = errors.New("boom")
	if got := service.UserMessage(services.Admin.ApproveEnrollment(context.Background(), sess, 4), ""); got != "Erro ao aprovar matrícula" {
		t.Errorf("Got %q", got)
	}
	if got := service.UserMessage(services.Admin.CancelEnrollment(context.Background(), sess, 4), ""); got != "Erro ao cancelar matrícula" {
		t.Errorf("Got %q", got)
	}
}

func TestAdmin_PaymentProofs(t *testing.T) {
	services := newTestServices()
	provider := mocks.NewMockProvider()
	provider.Admin.Enrollments[7] = &models.AdminEnrollment{ID: 7, Status: models.EnrollmentPending}
	provider.Admin.PaymentProofs[1] = &models.AdminPaymentProof{ID: 1, Status: models.ProofPending, Enrollment: models.ProofEnrollment{ID: 7}}
	provider.Admin.PaymentProofs[2] = &models.AdminPaymentProof{ID: 2, Status: models.ProofRejected}
	sess := signedIn(provider, adminUser)

	list, err := services.Admin.PaymentProofs(context.Background(), sess, "")
	if err != nil {
		t.Fatalf("PaymentProofs failed: %v", err)
	}
	if list.Status != models.ProofPending || len(list.Proofs) != 1 || list.Proofs[0].ID != 1 {
		t.Errorf("Default should be the pending queue, got %+v", list)
	}

	if err := services.Admin.ApprovePayment(context.Background(), sess, 1); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if provider.Admin.PaymentProofs[1].Status != models.ProofApproved {
		t.Error("Proof should be approved")
	}
	if provider.Admin.Enrollments[7].Status != models.EnrollmentActive {
		t.Error("Approving the proof should activate its enrollment")
	}

	list, _ = services.Admin.PaymentProofs(context.Background(), sess, "approved")
	if len(list.Proofs) != 1 || list.Proofs[0].ID != 1 {
		t.Errorf("Approved filter got %+v", list.Proofs)
	}

	provider.Admin.ReviewErr = errors.New("boom")
	if got := service.UserMessage(services.Admin.RejectPayment(context.Background(), sess, 2), ""); got != "Erro ao rejeitar pagamento" {
		t.Errorf("Got %q", got)
	}
	if got := service.UserMessage(services.Admin.ApprovePayment(context.Background(), sess, 2), ""); got != "Erro ao aprovar pagamento" {
		t.Errorf("Got %q", got)
	}
}

func TestAdmin_ReviewRequiresAdmin(t *testing.T) {
	services := newTestServices()
	provider := mocks.NewMockProvider()
	student := signedIn(provider, &models.User{ID: 5})

	if err := services.Admin.ApprovePayment(context.Background(), student, 1); !errors.Is(err, service.ErrLoginRequired) {
		t.Errorf("Expected ErrLoginRequired, got %v", err)
	}
	if len(provider.Admin.Reviewed) != 0 {
		t.Errorf("No review call expected, got %v", provider.Admin.Reviewed)
	}
}
