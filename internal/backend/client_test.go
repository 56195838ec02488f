package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/config"
	"github.com/rubiane-edu/finedu-web/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return backend.New(config.BackendConfig{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second}, zerolog.Nop())
}

func TestClient_AttachesTokenHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/auth/me/", r.URL.Path)
		w.Write([]byte(`{"id": 3, "email": "ana@example.com", "is_staff": true}`))
	})

	user, err := client.For("abc123").Auth.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Token abc123", gotAuth)
	assert.Equal(t, 3, user.ID)
	assert.True(t, user.IsAdmin())
}

func TestClient_AnonymousHasNoHeader(t *testing.T) {
	var gotAuth = "unset"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	_, err := client.For("").Courses.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth)
}

func TestClient_ListAcceptsBothShapes(t *testing.T) {
	bodies := []string{
		`[{"id": 1, "title": "A"}, {"id": 2, "title": "B"}]`,
		`{"count": 2, "next": null, "previous": null, "results": [{"id": 1, "title": "A"}, {"id": 2, "title": "B"}]}`,
	}
	for _, body := range bodies {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		courses, err := client.For("").Courses.List(context.Background())
		require.NoError(t, err)
		require.Len(t, courses, 2)
		assert.Equal(t, "B", courses[1].Title)
	}
}

func TestClient_ListLessonsCourseFilter(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	})

	_, err := client.For("t").Admin.ListLessons(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "course=9", gotQuery)

	_, err = client.For("t").Admin.ListLessons(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "", gotQuery)
}

func TestClient_UpdateCourseUsesPatchWithNullPrice(t *testing.T) {
	var method string
	var body map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"id": 4, "title": "Novo"}`))
	})

	course, err := client.For("t").Admin.UpdateCourse(context.Background(), 4, models.CourseInput{Title: "Novo", Slug: "novo"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, 4, course.ID)
	price, present := body["price"]
	assert.True(t, present)
	assert.Nil(t, price)
}

func TestClient_DeleteNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/course/admin/lessons/12/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.For("t").Admin.DeleteLesson(context.Background(), 12))
}

func TestClient_FieldErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"slug": ["Já existe um curso com este slug."], "price": "Número inválido.", "error": "Falhou"}`))
	})

	_, err := client.For("t").Admin.CreateCourse(context.Background(), models.CourseInput{Title: "X"})
	require.Error(t, err)

	var apiErr *backend.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	assert.Equal(t, "Já existe um curso com este slug.", backend.Message(err, "Erro ao criar curso", "title", "slug", "price"))
	assert.Equal(t, "Número inválido.", backend.Message(err, "Erro ao criar curso", "title", "price"))
	assert.Equal(t, "Falhou", backend.Message(err, "Erro ao criar curso", "title"))
}

func TestClient_UnauthorizedSentinel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Token inválido."}`))
	})

	_, err := client.For("stale").Auth.Me(context.Background())
	assert.True(t, errors.Is(err, backend.ErrUnauthorized))
	assert.False(t, errors.Is(err, backend.ErrNotFound))
	assert.Equal(t, "Token inválido.", backend.Message(err, "x", "detail"))
}

func TestClient_NetworkErrorUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := backend.New(config.BackendConfig{BaseURL: url, Timeout: time.Second}, zerolog.Nop())
	err := client.For("").Courses.Enroll(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, "Erro ao inscrever-se", backend.Message(err, "Erro ao inscrever-se"))
}

func TestClient_UploadPaymentProof(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/course/enrollment/8/upload-payment-proof/", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "pago via multicaixa", r.FormValue("notes"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "recibo.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.For("t").Courses.UploadPaymentProof(context.Background(), 8,
		backend.Upload{Filename: "recibo.pdf", Content: strings.NewReader("%PDF-1.4")}, "pago via multicaixa")
	require.NoError(t, err)
}

func TestClient_ChatCarriesConversationID(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"conversation_id": 17, "assistant_message": {"id": 2, "role": "assistant", "content": "Comece por listar as despesas."}}`))
	})

	resp, err := client.For("t").Copilot.Chat(context.Background(), models.ChatRequest{Message: "Olá"})
	require.NoError(t, err)
	assert.Nil(t, got["conversation_id"])
	assert.Equal(t, 17, resp.ConversationID)
	require.NotNil(t, resp.AssistantMessage)
	assert.Equal(t, "assistant", resp.AssistantMessage.Role)
}

func TestMessage_NonBackendError(t *testing.T) {
	assert.Equal(t, "fallback", backend.Message(errors.New("boom"), "fallback", "error"))
	assert.Equal(t, "fallback", backend.Message(nil, "fallback"))
}

func TestClient_EnrollmentReview(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"count": 1, "next": null, "previous": null, "results": [
				{"id": 4, "user": {"id": 9, "email": "ana@example.com", "first_name": "Ana"}, "course": {"id": 2, "title": "Poupança"}, "status": "pending"}
			]}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message": "ok"}`))
	})

	api := client.For("t").Admin
	rows, err := api.ListEnrollments(context.Background(), "pending")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ana@example.com", rows[0].User.Email)
	assert.Equal(t, "Poupança", rows[0].Course.Title)
	assert.True(t, rows[0].CanApprove())

	require.NoError(t, api.ApproveEnrollment(context.Background(), 4))
	require.NoError(t, api.CancelEnrollment(context.Background(), 4))
	_, err = api.ListEnrollments(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET /api/course/admin/enrollments/?status=pending",
		"POST /api/course/admin/enrollments/4/approve/?",
		"POST /api/course/admin/enrollments/4/cancel/?",
		"GET /api/course/admin/enrollments/?",
	}, calls)
}

func TestClient_PaymentProofReview(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodGet {
			w.Write([]byte(`[{"id": 7, "enrollment": {"id": 4, "user": {"email": "ana@example.com"}, "course": {"title": "Poupança"}},
				"file": "/media/proofs/a.pdf", "file_url": null, "notes": "Transferência", "status": "pending"}]`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	api := client.For("t").Admin
	proofs, err := api.ListPaymentProofs(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, proofs, 1)
	assert.Equal(t, "/media/proofs/a.pdf", proofs[0].Link())
	assert.Equal(t, 4, proofs[0].Enrollment.ID)
	assert.True(t, proofs[0].IsPending())

	require.NoError(t, api.ApprovePaymentProof(context.Background(), 7))
	require.NoError(t, api.RejectPaymentProof(context.Background(), 7))
	assert.Equal(t, []string{
		"GET /api/course/admin/payment-proofs/",
		"POST /api/course/admin/payment-proofs/7/approve/",
		"POST /api/course/admin/payment-proofs/7/reject/",
	}, calls)
}

func TestClient_FreeLessons(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/course/course/free-lesson/", r.URL.Path)
		w.Write([]byte(`[{"id": 3, "title": "Orçamento 101", "is_free": true, "course": {"id": 1, "title": "Básico"}}]`))
	})

	lessons, err := client.For("").Courses.FreeLessons(context.Background())
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "Básico", lessons[0].CourseName())
}
