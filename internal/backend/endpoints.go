package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rubiane-edu/finedu-web/internal/models"
)

type authAPI struct{ c *conn }

func (a *authAPI) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.c.doJSON(ctx, http.MethodPost, "/auth/login/", nil, creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAPI) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.c.doJSON(ctx, http.MethodPost, "/auth/register/", nil, reg, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *authAPI) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.c.doJSON(ctx, http.MethodGet, "/auth/me/", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *authAPI) RequestDeletion(ctx context.Context) error {
	return a.c.doJSON(ctx, http.MethodPost, "/auth/request-deletion/", nil, nil, nil)
}

type courseAPI struct{ c *conn }

func (a *courseAPI) List(ctx context.Context) ([]models.Course, error) {
	var list models.List[models.Course]
	if err := a.c.doJSON(ctx, http.MethodGet, "/course/course/", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (a *courseAPI) Get(ctx context.Context, id int) (*models.Course, error) {
	var course models.Course
	if err := a.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/course/course/%d/", id), nil, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (a *courseAPI) FreeLessons(ctx context.Context) ([]models.Lesson, error) {
	var list models.List[models.Lesson]
	if err := a.c.doJSON(ctx, http.MethodGet, "/course/course/free-lesson/", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (a *courseAPI) Enroll(ctx context.Context, courseID int) error {
	body := map[string]int{"course_id": courseID}
	return a.c.doJSON(ctx, http.MethodPost, "/course/enrollment/", nil, body, nil)
}

func (a *courseAPI) MyEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	var list models.List[models.Enrollment]
	if err := a.c.doJSON(ctx, http.MethodGet, "/course/enrollment/", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (a *courseAPI) UploadPaymentProof(ctx context.Context, enrollmentID int, file Upload, notes string) error {
	path := fmt.Sprintf("/course/enrollment/%d/upload-payment-proof/", enrollmentID)
	return a.c.doMultipart(ctx, path, file, map[string]string{"notes": notes}, nil)
}

type lessonAPI struct{ c *conn }

func (a *lessonAPI) Get(ctx context.Context, id int) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := a.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/course/lesson/%d/", id), nil, nil, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (a *lessonAPI) MarkCompleted(ctx context.Context, id int) error {
	return a.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/course/lesson/%d/mark-completed/", id), nil, nil, nil)
}

type adminAPI struct{ c *conn }

func (a *adminAPI) Stats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := a.c.doJSON(ctx, http.MethodGet, "/course/admin/stats/", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (a *adminAPI) ListCourses(ctx context.Context) ([]models.Course, error) {
	var list models.List[models.Course]
	if err := a.c.doJSON(ctx, http.MethodGet, "/course/admin/courses/", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (a *adminAPI) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	var course models.Course
	if err := a.c.doJSON(ctx, http.MethodGet, adminCoursePath(id), nil, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (a *adminAPI) CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	var course models.Course
	if err := a.c.doJSON(ctx, http.MethodPost, "/course/admin/courses/", nil, in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (a *adminAPI) UpdateCourse(ctx context.Context, id int, in models.CourseInput) (*models.Course, error) {
	var course models.Course
	if err := a.c.doJSON(ctx, http.MethodPatch, adminCoursePath(id), nil, in, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (a *adminAPI) DeleteCourse(ctx context.Context, id int) error {
	return a.c.doJSON(ctx, http.MethodDelete, adminCoursePath(id), nil, nil, nil)
}

func (a *adminAPI) ListLessons(ctx context.Context, courseID int) ([]models.Lesson, error) {
	var query url.Values
	if courseID != 0 {
		query = url.Values{"course": {strconv.Itoa(courseID)}}
	}
	var list models.List[models.Lesson]
	if err := a.c.doJSON(ctx, http.MethodGet, "/course/admin/lessons/", query, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (a *adminAPI) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := a.c.doJSON(ctx, http.MethodGet, adminLessonPath(id), nil, nil, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (a *adminAPI) CreateLesson(ctx context.Context, in models.LessonInput) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := a.c.doJSON(ctx, http.MethodPost, "/course/admin/lessons/", nil, in, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (a *adminAPI) UpdateLesson(ctx context.Context, id int, in models.LessonInput) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := a.c.doJSON(ctx, http.MethodPatch, adminLessonPath(id), nil, in, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (a *adminAPI) DeleteLesson(ctx context.Context, id int) error {
	return a.c.doJSON(ctx, http.MethodDelete, adminLessonPath(id), nil, nil, nil)
}

func (a *adminAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	var list models.List[models.User]
	if err := a.c.doJSON(ctx, http.MethodGet, "/course/admin/users/", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (a *adminAPI) ToggleStaff(ctx context.Context, id int) error {
	return a.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/course/admin/users/%d/toggle-staff/", id), nil, nil, nil)
}

func (a *adminAPI) ListEnrollments(ctx context.Context, status string) ([]models.AdminEnrollment, error) {
	var list models.List[models.AdminEnrollment]
	if err := a.c.doJSON(ctx, http.MethodGet, "/course/admin/enrollments/", statusQuery(status), nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (a *adminAPI) ApproveEnrollment(ctx context.Context, id int) error {
	return a.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/course/admin/enrollments/%d/approve/", id), nil, nil, nil)
}

func (a *adminAPI) CancelEnrollment(ctx context.Context, id int) error {
	return a.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/course/admin/enrollments/%d/cancel/", id), nil, nil, nil)
}

func (a *adminAPI) ListPaymentProofs(ctx context.Context, status string) ([]models.AdminPaymentProof, error) {
	var list models.List[models.AdminPaymentProof]
	if err := a.c.doJSON(ctx, http.MethodGet, "/course/admin/payment-proofs/", statusQuery(status), nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (a *adminAPI) ApprovePaymentProof(ctx context.Context, id int) error {
	return a.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/course/admin/payment-proofs/%d/approve/", id), nil, nil, nil)
}

func (a *adminAPI) RejectPaymentProof(ctx context.Context, id int) error {
	return a.c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/course/admin/payment-proofs/%d/reject/", id), nil, nil, nil)
}

type copilotAPI struct{ c *conn }

func (a *copilotAPI) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := a.c.doJSON(ctx, http.MethodPost, "/ai-copilot/conversations/chat/", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *copilotAPI) ListConversations(ctx context.Context) (*models.List[models.Conversation], error) {
	var list models.List[models.Conversation]
	if err := a.c.doJSON(ctx, http.MethodGet, "/ai-copilot/conversations/", nil, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (a *copilotAPI) GetConversation(ctx context.Context, id int) (*models.Conversation, error) {
	var conv models.Conversation
	if err := a.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/ai-copilot/conversations/%d/", id), nil, nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func adminCoursePath(id int) string {
	return fmt.Sprintf("/course/admin/courses/%d/", id)
}

func adminLessonPath(id int) string {
	return fmt.Sprintf("/course/admin/lessons/%d/", id)
}

func statusQuery(status string) url.Values {
	if status == "" {
		return nil
	}
	return url.Values{"status": {status}}
}
