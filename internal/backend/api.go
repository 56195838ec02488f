package backend

import (
	"context"
	"io"

	"github.com/rubiane-edu/finedu-web/internal/models"
)

// AuthAPI defines the account endpoints
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
	RequestDeletion(ctx context.Context) error
}

// CourseAPI defines the public course and enrollment endpoints
type CourseAPI interface {
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id int) (*models.Course, error)
	// FreeLessons lists the free lessons of every course
	FreeLessons(ctx context.Context) ([]models.Lesson, error)
	Enroll(ctx context.Context, courseID int) error
	MyEnrollments(ctx context.Context) ([]models.Enrollment, error)
	UploadPaymentProof(ctx context.Context, enrollmentID int, file Upload, notes string) error
}

// LessonAPI defines the student lesson endpoints
type LessonAPI interface {
	Get(ctx context.Context, id int) (*models.Lesson, error)
	MarkCompleted(ctx context.Context, id int) error
}

// AdminAPI defines the admin endpoints for courses, lessons and users
type AdminAPI interface {
	Stats(ctx context.Context) (*models.AdminStats, error)

	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int, in models.CourseInput) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int) error

	// ListLessons filters by course when courseID is not zero
	ListLessons(ctx context.Context, courseID int) ([]models.Lesson, error)
	GetLesson(ctx context.Context, id int) (*models.Lesson, error)
	CreateLesson(ctx context.Context, in models.LessonInput) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, id int, in models.LessonInput) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id int) error

	ListUsers(ctx context.Context) ([]models.User, error)
	ToggleStaff(ctx context.Context, id int) error

	// ListEnrollments and ListPaymentProofs filter by status when it is not empty
	ListEnrollments(ctx context.Context, status string) ([]models.AdminEnrollment, error)
	ApproveEnrollment(ctx context.Context, id int) error
	CancelEnrollment(ctx context.Context, id int) error

	ListPaymentProofs(ctx context.Context, status string) ([]models.AdminPaymentProof, error)
	ApprovePaymentProof(ctx context.Context, id int) error
	RejectPaymentProof(ctx context.Context, id int) error
}

// CopilotAPI defines the AI copilot endpoints
type CopilotAPI interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	ListConversations(ctx context.Context) (*models.List[models.Conversation], error)
	GetConversation(ctx context.Context, id int) (*models.Conversation, error)
}

// Upload is a file forwarded to the backend as multipart form data
type Upload struct {
	Filename string
	Content  io.Reader
}

// API holds all endpoint groups bound to one token
type API struct {
	Auth    AuthAPI
	Courses CourseAPI
	Lessons LessonAPI
	Admin   AdminAPI
	Copilot CopilotAPI
}

// Provider hands out API handles. An empty token gives an anonymous handle.
type Provider interface {
	For(token string) *API
}
