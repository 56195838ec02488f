package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/models"
)

// MockProvider hands out the same mock API for every token
type MockProvider struct {
	mu     sync.Mutex
	API    *backend.API
	Tokens []string

	Auth    *MockAuthAPI
	Courses *MockCourseAPI
	Lessons *MockLessonAPI
	Admin   *MockAdminAPI
	Copilot *MockCopilotAPI
}

// Verify interface compliance
var _ backend.Provider = (*MockProvider)(nil)

func NewMockProvider() *MockProvider {
	p := &MockProvider{
		Auth:    NewMockAuthAPI(),
		Courses: NewMockCourseAPI(),
		Lessons: NewMockLessonAPI(),
		Admin:   NewMockAdminAPI(),
		Copilot: &MockCopilotAPI{},
	}
	p.API = &backend.API{
		Auth:    p.Auth,
		Courses: p.Courses,
		Lessons: p.Lessons,
		Admin:   p.Admin,
		Copilot: p.Copilot,
	}
	return p
}

func (p *MockProvider) For(token string) *backend.API {
	p.mu.Lock()
	p.Tokens = append(p.Tokens, token)
	p.mu.Unlock()
	return p.API
}

// MockAuthAPI is a mock implementation of AuthAPI. Users maps a token
// to the account returned by Me.
type MockAuthAPI struct {
	mu           sync.Mutex
	LoginFunc    func(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	RegisterFunc func(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)
	MeFunc       func(ctx context.Context) (*models.User, error)
	DeletionErr  error
	MeCalls      int
	Deletions    int
}

var _ backend.AuthAPI = (*MockAuthAPI)(nil)

func NewMockAuthAPI() *MockAuthAPI {
	return &MockAuthAPI{}
}

func (m *MockAuthAPI) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return &models.AuthResponse{Token: "test-token", User: &models.User{ID: 1, Email: creds.Email}}, nil
}

func (m *MockAuthAPI) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	return &models.AuthResponse{Token: "test-token", User: &models.User{ID: 2, Email: reg.Email}}, nil
}

func (m *MockAuthAPI) Me(ctx context.Context) (*models.User, error) {
	m.mu.Lock()
	m.MeCalls++
	m.mu.Unlock()
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return &models.User{ID: 1, Email: "aluno@example.com"}, nil
}

func (m *MockAuthAPI) RequestDeletion(ctx context.Context) error {
	m.Deletions++
	return m.DeletionErr
}

// Calls returns the number of Me calls so far
func (m *MockAuthAPI) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MeCalls
}

// MockCourseAPI is a mock implementation of CourseAPI
type MockCourseAPI struct {
	Courses        map[int]*models.Course
	Enrollments    []models.Enrollment
	FreeLessonList []models.Lesson
	ListErr        error
	GetErr         error
	EnrollErr      error
	UploadErr      error

	Enrolled []int
	Uploads  map[int]string
}

var _ backend.CourseAPI = (*MockCourseAPI)(nil)

func NewMockCourseAPI() *MockCourseAPI {
	return &MockCourseAPI{
		Courses: make(map[int]*models.Course),
		Uploads: make(map[int]string),
	}
}

func (m *MockCourseAPI) List(ctx context.Context) ([]models.Course, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return sortedCourses(m.Courses), nil
}

func (m *MockCourseAPI) Get(ctx context.Context, id int) (*models.Course, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	c, ok := m.Courses[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: 404}
	}
	return c, nil
}

func (m *MockCourseAPI) FreeLessons(ctx context.Context) ([]models.Lesson, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.FreeLessonList, nil
}

func (m *MockCourseAPI) Enroll(ctx context.Context, courseID int) error {
	if m.EnrollErr != nil {
		return m.EnrollErr
	}
	m.Enrolled = append(m.Enrolled, courseID)
	return nil
}

func (m *MockCourseAPI) MyEnrollments(ctx context.Context) ([]models.Enrollment, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Enrollments, nil
}

func (m *MockCourseAPI) UploadPaymentProof(ctx context.Context, enrollmentID int, file backend.Upload, notes string) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	data, _ := io.ReadAll(file.Content)
	m.Uploads[enrollmentID] = string(data)
	return nil
}

// MockLessonAPI is a mock implementation of LessonAPI
type MockLessonAPI struct {
	Lessons     map[int]*models.Lesson
	MarkErr     error
	MarkedCalls []int
}

var _ backend.LessonAPI = (*MockLessonAPI)(nil)

func NewMockLessonAPI() *MockLessonAPI {
	return &MockLessonAPI{Lessons: make(map[int]*models.Lesson)}
}

func (m *MockLessonAPI) Get(ctx context.Context, id int) (*models.Lesson, error) {
	l, ok := m.Lessons[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: 404}
	}
	return l, nil
}

func (m *MockLessonAPI) MarkCompleted(ctx context.Context, id int) error {
	if m.MarkErr != nil {
		return m.MarkErr
	}
	m.MarkedCalls = append(m.MarkedCalls, id)
	return nil
}

// MockAdminAPI is a mock implementation of AdminAPI backed by maps
type MockAdminAPI struct {
	mu sync.Mutex

	StatsData *models.AdminStats
	Courses   map[int]*models.Course
	Lessons   map[int]*models.Lesson
	Users     map[int]*models.User

	Enrollments   map[int]*models.AdminEnrollment
	PaymentProofs map[int]*models.AdminPaymentProof

	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
	ToggleErr error
	ReviewErr error

	CreatedCourses []models.CourseInput
	UpdatedCourses map[int]models.CourseInput
	CreatedLessons []models.LessonInput
	Deleted        []int
	Toggled        []int
	ListCalls      int
	LessonFilters  []int
	StatusFilters  []string
	Reviewed       []string

	nextID int
}

var _ backend.AdminAPI = (*MockAdminAPI)(nil)

func NewMockAdminAPI() *MockAdminAPI {
	return &MockAdminAPI{
		StatsData:      &models.AdminStats{},
		Courses:        make(map[int]*models.Course),
		Lessons:        make(map[int]*models.Lesson),
		Users:          make(map[int]*models.User),
		Enrollments:    make(map[int]*models.AdminEnrollment),
		PaymentProofs:  make(map[int]*models.AdminPaymentProof),
		UpdatedCourses: make(map[int]models.CourseInput),
		nextID:         100,
	}
}

func (m *MockAdminAPI) Stats(ctx context.Context) (*models.AdminStats, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.StatsData, nil
}

func (m *MockAdminAPI) ListCourses(ctx context.Context) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return sortedCourses(m.Courses), nil
}

func (m *MockAdminAPI) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Courses[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: 404}
	}
	return c, nil
}

func (m *MockAdminAPI) CreateCourse(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.CreatedCourses = append(m.CreatedCourses, in)
	m.nextID++
	c := &models.Course{ID: m.nextID, Title: in.Title, Slug: in.Slug, IsActive: in.IsActive}
	m.Courses[c.ID] = c
	return c, nil
}

func (m *MockAdminAPI) UpdateCourse(ctx context.Context, id int, in models.CourseInput) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	m.UpdatedCourses[id] = in
	c := &models.Course{ID: id, Title: in.Title, Slug: in.Slug, IsActive: in.IsActive}
	m.Courses[id] = c
	return c, nil
}

func (m *MockAdminAPI) DeleteCourse(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Courses, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockAdminAPI) ListLessons(ctx context.Context, courseID int) ([]models.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	m.LessonFilters = append(m.LessonFilters, courseID)
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []models.Lesson
	for _, l := range sortedLessons(m.Lessons) {
		if courseID == 0 || l.Course.ID == courseID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockAdminAPI) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.Lessons[id]
	if !ok {
		return nil, &backend.APIError{StatusCode: 404}
	}
	return l, nil
}

func (m *MockAdminAPI) CreateLesson(ctx context.Context, in models.LessonInput) (*models.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.CreatedLessons = append(m.CreatedLessons, in)
	m.nextID++
	l := &models.Lesson{ID: m.nextID, Title: in.Title, Slug: in.Slug, Course: models.CourseRef{ID: in.Course}}
	m.Lessons[l.ID] = l
	return l, nil
}

func (m *MockAdminAPI) UpdateLesson(ctx context.Context, id int, in models.LessonInput) (*models.Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	l := &models.Lesson{ID: id, Title: in.Title, Slug: in.Slug, Course: models.CourseRef{ID: in.Course}}
	m.Lessons[id] = l
	return l, nil
}

func (m *MockAdminAPI) DeleteLesson(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Lessons, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

func (m *MockAdminAPI) ListUsers(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return sortedUsers(m.Users), nil
}

func (m *MockAdminAPI) ToggleStaff(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ToggleErr != nil {
		return m.ToggleErr
	}
	if u, ok := m.Users[id]; ok {
		u.IsStaff = !u.IsStaff
	}
	m.Toggled = append(m.Toggled, id)
	return nil
}

func (m *MockAdminAPI) ListEnrollments(ctx context.Context, status string) ([]models.AdminEnrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	m.StatusFilters = append(m.StatusFilters, status)
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []models.AdminEnrollment
	for _, id := range sortedKeys(m.Enrollments) {
		if e := m.Enrollments[id]; status == "" || string(e.Status) == status {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *MockAdminAPI) ApproveEnrollment(ctx context.Context, id int) error {
	return m.review("approve-enrollment", id, func() {
		if e, ok := m.Enrollments[id]; ok {
			e.Status = models.EnrollmentActive
		}
	})
}

func (m *MockAdminAPI) CancelEnrollment(ctx context.Context, id int) error {
	return m.review("cancel-enrollment", id, func() {
		if e, ok := m.Enrollments[id]; ok {
			e.Status = models.EnrollmentCancelled
		}
	})
}

func (m *MockAdminAPI) ListPaymentProofs(ctx context.Context, status string) ([]models.AdminPaymentProof, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls++
	m.StatusFilters = append(m.StatusFilters, status)
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []models.AdminPaymentProof
	for _, id := range sortedKeys(m.PaymentProofs) {
		if p := m.PaymentProofs[id]; status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ApprovePaymentProof also activates the enrollment, like the backend
func (m *MockAdminAPI) ApprovePaymentProof(ctx context.Context, id int) error {
	return m.review("approve-proof", id, func() {
		p, ok := m.PaymentProofs[id]
		if !ok {
			return
		}
		p.Status = models.ProofApproved
		if e, ok := m.Enrollments[p.Enrollment.ID]; ok {
			e.Status = models.EnrollmentActive
		}
	})
}

func (m *MockAdminAPI) RejectPaymentProof(ctx context.Context, id int) error {
	return m.review("reject-proof", id, func() {
		if p, ok := m.PaymentProofs[id]; ok {
			p.Status = models.ProofRejected
		}
	})
}

func (m *MockAdminAPI) review(action string, id int, apply func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReviewErr != nil {
		return m.ReviewErr
	}
	apply()
	m.Reviewed = append(m.Reviewed, fmt.Sprintf("%s %d", action, id))
	return nil
}

// MockCopilotAPI is a mock implementation of CopilotAPI
type MockCopilotAPI struct {
	ChatFunc          func(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	Conversations     *models.List[models.Conversation]
	Conversation      *models.Conversation
	ListErr           error
	GetErr            error
	ChatRequests      []models.ChatRequest
	GetConversationID int
}

var _ backend.CopilotAPI = (*MockCopilotAPI)(nil)

func (m *MockCopilotAPI) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	m.ChatRequests = append(m.ChatRequests, req)
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return &models.ChatResponse{
		ConversationID:   1,
		AssistantMessage: &models.Message{ID: len(m.ChatRequests), Role: "assistant", Content: "Resposta"},
	}, nil
}

func (m *MockCopilotAPI) ListConversations(ctx context.Context) (*models.List[models.Conversation], error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if m.Conversations == nil {
		return &models.List[models.Conversation]{}, nil
	}
	return m.Conversations, nil
}

func (m *MockCopilotAPI) GetConversation(ctx context.Context, id int) (*models.Conversation, error) {
	m.GetConversationID = id
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Conversation == nil {
		return &models.Conversation{ID: id}, nil
	}
	return m.Conversation, nil
}
