package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// EnrollmentState is the access state of a user for a course
type EnrollmentState string

const (
	EnrollmentNone      EnrollmentState = "none"
	EnrollmentPending   EnrollmentState = "pending"
	EnrollmentActive    EnrollmentState = "active"
	EnrollmentCancelled EnrollmentState = "cancelled"
)

// Label returns the Portuguese status shown in the student area
func (s EnrollmentState) Label() string {
	switch s {
	case EnrollmentActive:
		return "Ativo"
	case EnrollmentPending:
		return "Pendente"
	default:
		return "Cancelado"
	}
}

// Amount is a decimal value the backend sends either as a string
// ("15000.00") or as a JSON number.
type Amount string

// UnmarshalJSON accepts a string, a number or null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// Float parses the amount. ok is false when it is not a number.
func (a Amount) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(a), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// EnrollmentStatus is embedded in the course detail for the current user
type EnrollmentStatus struct {
	Status      EnrollmentState `json:"status"`
	EnrolledAt  *time.Time      `json:"enrolled_at,omitempty"`
	ActivatedAt *time.Time      `json:"activated_at,omitempty"`
}

// Course is a course as listed in the catalog or the admin area
type Course struct {
	ID               int               `json:"id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	Description      string            `json:"description"`
	ShortDescription string            `json:"short_description"`
	Price            Amount            `json:"price"`
	Image            string            `json:"image,omitempty"`
	IsActive         bool              `json:"is_active"`
	Lessons          []Lesson          `json:"lessons,omitempty"`
	LessonsCount     int               `json:"lessons_count"`
	FreeLessonsCount int               `json:"free_lessons_count"`
	EnrollmentStatus *EnrollmentStatus `json:"enrollment_status,omitempty"`
	CreatedAt        *time.Time        `json:"created_at,omitempty"`
}

// Status returns the viewer's enrollment state, none when absent
func (c *Course) Status() EnrollmentState {
	if c.EnrollmentStatus == nil || c.EnrollmentStatus.Status == "" {
		return EnrollmentNone
	}
	return c.EnrollmentStatus.Status
}

// HasAccess reports an active enrollment
func (c *Course) HasAccess() bool {
	return c.Status() == EnrollmentActive
}

// IsPending reports an enrollment waiting for payment approval
func (c *Course) IsPending() bool {
	return c.Status() == EnrollmentPending
}

// CourseRef is the course a lesson belongs to. The backend sends either
// the bare id or a nested {id, title} object.
type CourseRef struct {
	ID    int    `json:"id"`
	Title string `json:"title,omitempty"`
	Slug  string `json:"slug,omitempty"`
}

// UnmarshalJSON accepts a number or an object
func (r *CourseRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = CourseRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		type plain CourseRef
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*r = CourseRef(p)
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("course reference: %w", err)
	}
	*r = CourseRef{ID: id}
	return nil
}

// Attachment is a downloadable file attached to a lesson
type Attachment struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	File  string `json:"file"`
}

// LessonProgress is the viewer's completion of one lesson
type LessonProgress struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Lesson is a single lesson of a course
type Lesson struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Course      CourseRef       `json:"course"`
	CourseTitle string          `json:"course_title,omitempty"`
	VideoURL    string          `json:"video_url"`
	Duration    int             `json:"duration"`
	Content     string          `json:"content"`
	IsFree      bool            `json:"is_free"`
	Order       int             `json:"order"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	Progress    *LessonProgress `json:"progress,omitempty"`
}

// CourseName returns the best known title of the parent course
func (l *Lesson) CourseName() string {
	if l.CourseTitle != "" {
		return l.CourseTitle
	}
	return l.Course.Title
}

// PaymentProof is the uploaded proof of payment of an enrollment
type PaymentProof struct {
	ID         int        `json:"id"`
	Status     string     `json:"status"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

// Enrollment is a row of the student's "my courses" list
type Enrollment struct {
	ID           int             `json:"id"`
	Course       CourseRef       `json:"course"`
	Status       EnrollmentState `json:"status"`
	EnrolledAt   *time.Time      `json:"enrolled_at,omitempty"`
	ActivatedAt  *time.Time      `json:"activated_at,omitempty"`
	PaymentProof *PaymentProof   `json:"payment_proof,omitempty"`
}

// NeedsProof reports whether the student should upload a payment proof
func (e *Enrollment) NeedsProof() bool {
	if e.Status != EnrollmentPending {
		return false
	}
	return e.PaymentProof == nil || e.PaymentProof.Status == "rejected"
}

// ProofRejected reports a rejected payment proof
func (e *Enrollment) ProofRejected() bool {
	return e.PaymentProof != nil && e.PaymentProof.Status == "rejected"
}

// AwaitingReview reports a proof that was sent and not yet reviewed
func (e *Enrollment) AwaitingReview() bool {
	return e.Status == EnrollmentPending && e.PaymentProof != nil && e.PaymentProof.Status == "pending"
}

// CourseInput is the body of admin course create and update calls.
// Price is nil when the typed value is not a number.
type CourseInput struct {
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	Price            *float64 `json:"price"`
	IsActive         bool     `json:"is_active"`
}

// LessonInput is the body of admin lesson create and update calls
type LessonInput struct {
	Course      int    `json:"course"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	Duration    int    `json:"duration"`
	Content     string `json:"content"`
	IsFree      bool   `json:"is_free"`
	Order       int    `json:"order"`
}
