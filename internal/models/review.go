package models

import "time"

// Payment proof review states
const (
	ProofPending  = "pending"
	ProofApproved = "approved"
	ProofRejected = "rejected"
)

// ProofLabel returns the Portuguese label of a payment proof state
func ProofLabel(status string) string {
	switch status {
	case ProofApproved:
		return "Aprovado"
	case ProofRejected:
		return "Rejeitado"
	default:
		return "Pendente"
	}
}

// AdminEnrollment is a row of the admin enrollments table
type AdminEnrollment struct {
	ID          int             `json:"id"`
	User        User            `json:"user"`
	Course      CourseRef       `json:"course"`
	Status      EnrollmentState `json:"status"`
	EnrolledAt  *time.Time      `json:"enrolled_at,omitempty"`
	ActivatedAt *time.Time      `json:"activated_at,omitempty"`
}

// StatusLabel is the admin wording of the enrollment state
func (e *AdminEnrollment) StatusLabel() string {
	switch e.Status {
	case EnrollmentActive:
		return "Ativa"
	case EnrollmentPending:
		return "Pendente"
	default:
		return "Cancelada"
	}
}

// CanApprove reports whether the enrollment is waiting for approval
func (e *AdminEnrollment) CanApprove() bool {
	return e.Status == EnrollmentPending
}

// CanCancel reports whether the enrollment may still be cancelled
func (e *AdminEnrollment) CanCancel() bool {
	return e.Status == EnrollmentPending || e.Status == EnrollmentActive
}

// ProofEnrollment is the enrollment a payment proof belongs to
type ProofEnrollment struct {
	ID     int       `json:"id"`
	User   User      `json:"user"`
	Course CourseRef `json:"course"`
}

// AdminPaymentProof is a payment proof waiting for or after review
type AdminPaymentProof struct {
	ID         int             `json:"id"`
	Enrollment ProofEnrollment `json:"enrollment"`
	File       string          `json:"file"`
	FileURL    string          `json:"file_url"`
	Notes      string          `json:"notes"`
	Status     string          `json:"status"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
	ReviewedAt *time.Time      `json:"reviewed_at,omitempty"`
}

// Link returns the absolute file URL when the backend sent one, else
// the stored file path
func (p *AdminPaymentProof) Link() string {
	if p.FileURL != "" {
		return p.FileURL
	}
	return p.File
}

// StatusLabel is the Portuguese label of the review state
func (p *AdminPaymentProof) StatusLabel() string {
	return ProofLabel(p.Status)
}

// IsPending reports a proof not reviewed yet
func (p *AdminPaymentProof) IsPending() bool {
	return p.Status == "" || p.Status == ProofPending
}
