package models

import "time"

// RecentEnrollment is an entry in the admin dashboard feed
type RecentEnrollment struct {
	ID         int             `json:"id"`
	UserEmail  string          `json:"user_email"`
	UserName   string          `json:"user_name"`
	Course     CourseRef       `json:"course"`
	Status     EnrollmentState `json:"status"`
	EnrolledAt *time.Time      `json:"enrolled_at,omitempty"`
}

// AdminStats is the admin dashboard summary
type AdminStats struct {
	TotalCourses                   int                `json:"total_courses"`
	TotalEnrollments               int                `json:"total_enrollments"`
	TotalMentorshipRequests        int                `json:"total_mentorship_requests"`
	PendingPayments                int                `json:"pending_payments"`
	PendingMobileSubscriptionProof int                `json:"pending_mobile_subscription_proofs"`
	RecentEnrollments              []RecentEnrollment `json:"recent_enrollments"`
}
