package models

import "time"

// Enrollment records a learner's association with a course. Cancellation is a
// soft delete: canceled_at is set and the row is kept; re-enrolling creates a
// new row. At most one active row may exist per (user, course) pair.
type Enrollment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index:idx_enrollment_user_course" json:"user_id"`
	CourseID   uint       `gorm:"not null;index:idx_enrollment_user_course" json:"course_id"`
	EnrolledAt time.Time  `gorm:"not null" json:"enrolled_at"`
	CanceledAt *time.Time `json:"canceled_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsActive reports whether the enrollment has not been canceled.
func (e Enrollment) IsActive() bool {
	return e.CanceledAt == nil
}
