package models

import "time"

// Assignment statuses. Transitions are one-way: draft -> published -> closed.
const (
	AssignmentStatusDraft     = "draft"
	AssignmentStatusPublished = "published"
	AssignmentStatusClosed    = "closed"
)

// Assignment is an instructor-defined task scoped to a single course.
type Assignment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CourseID      uint      `gorm:"not null;index" json:"course_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	DueDate       time.Time `gorm:"not null" json:"due_date"`
	Weight        float64   `gorm:"not null;default:1" json:"weight"`
	AllowLate     bool      `gorm:"not null;default:false" json:"allow_late"`
	AllowResubmit bool      `gorm:"not null;default:true" json:"allow_resubmit"`
	Status        string    `gorm:"size:32;not null;default:draft" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Course        Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsPastDue returns true when the deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
