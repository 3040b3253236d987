package models

import "time"

// Submission statuses.
const (
	// SubmissionStatusSubmitted indicates the answer is awaiting grading.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusGraded indicates the answer has been evaluated.
	SubmissionStatusGraded = "graded"
	// SubmissionStatusResubmissionRequired asks the learner to try again.
	SubmissionStatusResubmissionRequired = "resubmission_required"
)

// Submission is a learner's single current answer to an assignment. The
// (assignment_id, user_id) pair is unique; resubmission overwrites in place.
type Submission struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	AssignmentID  uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_user" json:"assignment_id"`
	UserID        uint       `gorm:"not null;uniqueIndex:idx_submission_assignment_user" json:"user_id"`
	Text          string     `gorm:"type:text;not null" json:"text"`
	Link          *string    `gorm:"size:512" json:"link"`
	Late          bool       `gorm:"not null;default:false" json:"late"`
	Score         *float64   `json:"score"`
	Feedback      *string    `gorm:"type:text" json:"feedback"`
	Status        string     `gorm:"size:32;not null" json:"status"`
	SubmittedAt   time.Time  `gorm:"not null" json:"submitted_at"`
	ResubmittedAt *time.Time `json:"resubmitted_at"`
	GradedAt      *time.Time `json:"graded_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Assignment    Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
