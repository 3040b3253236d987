package dto

import (
	"time"

	"github.com/lumosedu/lumos-api/internal/models"
)

// SubmissionCreateRequest describes the payload for submitting an answer.
// An empty link is treated as absent.
type SubmissionCreateRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required,gt=0"`
	Text         string `json:"text" validate:"required,min=1"`
	Link         string `json:"link" validate:"omitempty,url"`
}

// GradeSubmissionRequest is the instructor-side grading payload.
type GradeSubmissionRequest struct {
	Score    float64 `json:"score" validate:"gte=0,lte=100"`
	Feedback *string `json:"feedback"`
	Status   string  `json:"status" validate:"required,oneof=graded resubmission_required"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID            uint       `json:"id"`
	AssignmentID  uint       `json:"assignment_id"`
	UserID        uint       `json:"user_id"`
	Text          string     `json:"text"`
	Link          *string    `json:"link"`
	Late          bool       `json:"late"`
	Score         *float64   `json:"score"`
	Feedback      *string    `json:"feedback"`
	Status        string     `json:"status"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	ResubmittedAt *time.Time `json:"resubmitted_at"`
	GradedAt      *time.Time `json:"graded_at"`
}

// SubmissionListResponse wraps an assignment's submission listing.
type SubmissionListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:            model.ID,
		AssignmentID:  model.AssignmentID,
		UserID:        model.UserID,
		Text:          model.Text,
		Link:          model.Link,
		Late:          model.Late,
		Score:         model.Score,
		Feedback:      model.Feedback,
		Status:        model.Status,
		SubmittedAt:   model.SubmittedAt,
		ResubmittedAt: model.ResubmittedAt,
		GradedAt:      model.GradedAt,
	}
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
