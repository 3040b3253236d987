package dto

import (
	"time"

	"github.com/lumosedu/lumos-api/internal/models"
)

// EnrollmentCreateRequest describes the payload for enrolling in a course.
type EnrollmentCreateRequest struct {
	CourseID uint `json:"course_id" validate:"required,gt=0"`
}

// EnrollmentListQuery describes pagination for the my-enrollments listing.
type EnrollmentListQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize applies the listing defaults.
func (q *EnrollmentListQuery) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
}

// EnrollmentResponse is the serialized representation returned to API clients.
type EnrollmentResponse struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	CourseID   uint       `json:"course_id"`
	EnrolledAt time.Time  `json:"enrolled_at"`
	CanceledAt *time.Time `json:"canceled_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// EnrollmentListResponse wraps a paginated enrollment listing.
type EnrollmentListResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:         model.ID,
		UserID:     model.UserID,
		CourseID:   model.CourseID,
		EnrolledAt: model.EnrolledAt,
		CanceledAt: model.CanceledAt,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
