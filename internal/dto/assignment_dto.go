package dto

import (
	"time"

	"github.com/lumosedu/lumos-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	CourseID      uint     `json:"course_id" validate:"required,gt=0"`
	Title         string   `json:"title" validate:"required,min=1"`
	Description   string   `json:"description" validate:"required,min=1"`
	DueDate       string   `json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Weight        *float64 `json:"weight" validate:"omitempty,gte=0"`
	AllowLate     *bool    `json:"allow_late"`
	AllowResubmit *bool    `json:"allow_resubmit"`
	Status        string   `json:"status" validate:"omitempty,oneof=draft published"`
}

// AssignmentUpdateRequest describes a partial assignment update. Status is
// never touched here; it moves through the dedicated status endpoint.
type AssignmentUpdateRequest struct {
	Title         *string  `json:"title" validate:"omitempty,min=1"`
	Description   *string  `json:"description" validate:"omitempty,min=1"`
	DueDate       *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Weight        *float64 `json:"weight" validate:"omitempty,gte=0"`
	AllowLate     *bool    `json:"allow_late"`
	AllowResubmit *bool    `json:"allow_resubmit"`
}

// AssignmentStatusRequest carries the requested next status.
type AssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft published closed"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID            uint      `json:"id"`
	CourseID      uint      `json:"course_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	DueDate       time.Time `json:"due_date"`
	Weight        float64   `json:"weight"`
	AllowLate     bool      `json:"allow_late"`
	AllowResubmit bool      `json:"allow_resubmit"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AssignmentListResponse wraps a course's assignment listing.
type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:            model.ID,
		CourseID:      model.CourseID,
		Title:         model.Title,
		Description:   model.Description,
		DueDate:       model.DueDate,
		Weight:        model.Weight,
		AllowLate:     model.AllowLate,
		AllowResubmit: model.AllowResubmit,
		Status:        model.Status,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
