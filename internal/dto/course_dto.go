package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lumosedu/lumos-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title       string                 `json:"title" validate:"required,min=1,max=255"`
	Description string                 `json:"description" validate:"required,min=1"`
	Category    string                 `json:"category" validate:"required,min=1,max=128"`
	Difficulty  string                 `json:"difficulty" validate:"required,min=1,max=128"`
	Curriculum  map[string]interface{} `json:"curriculum"`
	Status      string                 `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// CourseUpdateRequest describes a partial course update.
type CourseUpdateRequest struct {
	Title       *string                `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string                `json:"description" validate:"omitempty,min=1"`
	Category    *string                `json:"category" validate:"omitempty,min=1,max=128"`
	Difficulty  *string                `json:"difficulty" validate:"omitempty,min=1,max=128"`
	Curriculum  map[string]interface{} `json:"curriculum"`
	Status      *string                `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// CourseListQuery describes catalog listing filters.
type CourseListQuery struct {
	Category   string `query:"category"`
	Difficulty string `query:"difficulty"`
	Status     string `query:"status" validate:"omitempty,oneof=draft published archived"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize applies the catalog defaults: published courses, first page.
func (q *CourseListQuery) Normalize() {
	if q.Status == "" {
		q.Status = models.CourseStatusPublished
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
}

// CourseResponse is the serialized representation returned to API clients.
type CourseResponse struct {
	ID           uint                   `json:"id"`
	InstructorID uint                   `json:"instructor_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	Difficulty   string                 `json:"difficulty"`
	Curriculum   map[string]interface{} `json:"curriculum"`
	Status       string                 `json:"status"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// CourseListResponse wraps a paginated catalog listing.
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:           model.ID,
		InstructorID: model.InstructorID,
		Title:        model.Title,
		Description:  model.Description,
		Category:     model.Category,
		Difficulty:   model.Difficulty,
		Curriculum:   map[string]interface{}(model.Curriculum),
		Status:       model.Status,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}

// CurriculumFromMap converts a request curriculum into the storage type.
func CurriculumFromMap(curriculum map[string]interface{}) datatypes.JSONMap {
	if curriculum == nil {
		return nil
	}
	return datatypes.JSONMap(curriculum)
}
