package dto

import (
	"time"

	"github.com/lumosedu/lumos-api/internal/models"
)

// ReportCreateRequest describes the payload for lodging a report.
type ReportCreateRequest struct {
	TargetType string `json:"target_type" validate:"required,oneof=course assignment submission user"`
	TargetID   uint   `json:"target_id" validate:"required,gt=0"`
	Reason     string `json:"reason" validate:"required,min=1,max=200"`
	Content    string `json:"content" validate:"required,min=1,max=2000"`
}

// ReportListQuery describes operator-side listing filters.
type ReportListQuery struct {
	Status     string `query:"status" validate:"omitempty,oneof=received investigating resolved"`
	TargetType string `query:"targetType" validate:"omitempty,oneof=course assignment submission user"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Normalize applies the listing defaults.
func (q *ReportListQuery) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
}

// ReportStatusRequest carries a requested status transition. Received is not
// listed: no edge leads back to the initial state.
type ReportStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=investigating resolved"`
	Memo   *string `json:"memo" validate:"omitempty,max=1000"`
}

// ReportActionRequest describes an operator action to execute.
type ReportActionRequest struct {
	ActionType string  `json:"action_type" validate:"required,oneof=warning invalidate_submission restrict_account dismiss"`
	TargetID   *uint   `json:"target_id" validate:"omitempty,gt=0"`
	Memo       *string `json:"memo" validate:"omitempty,max=1000"`
}

// ReportActionResponse serializes one audit trail entry.
type ReportActionResponse struct {
	ID         uint      `json:"id"`
	ActionType string    `json:"action_type"`
	OperatorID uint      `json:"operator_id"`
	TargetID   *uint     `json:"target_id"`
	Memo       *string   `json:"memo"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReportResponse is the serialized representation returned to API clients.
type ReportResponse struct {
	ID         uint                   `json:"id"`
	ReporterID uint                   `json:"reporter_id"`
	TargetType string                 `json:"target_type"`
	TargetID   uint                   `json:"target_id"`
	Reason     string                 `json:"reason"`
	Content    string                 `json:"content"`
	Status     string                 `json:"status"`
	Actions    []ReportActionResponse `json:"actions"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// ReportListResponse wraps a paginated report listing.
type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

// NewReportResponse converts a model into a DTO.
func NewReportResponse(model models.Report) ReportResponse {
	actions := make([]ReportActionResponse, 0, len(model.Actions))
	for _, action := range model.Actions {
		actions = append(actions, ReportActionResponse{
			ID:         action.ID,
			ActionType: action.ActionType,
			OperatorID: action.OperatorID,
			TargetID:   action.TargetID,
			Memo:       action.Memo,
			CreatedAt:  action.CreatedAt,
		})
	}

	return ReportResponse{
		ID:         model.ID,
		ReporterID: model.ReporterID,
		TargetType: model.TargetType,
		TargetID:   model.TargetID,
		Reason:     model.Reason,
		Content:    model.Content,
		Status:     model.Status,
		Actions:    actions,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewReportResponseSlice converts report models into DTOs.
func NewReportResponseSlice(reports []models.Report) []ReportResponse {
	responses := make([]ReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, NewReportResponse(report))
	}

	return responses
}
