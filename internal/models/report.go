package models

import "time"

// Report statuses. Transitions are forward-only; resolved is terminal.
const (
	ReportStatusReceived      = "received"
	ReportStatusInvestigating = "investigating"
	ReportStatusResolved      = "resolved"
)

// Report target types.
const (
	ReportTargetCourse     = "course"
	ReportTargetAssignment = "assignment"
	ReportTargetSubmission = "submission"
	ReportTargetUser       = "user"
)

// Report action types.
const (
	ReportActionWarning              = "warning"
	ReportActionInvalidateSubmission = "invalidate_submission"
	ReportActionRestrictAccount      = "restrict_account"
	ReportActionDismiss              = "dismiss"
)

// Report is a complaint lodged against a platform entity, tracked through an
// investigation lifecycle until resolution.
type Report struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	ReporterID uint           `gorm:"not null;index" json:"reporter_id"`
	TargetType string         `gorm:"size:32;not null;index" json:"target_type"`
	TargetID   uint           `gorm:"not null" json:"target_id"`
	Reason     string         `gorm:"size:200;not null" json:"reason"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	Status     string         `gorm:"size:32;not null;default:received;index" json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Actions    []ReportAction `json:"actions"`
}

// IsResolved reports whether the report has reached its terminal state.
func (r Report) IsResolved() bool {
	return r.Status == ReportStatusResolved
}

// ReportAction is one operator-executed remedial step. Rows are append-only
// and never updated, forming the moderation audit trail.
type ReportAction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReportID   uint      `gorm:"not null;index" json:"report_id"`
	OperatorID uint      `gorm:"not null" json:"operator_id"`
	ActionType string    `gorm:"size:32;not null" json:"action_type"`
	TargetID   *uint     `json:"target_id"`
	Memo       *string   `gorm:"size:1000" json:"memo"`
	CreatedAt  time.Time `json:"created_at"`
}
