// Package workflow holds the status transition tables shared by the
// assignment registry and the report moderation state machine. Both are
// forward-only; services consult the table before persisting any change.
package workflow

import "github.com/lumosedu/lumos-api/internal/models"

// Transitions maps a current status to the set of statuses reachable from it.
type Transitions map[string][]string

// Allowed reports whether moving from current to next is a legal edge.
func (t Transitions) Allowed(current, next string) bool {
	for _, candidate := range t[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from current. The returned slice is
// shared; callers must not mutate it.
func (t Transitions) Next(current string) []string {
	return t[current]
}

// AssignmentTransitions: draft -> published -> closed, no reverse edges and
// no draft -> closed shortcut.
var AssignmentTransitions = Transitions{
	models.AssignmentStatusDraft:     {models.AssignmentStatusPublished},
	models.AssignmentStatusPublished: {models.AssignmentStatusClosed},
	models.AssignmentStatusClosed:    {},
}

// ReportTransitions: received may skip straight to resolved; resolved is
// terminal.
var ReportTransitions = Transitions{
	models.ReportStatusReceived:      {models.ReportStatusInvestigating, models.ReportStatusResolved},
	models.ReportStatusInvestigating: {models.ReportStatusResolved},
	models.ReportStatusResolved:      {},
}
