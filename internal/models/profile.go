package models

import "time"

// Role is the closed set of user roles recognised by the API.
type Role string

const (
	// RoleLearner can enroll in courses and submit assignments.
	RoleLearner Role = "learner"
	// RoleInstructor owns courses and grades submissions.
	RoleInstructor Role = "instructor"
	// RoleOperator moderates reports and manages reference metadata.
	RoleOperator Role = "operator"
)

// Valid reports whether the role belongs to the recognised set.
func (r Role) Valid() bool {
	switch r {
	case RoleLearner, RoleInstructor, RoleOperator:
		return true
	default:
		return false
	}
}

// Profile represents a registered user of the platform.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      Role      `gorm:"size:32;not null;default:learner" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
