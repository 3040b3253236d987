package models

import (
	"time"

	"gorm.io/datatypes"
)

// Course statuses.
const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

// Course is an instructor-owned unit of the catalog. Category and difficulty
// reference metadata items by name, never by id.
type Course struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	InstructorID uint              `gorm:"not null;index" json:"instructor_id"`
	Title        string            `gorm:"size:255;not null" json:"title"`
	Description  string            `gorm:"type:text" json:"description"`
	Category     string            `gorm:"size:128;index" json:"category"`
	Difficulty   string            `gorm:"size:128;index" json:"difficulty"`
	Curriculum   datatypes.JSONMap `gorm:"type:json" json:"curriculum"`
	Status       string            `gorm:"size:32;not null;default:draft" json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
