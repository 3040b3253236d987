package models

import "time"

// Metadata kinds. Courses reference items of either kind by name.
const (
	MetadataKindCategory   = "categories"
	MetadataKindDifficulty = "difficulties"
)

// MetadataItem is a reusable reference value (category or difficulty level).
// Names are unique within a kind. Usage counts are computed at query time and
// never stored.
type MetadataItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:32;not null;uniqueIndex:idx_metadata_kind_name" json:"kind"`
	Name      string    `gorm:"size:128;not null;uniqueIndex:idx_metadata_kind_name" json:"name"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	SortOrder *int      `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
