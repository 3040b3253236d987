package dto

import (
	"time"

	"github.com/lumosedu/lumos-api/internal/models"
)

// MetadataCreateRequest describes the payload for creating a metadata item.
type MetadataCreateRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=128"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// MetadataUpdateRequest describes a partial metadata update.
type MetadataUpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=128"`
	Active    *bool   `json:"active"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

// MetadataItemResponse carries one item plus its query-time usage count.
type MetadataItemResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Active     bool      `json:"active"`
	SortOrder  *int      `json:"sort_order"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MetadataListResponse wraps a kind's item listing.
type MetadataListResponse struct {
	Items []MetadataItemResponse `json:"items"`
}

// NewMetadataItemResponse converts a model into a DTO with its usage count.
func NewMetadataItemResponse(model models.MetadataItem, usageCount int64) MetadataItemResponse {
	return MetadataItemResponse{
		ID:         model.ID,
		Name:       model.Name,
		Active:     model.Active,
		SortOrder:  model.SortOrder,
		UsageCount: usageCount,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
