package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/repository"
)

// ErrMetadataNotFound indicates the metadata item does not exist.
var ErrMetadataNotFound = errors.New("metadata not found")

// ErrMetadataDuplicateName indicates a name collision within a kind.
var ErrMetadataDuplicateName = errors.New("metadata name already exists")

// ErrMetadataInUse indicates the item is still referenced by courses.
var ErrMetadataInUse = errors.New("metadata is in use; deactivate instead of deleting")

// ErrMetadataInvalidKind indicates an unknown metadata kind in the URL.
var ErrMetadataInvalidKind = errors.New("invalid metadata type")

// MetadataService manages reference data (categories, difficulty levels).
type MetadataService interface {
	List(ctx context.Context, kind string) (dto.MetadataListResponse, error)
	Create(ctx context.Context, kind string, payload dto.MetadataCreateRequest) (dto.MetadataItemResponse, error)
	Update(ctx context.Context, kind string, id uint, payload dto.MetadataUpdateRequest) (dto.MetadataItemResponse, error)
	Delete(ctx context.Context, kind string, id uint) error
}

type metadataService struct {
	metadata  repository.MetadataRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewMetadataService constructs the metadata service.
func NewMetadataService(metadataRepo repository.MetadataRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) MetadataService {
	return &metadataService{
		metadata:  metadataRepo,
		courses:   courseRepo,
		validator: validate,
		logger:    logger.With().Str("component", "metadata_service").Logger(),
		now:       time.Now,
	}
}

func (s *metadataService) List(ctx context.Context, kind string) (dto.MetadataListResponse, error) {
	if err := validateKind(kind); err != nil {
		return dto.MetadataListResponse{}, err
	}

	items, err := s.metadata.ListByKind(ctx, kind)
	if err != nil {
		return dto.MetadataListResponse{}, err
	}

	responses := make([]dto.MetadataItemResponse, 0, len(items))
	for _, item := range items {
		usage, err := s.usageCount(ctx, kind, item.Name)
		if err != nil {
			return dto.MetadataListResponse{}, err
		}
		responses = append(responses, dto.NewMetadataItemResponse(item, usage))
	}

	return dto.MetadataListResponse{Items: responses}, nil
}

func (s *metadataService) Create(ctx context.Context, kind string, payload dto.MetadataCreateRequest) (dto.MetadataItemResponse, error) {
	if err := validateKind(kind); err != nil {
		return dto.MetadataItemResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.MetadataItemResponse{}, err
	}

	if _, err := s.metadata.GetByName(ctx, kind, payload.Name); err == nil {
		return dto.MetadataItemResponse{}, ErrMetadataDuplicateName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.MetadataItemResponse{}, err
	}

	item := models.MetadataItem{
		Kind:      kind,
		Name:      payload.Name,
		Active:    true,
		SortOrder: payload.SortOrder,
	}

	if err := s.metadata.Create(ctx, &item); err != nil {
		return dto.MetadataItemResponse{}, err
	}

	s.logger.Info().Str("kind", kind).Str("name", item.Name).Msg("metadata item created")

	return dto.NewMetadataItemResponse(item, 0), nil
}

func (s *metadataService) Update(ctx context.Context, kind string, id uint, payload dto.MetadataUpdateRequest) (dto.MetadataItemResponse, error) {
	if err := validateKind(kind); err != nil {
		return dto.MetadataItemResponse{}, err
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.MetadataItemResponse{}, err
	}

	item, err := s.metadata.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MetadataItemResponse{}, ErrMetadataNotFound
		}
		return dto.MetadataItemResponse{}, err
	}

	if payload.Name != nil && *payload.Name != item.Name {
		if _, err := s.metadata.GetByName(ctx, kind, *payload.Name); err == nil {
			return dto.MetadataItemResponse{}, ErrMetadataDuplicateName
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MetadataItemResponse{}, err
		}
		item.Name = *payload.Name
	}
	if payload.Active != nil {
		item.Active = *payload.Active
	}
	if payload.SortOrder != nil {
		item.SortOrder = payload.SortOrder
	}

	if err := s.metadata.Update(ctx, &item); err != nil {
		return dto.MetadataItemResponse{}, err
	}

	usage, err := s.usageCount(ctx, kind, item.Name)
	if err != nil {
		return dto.MetadataItemResponse{}, err
	}

	s.logger.Info().Str("kind", kind).Uint("id", item.ID).Msg("metadata item updated")

	return dto.NewMetadataItemResponse(item, usage), nil
}

// Delete removes an item only when no course references its name; referenced
// items must be deactivated instead so existing courses keep a valid value.
func (s *metadataService) Delete(ctx context.Context, kind string, id uint) error {
	if err := validateKind(kind); err != nil {
		return err
	}

	item, err := s.metadata.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMetadataNotFound
		}
		return err
	}

	usage, err := s.usageCount(ctx, kind, item.Name)
	if err != nil {
		return err
	}
	if usage > 0 {
		return fmt.Errorf("%w: referenced by %d course(s)", ErrMetadataInUse, usage)
	}

	if err := s.metadata.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMetadataNotFound
		}
		return err
	}

	s.logger.Info().Str("kind", kind).Uint("id", id).Msg("metadata item deleted")

	return nil
}

func (s *metadataService) usageCount(ctx context.Context, kind, name string) (int64, error) {
	column := "category"
	if kind == models.MetadataKindDifficulty {
		column = "difficulty"
	}

	return s.courses.CountByMetadata(ctx, column, name)
}

func validateKind(kind string) error {
	switch kind {
	case models.MetadataKindCategory, models.MetadataKindDifficulty:
		return nil
	default:
		return ErrMetadataInvalidKind
	}
}
