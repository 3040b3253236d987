package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/models"
)

// ProfileRepository defines persistence operations for user profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uint) (models.Profile, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository instantiates the repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return models.Profile{}, err
	}

	return profile, nil
}

func (r *profileRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}
