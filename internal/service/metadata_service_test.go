package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/models"
)

type fakeMetadataRepo struct {
	items  map[uint]models.MetadataItem
	nextID uint
}

func (f *fakeMetadataRepo) ListByKind(ctx context.Context, kind string) ([]models.MetadataItem, error) {
	var matched []models.MetadataItem
	for _, item := range f.items {
		if item.Kind == kind {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (f *fakeMetadataRepo) GetByID(ctx context.Context, kind string, id uint) (models.MetadataItem, error) {
	if item, ok := f.items[id]; ok && item.Kind == kind {
		return item, nil
	}
	return models.MetadataItem{}, gorm.ErrRecordNotFound
}

func (f *fakeMetadataRepo) GetByName(ctx context.Context, kind, name string) (models.MetadataItem, error) {
	for _, item := range f.items {
		if item.Kind == kind && item.Name == name {
			return item, nil
		}
	}
	return models.MetadataItem{}, gorm.ErrRecordNotFound
}

func (f *fakeMetadataRepo) Create(ctx context.Context, item *models.MetadataItem) error {
	if f.items == nil {
		f.items = map[uint]models.MetadataItem{}
	}
	f.nextID++
	item.ID = f.nextID
	f.items[item.ID] = *item
	return nil
}

func (f *fakeMetadataRepo) Update(ctx context.Context, item *models.MetadataItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[item.ID] = *item
	return nil
}

func (f *fakeMetadataRepo) Delete(ctx context.Context, kind string, id uint) error {
	if item, ok := f.items[id]; ok && item.Kind == kind {
		delete(f.items, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func newMetadataFixture(usage map[string]int64) (*fakeMetadataRepo, MetadataService) {
	metadataRepo := &fakeMetadataRepo{}
	courseRepo := &fakeCourseRepo{counts: usage}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewMetadataService(metadataRepo, courseRepo, validate, testLogger())
	return metadataRepo, svc
}

func TestMetadataServiceCreateAndList(t *testing.T) {
	_, svc := newMetadataFixture(nil)

	item, err := svc.Create(context.Background(), models.MetadataKindCategory, dto.MetadataCreateRequest{Name: "Math"})
	require.NoError(t, err)
	require.True(t, item.Active)
	require.Equal(t, int64(0), item.UsageCount)

	listing, err := svc.List(context.Background(), models.MetadataKindCategory)
	require.NoError(t, err)
	require.Len(t, listing.Items, 1)
}

func TestMetadataServiceDuplicateNameWithinKind(t *testing.T) {
	_, svc := newMetadataFixture(nil)

	_, err := svc.Create(context.Background(), models.MetadataKindCategory, dto.MetadataCreateRequest{Name: "Math"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), models.MetadataKindCategory, dto.MetadataCreateRequest{Name: "Math"})
	require.ErrorIs(t, err, ErrMetadataDuplicateName)

	// The same name under a different kind is a separate item.
	_, err = svc.Create(context.Background(), models.MetadataKindDifficulty, dto.MetadataCreateRequest{Name: "Math"})
	require.NoError(t, err)
}

func TestMetadataServiceUnknownKind(t *testing.T) {
	_, svc := newMetadataFixture(nil)

	_, err := svc.List(context.Background(), "flavours")
	require.ErrorIs(t, err, ErrMetadataInvalidKind)

	_, err = svc.Create(context.Background(), "flavours", dto.MetadataCreateRequest{Name: "Sweet"})
	require.ErrorIs(t, err, ErrMetadataInvalidKind)
}

func TestMetadataServiceUsageCount(t *testing.T) {
	_, svc := newMetadataFixture(map[string]int64{"category:Math": 3})

	_, err := svc.Create(context.Background(), models.MetadataKindCategory, dto.MetadataCreateRequest{Name: "Math"})
	require.NoError(t, err)

	listing, err := svc.List(context.Background(), models.MetadataKindCategory)
	require.NoError(t, err)
	require.Equal(t, int64(3), listing.Items[0].UsageCount)
}

func TestMetadataServiceDeleteBlockedWhileInUse(t *testing.T) {
	repo, svc := newMetadataFixture(map[string]int64{"difficulty:Hard": 2})

	item, err := svc.Create(context.Background(), models.MetadataKindDifficulty, dto.MetadataCreateRequest{Name: "Hard"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), models.MetadataKindDifficulty, item.ID)
	require.ErrorIs(t, err, ErrMetadataInUse)
	require.Contains(t, err.Error(), "2 course(s)")
	require.Len(t, repo.items, 1)

	// Deactivation stays available as the soft alternative.
	active := false
	updated, err := svc.Update(context.Background(), models.MetadataKindDifficulty, item.ID, dto.MetadataUpdateRequest{Active: &active})
	require.NoError(t, err)
	require.False(t, updated.Active)
}

func TestMetadataServiceDeleteUnused(t *testing.T) {
	repo, svc := newMetadataFixture(nil)

	item, err := svc.Create(context.Background(), models.MetadataKindCategory, dto.MetadataCreateRequest{Name: "Chess"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), models.MetadataKindCategory, item.ID))
	require.Empty(t, repo.items)

	err = svc.Delete(context.Background(), models.MetadataKindCategory, item.ID)
	require.ErrorIs(t, err, ErrMetadataNotFound)
}

func TestMetadataServiceRenameCollision(t *testing.T) {
	_, svc := newMetadataFixture(nil)

	_, err := svc.Create(context.Background(), models.MetadataKindCategory, dto.MetadataCreateRequest{Name: "Math"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), models.MetadataKindCategory, dto.MetadataCreateRequest{Name: "Art"})
	require.NoError(t, err)

	name := "Math"
	_, err = svc.Update(context.Background(), models.MetadataKindCategory, second.ID, dto.MetadataUpdateRequest{Name: &name})
	require.ErrorIs(t, err, ErrMetadataDuplicateName)
}
