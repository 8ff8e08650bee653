package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "homeradar-properties/internal/errors"
	"homeradar-properties/internal/models"
	"homeradar-properties/internal/transformers"
	"homeradar-properties/internal/validators"
	"homeradar-properties/pkg/cache"
)

func newTestPropertyService(repo *fakePropertyRepo, propertyCache *fakeCache, children *fakeChildren, ttl time.Duration) *PropertyService {
	return NewPropertyService(
		repo,
		children,
		propertyCache,
		transformers.NewAddressTransformer(),
		validators.NewPropertyValidator(),
		ttl,
	)
}

func testProperty(id string) *models.Property {
	return &models.Property{
		PropertyID: id,
		Address: models.Address{
			StreetAddress: "123 Main St",
			City:          "Oakland",
			State:         "CA",
			ZipCode:       "94601",
		},
		Latitude:  37.8044,
		Longitude: -122.2712,
		Category:  models.CategoryHouse,
		Status:    models.StatusForSale,
	}
}

func TestGetByIDPopulatesCacheOnMiss(t *testing.T) {
	repo := newFakePropertyRepo()
	propertyCache := newFakeCache()
	svc := newTestPropertyService(repo, propertyCache, newFakeChildren(), time.Minute)

	require.NoError(t, repo.Create(context.Background(), testProperty("p1")))

	got, err := svc.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PropertyID)

	cached, err := propertyCache.GetProperty(context.Background(), cache.PropertyKey("p1"))
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "p1", cached.PropertyID)
}

func TestGetByIDServesFromCache(t *testing.T) {
	repo := newFakePropertyRepo()
	propertyCache := newFakeCache()
	svc := newTestPropertyService(repo, propertyCache, newFakeChildren(), time.Minute)

	require.NoError(t, repo.Create(context.Background(), testProperty("p1")))
	_, err := svc.GetByID(context.Background(), "p1")
	require.NoError(t, err)

	// Remove the durable record; the cached snapshot still answers reads
	// until it expires.
	require.NoError(t, repo.Delete(context.Background(), "p1"))

	got, err := svc.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PropertyID)
}

func TestGetByIDNotFoundIsNotCached(t *testing.T) {
	repo := newFakePropertyRepo()
	propertyCache := newFakeCache()
	svc := newTestPropertyService(repo, propertyCache, newFakeChildren(), time.Minute)

	_, err := svc.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Zero(t, propertyCache.len())
}

func TestGetByIDExpiredEntryFallsBackToStore(t *testing.T) {
	repo := newFakePropertyRepo()
	propertyCache := newFakeCache()
	svc := newTestPropertyService(repo, propertyCache, newFakeChildren(), time.Millisecond)

	require.NoError(t, repo.Create(context.Background(), testProperty("p1")))
	_, err := svc.GetByID(context.Background(), "p1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	got, err := svc.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PropertyID)
}

func TestGetByIDCacheFailureFallsThrough(t *testing.T) {
	repo := newFakePropertyRepo()
	propertyCache := newFakeCache()
	propertyCache.getErr = errStoreDown
	svc := newTestPropertyService(repo, propertyCache, newFakeChildren(), time.Minute)

	require.NoError(t, repo.Create(context.Background(), testProperty("p1")))

	got, err := svc.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PropertyID)
}

func TestCreateWritesStoreThenCache(t *testing.T) {
	repo := newFakePropertyRepo()
	propertyCache := newFakeCache()
	svc := newTestPropertyService(repo, propertyCache, newFakeChildren(), time.Minute)

	property := testProperty("")
	require.NoError(t, svc.Create(context.Background(), property))
	assert.NotEmpty(t, property.PropertyID)

	stored, err := repo.FindByID(context.Background(), property.PropertyID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	cached, err := propertyCache.GetProperty(context.Background(), cache.PropertyKey(property.PropertyID))
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, property.PropertyID, cached.PropertyID)
}

func TestCreateNormalizesAddress(t *testing.T) {
	repo := newFakePropertyRepo()
	svc := newTestPropertyService(repo, newFakeCache(), newFakeChildren(), time.Minute)

	property := testProperty("p1")
	property.Address.City = "  oakland "
	require.NoError(t, svc.Create(context.Background(), property))
	assert.Equal(t, "OAKLAND", property.Address.City)
}

func TestCreateStoreFailureLeavesCacheUntouched(t *testing.T) {
	repo := newFakePropertyRepo()
	repo.createErr = errStoreDown
	propertyCache := newFakeCache()
	svc := newTestPropertyService(repo, propertyCache, newFakeChildren(), time.Minute)

	err := svc.Create(context.Background(), testProperty("p1"))
	require.Error(t, err)
	assert.Zero(t, propertyCache.len())
}

func TestCreateValidationRejectsMissingCity(t *testing.T) {
	svc := newTestPropertyService(newFakePropertyRepo(), newFakeCache(), newFakeChildren(), time.Minute)

	property := testProperty("p1")
	property.Address.City = ""
	err := svc.Create(context.Background(), property)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestUpdateRefreshesCache(t *testing.T) {
	repo := newFakePropertyRepo()
	propertyCache := newFakeCache()
	svc := newTestPropertyService(repo, propertyCache, newFakeChildren(), time.Minute)

	property := testProperty("p1")
	require.NoError(t, svc.Create(context.Background(), property))

	property.Description = "renovated"
	require.NoError(t, svc.Update(context.Background(), property))

	got, err := svc.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "renovated", got.Description)
}

func TestDeleteRemovesCacheEntryAndChildren(t *testing.T) {
	repo := newFakePropertyRepo()
	propertyCache := newFakeCache()
	children := newFakeChildren()
	svc := newTestPropertyService(repo, propertyCache, children, time.Minute)

	property := testProperty("p1")
	require.NoError(t, svc.Create(context.Background(), property))
	_, err := svc.GetByID(context.Background(), "p1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "p1"))

	assert.Zero(t, propertyCache.len())
	assert.Contains(t, children.deleted, "p1")

	_, err = svc.GetByID(context.Background(), "p1")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetByExternalIDBypassesCache(t *testing.T) {
	repo := newFakePropertyRepo()
	propertyCache := newFakeCache()
	svc := newTestPropertyService(repo, propertyCache, newFakeChildren(), time.Minute)

	property := testProperty("p1")
	property.ExternalID = "z100"
	require.NoError(t, repo.Create(context.Background(), property))

	// Poison the cache under the primary key; the external lookup must not
	// consult it.
	stale := testProperty("p1")
	stale.Description = "stale"
	require.NoError(t, propertyCache.SetProperty(context.Background(), cache.PropertyKey("p1"), stale, time.Minute))

	got, err := svc.GetByExternalID(context.Background(), "z100")
	require.NoError(t, err)
	assert.Empty(t, got.Description)

	_, err = svc.GetByExternalID(context.Background(), "unknown")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListClampsLimitAndBuildsMeta(t *testing.T) {
	repo := newFakePropertyRepo()
	svc := newTestPropertyService(repo, newFakeCache(), newFakeChildren(), time.Minute)

	for i := 0; i < 15; i++ {
		p := testProperty("")
		p.PropertyID = ""
		require.NoError(t, svc.Create(context.Background(), p))
	}

	resp, err := svc.List(context.Background(), models.ListFilter{}, 0, 0, "/api/properties", nil)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 10)
	assert.EqualValues(t, 15, resp.Meta.Total)
	require.NotNil(t, resp.Meta.Next)
	assert.Nil(t, resp.Meta.Prev)

	resp, err = svc.List(context.Background(), models.ListFilter{}, 10, 10, "/api/properties", nil)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 5)
	assert.Nil(t, resp.Meta.Next)
	require.NotNil(t, resp.Meta.Prev)
}
