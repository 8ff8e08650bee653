package ingestion

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "homeradar-properties/internal/errors"
	"homeradar-properties/internal/models"
	"homeradar-properties/internal/services"
	"homeradar-properties/internal/transformers"
	"homeradar-properties/internal/validators"
	"homeradar-properties/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger(io.Discard, "ERROR")
	m.Run()
}

var errStoreDown = fmt.Errorf("store unavailable")

// memoryRepo is an in-memory PropertyRepository with a unique external id
// constraint, mirroring the sparse index on the real collection.
type memoryRepo struct {
	mu         sync.Mutex
	byID       map[string]models.Property
	createErr  error
	hideLookup bool // pretend the duplicate check sees nothing, forcing the index to arbitrate
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[string]models.Property)}
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *memoryRepo) FindByExternalID(ctx context.Context, externalID string) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideLookup {
		return nil, nil
	}
	for _, p := range r.byID {
		if p.ExternalID == externalID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) FindWithFilter(ctx context.Context, filter models.ListFilter, offset, limit int) ([]models.Property, int64, error) {
	return nil, 0, nil
}

func (r *memoryRepo) FindInBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]models.Property, error) {
	return nil, nil
}

func (r *memoryRepo) FindAll(ctx context.Context) ([]models.Property, error) {
	return nil, nil
}

func (r *memoryRepo) Create(ctx context.Context, property *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if property.ExternalID != "" {
		for _, p := range r.byID {
			if p.ExternalID == property.ExternalID {
				return apperrors.NewDuplicateExternalID(property.ExternalID)
			}
		}
	}
	r.byID[property.PropertyID] = *property
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, property *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[property.PropertyID] = *property
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type noopCache struct{}

func (noopCache) GetProperty(ctx context.Context, key string) (*models.Property, error) {
	return nil, nil
}

func (noopCache) SetProperty(ctx context.Context, key string, property *models.Property, expiration time.Duration) error {
	return nil
}

func (noopCache) Delete(ctx context.Context, key string) error { return nil }

type noopChildren struct{}

func (noopChildren) FindSales(ctx context.Context, propertyID string) ([]models.Sale, error) {
	return nil, nil
}

func (noopChildren) FindMaintenance(ctx context.Context, propertyID string) ([]models.MaintenanceRecord, error) {
	return nil, nil
}

func (noopChildren) FindDisasters(ctx context.Context, propertyID string) ([]models.DisasterRecord, error) {
	return nil, nil
}

func (noopChildren) DeleteByProperty(ctx context.Context, propertyID string) error { return nil }

func newTestPipeline(repo *memoryRepo) *Pipeline {
	addrTrans := transformers.NewAddressTransformer()
	store := services.NewPropertyService(repo, noopChildren{}, noopCache{}, addrTrans, validators.NewPropertyValidator(), time.Minute)
	return NewPipeline(repo, store, transformers.NewListingTransformer(addrTrans))
}

func listing(externalID string) models.ExternalListing {
	return models.ExternalListing{
		ExternalID:    externalID,
		StreetAddress: "500 Grand Ave",
		City:          "Oakland",
		State:         "CA",
		ZipCode:       "94610",
		Latitude:      37.81,
		Longitude:     -122.25,
		RawCategory:   "single family",
		RawStatus:     "for sale",
		Bedrooms:      3,
		Bathrooms:     2.5,
	}
}

func TestIngestAcceptsNewListings(t *testing.T) {
	repo := newMemoryRepo()
	pipeline := newTestPipeline(repo)

	summary, err := pipeline.Ingest(context.Background(), []models.ExternalListing{listing("z1"), listing("z2")})
	require.NoError(t, err)

	assert.Equal(t, models.IngestionSummary{Accepted: 2}, summary)
	assert.Equal(t, 2, repo.count())

	stored, err := repo.FindByExternalID(context.Background(), "z1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.CategoryHouse, stored.Category)
	assert.Equal(t, models.StatusForSale, stored.Status)
	assert.Equal(t, 2, stored.Bathrooms)
	assert.NotEmpty(t, stored.PropertyID)
}

func TestIngestIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	pipeline := newTestPipeline(repo)

	batch := []models.ExternalListing{listing("z1")}
	_, err := pipeline.Ingest(context.Background(), batch)
	require.NoError(t, err)

	summary, err := pipeline.Ingest(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, models.IngestionSummary{SkippedDuplicate: 1}, summary)
	assert.Equal(t, 1, repo.count())
}

func TestIngestDuplicateWithinBatch(t *testing.T) {
	repo := newMemoryRepo()
	pipeline := newTestPipeline(repo)

	summary, err := pipeline.Ingest(context.Background(), []models.ExternalListing{listing("z1"), listing("z1")})
	require.NoError(t, err)

	assert.Equal(t, models.IngestionSummary{Accepted: 1, SkippedDuplicate: 1}, summary)
	assert.Equal(t, 1, repo.count())
}

func TestIngestUniqueIndexArbitratesRace(t *testing.T) {
	repo := newMemoryRepo()
	pipeline := newTestPipeline(repo)

	_, err := pipeline.Ingest(context.Background(), []models.ExternalListing{listing("z1")})
	require.NoError(t, err)

	// The duplicate pre-check misses, as it would when a concurrent writer
	// commits between check and insert. The write-time constraint catches it.
	repo.hideLookup = true
	summary, err := pipeline.Ingest(context.Background(), []models.ExternalListing{listing("z1")})
	require.NoError(t, err)

	assert.Equal(t, models.IngestionSummary{SkippedDuplicate: 1}, summary)
	assert.Equal(t, 1, repo.count())
}

func TestIngestIsolatesBadRecords(t *testing.T) {
	repo := newMemoryRepo()
	pipeline := newTestPipeline(repo)

	bad := listing("z2")
	bad.City = ""
	bad.StreetAddress = ""
	noID := listing("")

	summary, err := pipeline.Ingest(context.Background(), []models.ExternalListing{listing("z1"), bad, noID, listing("z3")})
	require.NoError(t, err)

	assert.Equal(t, models.IngestionSummary{Accepted: 2, SkippedError: 2}, summary)
	assert.Equal(t, 2, repo.count())
}

func TestIngestCountsStoreFailures(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = errStoreDown
	pipeline := newTestPipeline(repo)

	summary, err := pipeline.Ingest(context.Background(), []models.ExternalListing{listing("z1")})
	require.NoError(t, err)

	assert.Equal(t, models.IngestionSummary{SkippedError: 1}, summary)
}

func TestIngestReturnsPartialSummaryOnCancel(t *testing.T) {
	repo := newMemoryRepo()
	pipeline := newTestPipeline(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := pipeline.Ingest(ctx, []models.ExternalListing{listing("z1"), listing("z2")})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.IngestionSummary{}, summary)
	assert.Zero(t, repo.count())
}
