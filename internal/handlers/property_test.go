package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "homeradar-properties/internal/errors"
	"homeradar-properties/internal/ingestion"
	"homeradar-properties/internal/models"
	"homeradar-properties/internal/services"
	"homeradar-properties/internal/transformers"
	"homeradar-properties/internal/validators"
	"homeradar-properties/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger(io.Discard, "ERROR")
	gin.SetMode(gin.TestMode)
	m.Run()
}

// stubRepo is an in-memory PropertyRepository recording the filters it is
// queried with.
type stubRepo struct {
	mu         sync.Mutex
	byID       map[string]models.Property
	lastFilter models.ListFilter
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: make(map[string]models.Property)}
}

func (r *stubRepo) FindByID(ctx context.Context, id string) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *stubRepo) FindByExternalID(ctx context.Context, externalID string) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.ExternalID == externalID {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) FindWithFilter(ctx context.Context, filter models.ListFilter, offset, limit int) ([]models.Property, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter
	var out []models.Property
	for _, p := range r.byID {
		if filter.City != "" && p.Address.City != filter.City {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *stubRepo) FindInBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Property
	for _, p := range r.byID {
		if p.Latitude >= minLat && p.Latitude <= maxLat && p.Longitude >= minLon && p.Longitude <= maxLon {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubRepo) FindAll(ctx context.Context) ([]models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Property, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubRepo) Create(ctx context.Context, property *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *stubRepo) Update(ctx context.Context, property *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[property.PropertyID]; !ok {
		return apperrors.NewNotFound("property")
	}
	r.byID[property.PropertyID] = *property
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return apperrors.NewNotFound("property")
	}
	delete(r.byID, id)
	return nil
}

type stubCache struct{}

func (stubCache) GetProperty(ctx context.Context, key string) (*models.Property, error) {
	return nil, nil
}

func (stubCache) SetProperty(ctx context.Context, key string, property *models.Property, expiration time.Duration) error {
	return nil
}

func (stubCache) Delete(ctx context.Context, key string) error { return nil }

type stubChildren struct{}

func (stubChildren) FindSales(ctx context.Context, propertyID string) ([]models.Sale, error) {
	return nil, nil
}

func (stubChildren) FindMaintenance(ctx context.Context, propertyID string) ([]models.MaintenanceRecord, error) {
	return nil, nil
}

func (stubChildren) FindDisasters(ctx context.Context, propertyID string) ([]models.DisasterRecord, error) {
	return nil, nil
}

func (stubChildren) DeleteByProperty(ctx context.Context, propertyID string) error { return nil }

func newTestRouter(repo *stubRepo) *gin.Engine {
	addrTrans := transformers.NewAddressTransformer()
	propertyValidator := validators.NewPropertyValidator()
	propertyService := services.NewPropertyService(repo, stubChildren{}, stubCache{}, addrTrans, propertyValidator, time.Minute)
	searchService := services.NewGeoSearchService(repo, propertyValidator)
	pipeline := ingestion.NewPipeline(repo, propertyService, transformers.NewListingTransformer(addrTrans))

	propertyHandler := NewPropertyHandler(propertyService, searchService)
	ingestionHandler := NewIngestionHandler(pipeline)

	r := gin.New()
	api := r.Group("/api")
	props := api.Group("/properties")
	props.GET("", propertyHandler.GetProperties)
	props.GET("/search", propertyHandler.SearchByRadius)
	props.GET("/external/:externalId", propertyHandler.GetPropertyByExternalID)
	props.GET("/:id", propertyHandler.GetPropertyByID)
	props.POST("", propertyHandler.CreateProperty)
	props.PUT("/:id", propertyHandler.UpdateProperty)
	props.DELETE("/:id", propertyHandler.DeleteProperty)
	api.POST("/ingestion/listings", ingestionHandler.IngestListings)
	return r
}

func seedProperty(t *testing.T, repo *stubRepo, id string, category models.Category, status models.Status) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &models.Property{
		PropertyID: id,
		Address: models.Address{
			StreetAddress: "123 MAIN ST",
			City:          "OAKLAND",
			State:         "CA",
			ZipCode:       "94601",
		},
		Latitude:  37.8044,
		Longitude: -122.2712,
		Category:  category,
		Status:    status,
	}))
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetPropertiesAppliesQueryFilters(t *testing.T) {
	repo := newStubRepo()
	seedProperty(t, repo, "p1", models.CategoryHouse, models.StatusForSale)
	seedProperty(t, repo, "p2", models.CategoryCondo, models.StatusSold)

	r := newTestRouter(repo)
	w := doRequest(r, http.MethodGet, "/api/properties?status=FOR_SALE&category=HOUSE", "")
	require.Equal(t, http.StatusOK, w.Code)

	// The raw query strings must arrive typed at the repository.
	assert.Equal(t, models.StatusForSale, repo.lastFilter.Status)
	assert.Equal(t, models.CategoryHouse, repo.lastFilter.Category)

	var resp models.PaginatedPropertiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "p1", resp.Data[0].PropertyID)
	assert.EqualValues(t, 1, resp.Meta.Total)
}

func TestGetPropertyByIDRoundTrip(t *testing.T) {
	repo := newStubRepo()
	seedProperty(t, repo, "p1", models.CategoryHouse, models.StatusForSale)

	r := newTestRouter(repo)
	w := doRequest(r, http.MethodGet, "/api/properties/p1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "p1", got.PropertyID)

	w = doRequest(r, http.MethodGet, "/api/properties/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPropertyByExternalID(t *testing.T) {
	repo := newStubRepo()
	p := models.Property{
		PropertyID: "p1",
		ExternalID: "z100",
		Address:    models.Address{StreetAddress: "123 MAIN ST", City: "OAKLAND"},
	}
	require.NoError(t, repo.Create(context.Background(), &p))

	r := newTestRouter(repo)
	w := doRequest(r, http.MethodGet, "/api/properties/external/z100", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "p1", got.PropertyID)
}

func TestCreatePropertyEndpoint(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo)

	body := `{"address":{"streetAddress":"500 Grand Ave","city":"Oakland","state":"CA","zipCode":"94610"},"latitude":37.81,"longitude":-122.25,"category":"HOUSE","status":"FOR_SALE"}`
	w := doRequest(r, http.MethodPost, "/api/properties", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.PropertyID)
	assert.Equal(t, "OAKLAND", created.Address.City)

	// Validation failures surface as 400 with an error code.
	w = doRequest(r, http.MethodPost, "/api/properties", `{"address":{"streetAddress":"1 A St"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletePropertyEndpoint(t *testing.T) {
	repo := newStubRepo()
	seedProperty(t, repo, "p1", models.CategoryHouse, models.StatusForSale)

	r := newTestRouter(repo)
	w := doRequest(r, http.MethodDelete, "/api/properties/p1", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/properties/p1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchByRadiusEndpoint(t *testing.T) {
	repo := newStubRepo()
	seedProperty(t, repo, "oakland", models.CategoryHouse, models.StatusForSale)

	r := newTestRouter(repo)
	w := doRequest(r, http.MethodGet, "/api/properties/search?lat=37.7749&lon=-122.4194&radius_km=50", "")
	require.Equal(t, http.StatusOK, w.Code)

	var results []models.SearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "oakland", results[0].Property.PropertyID)
	assert.Equal(t, results[0].DistanceKm*1000, results[0].DistanceM)

	w = doRequest(r, http.MethodGet, "/api/properties/search?lat=37.7749&lon=-122.4194&radius_km=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestListingsEndpoint(t *testing.T) {
	repo := newStubRepo()
	r := newTestRouter(repo)

	body := `[{"externalId":"z1","streetAddress":"500 Grand Ave","city":"Oakland","state":"CA","zipCode":"94610","latitude":37.81,"longitude":-122.25,"rawCategory":"condo","rawStatus":"for sale"}]`
	w := doRequest(r, http.MethodPost, "/api/ingestion/listings", body)
	require.Equal(t, http.StatusOK, w.Code)

	var summary models.IngestionSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, models.IngestionSummary{Accepted: 1}, summary)

	// Same batch again only skips.
	w = doRequest(r, http.MethodPost, "/api/ingestion/listings", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, models.IngestionSummary{SkippedDuplicate: 1}, summary)
}
