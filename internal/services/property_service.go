package services

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"

	apperrors "homeradar-properties/internal/errors"
	"homeradar-properties/internal/models"
	"homeradar-properties/internal/repositories"
	"homeradar-properties/internal/transformers"
	"homeradar-properties/internal/utils"
	"homeradar-properties/internal/validators"
	"homeradar-properties/pkg/cache"
	"homeradar-properties/pkg/logger"
	"homeradar-properties/pkg/metrics"
)

// PropertyService is the cache-aside access path for property records. The
// durable store is authoritative; the cache holds bounded-TTL snapshots keyed
// by primary identifier only.
type PropertyService struct {
	repo      repositories.PropertyRepository
	children  repositories.ChildRecordRepository
	cache     repositories.PropertyCache
	addrTrans transformers.AddressTransformer
	validator validators.PropertyValidator
	ttl       time.Duration
}

func NewPropertyService(
	repo repositories.PropertyRepository,
	children repositories.ChildRecordRepository,
	propertyCache repositories.PropertyCache,
	addrTrans transformers.AddressTransformer,
	validator validators.PropertyValidator,
	ttl time.Duration,
) *PropertyService {
	if ttl <= 0 {
		ttl = cache.PropertyTTL
	}
	return &PropertyService{
		repo:      repo,
		children:  children,
		cache:     propertyCache,
		addrTrans: addrTrans,
		validator: validator,
		ttl:       ttl,
	}
}

// GetByID reads through the cache. An expired or missing entry falls back to
// the durable store; a found record repopulates the cache with a fresh TTL.
// Absence is never cached.
func (s *PropertyService) GetByID(ctx context.Context, id string) (*models.Property, error) {
	key := cache.PropertyKey(id)

	cached, err := s.cache.GetProperty(ctx, key)
	if err != nil {
		logger.GlobalLogger.Errorf("cache read failed for %s: %v", key, err)
	}
	if cached != nil {
		metrics.CacheHitsTotal.Inc()
		return cached, nil
	}
	metrics.CacheMissesTotal.Inc()

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperrors.NewNotFound("property")
	}

	if err := s.cache.SetProperty(ctx, key, property, s.ttl); err != nil {
		logger.GlobalLogger.Errorf("cache populate failed for %s: %v", key, err)
	}
	return property, nil
}

// GetByExternalID bypasses the cache: secondary-index lookups go straight to
// the durable store.
func (s *PropertyService) GetByExternalID(ctx context.Context, externalID string) (*models.Property, error) {
	property, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperrors.NewNotFound("property")
	}
	return property, nil
}

// Create writes a new property. The durable write commits first; only then is
// the cache entry written. A failed store write leaves the cache untouched.
func (s *PropertyService) Create(ctx context.Context, property *models.Property) error {
	if err := s.validator.ValidateCreate(property); err != nil {
		return apperrors.NewValidation(err)
	}
	if property.PropertyID == "" {
		property.PropertyID = uuid.New().String()
	}
	s.normalizeAddress(property)

	if err := s.repo.Create(ctx, property); err != nil {
		return err
	}
	s.refreshCache(ctx, property)
	return nil
}

// Update performs a full update, store first, then cache refresh.
func (s *PropertyService) Update(ctx context.Context, property *models.Property) error {
	if err := s.validator.ValidateUpdate(property); err != nil {
		return apperrors.NewValidation(err)
	}
	s.normalizeAddress(property)

	if err := s.repo.Update(ctx, property); err != nil {
		return err
	}
	s.refreshCache(ctx, property)
	return nil
}

// Delete removes the durable record, its child records, and best-effort the
// cache entry. A failed cache delete is tolerated: the entry self-expires
// within one TTL.
func (s *PropertyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.children.DeleteByProperty(ctx, id); err != nil {
		logger.GlobalLogger.Errorf("child record cleanup failed for %s: %v", id, err)
	}
	if err := s.cache.Delete(ctx, cache.PropertyKey(id)); err != nil {
		logger.GlobalLogger.Errorf("cache delete failed for %s: %v", id, err)
	}
	return nil
}

// List queries the durable store with equality filters. List results are not
// cached in this design.
func (s *PropertyService) List(ctx context.Context, filter models.ListFilter, offset, limit int, baseURL string, params url.Values) (*models.PaginatedPropertiesResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	properties, total, err := s.repo.FindWithFilter(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}

	meta := models.PaginationMeta{
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}
	if int64(offset+limit) < total {
		nextURL := utils.BuildPaginationURL(baseURL, offset+limit, limit, params)
		meta.Next = &nextURL
	}
	if offset > 0 {
		prevOffset := offset - limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prevURL := utils.BuildPaginationURL(baseURL, prevOffset, limit, params)
		meta.Prev = &prevURL
	}

	return &models.PaginatedPropertiesResponse{Data: properties, Meta: meta}, nil
}

// GetSales fetches the sale records owned by a property.
func (s *PropertyService) GetSales(ctx context.Context, propertyID string) ([]models.Sale, error) {
	return s.children.FindSales(ctx, propertyID)
}

// GetMaintenance fetches the maintenance records owned by a property.
func (s *PropertyService) GetMaintenance(ctx context.Context, propertyID string) ([]models.MaintenanceRecord, error) {
	return s.children.FindMaintenance(ctx, propertyID)
}

// GetDisasters fetches the disaster records owned by a property.
func (s *PropertyService) GetDisasters(ctx context.Context, propertyID string) ([]models.DisasterRecord, error) {
	return s.children.FindDisasters(ctx, propertyID)
}

func (s *PropertyService) refreshCache(ctx context.Context, property *models.Property) {
	key := cache.PropertyKey(property.PropertyID)
	if err := s.cache.SetProperty(ctx, key, property, s.ttl); err != nil {
		logger.GlobalLogger.Errorf("cache refresh failed for %s: %v", key, err)
	}
}

func (s *PropertyService) normalizeAddress(property *models.Property) {
	property.Address.StreetAddress = s.addrTrans.NormalizeAddressComponent(property.Address.StreetAddress)
	property.Address.City = s.addrTrans.NormalizeAddressComponent(property.Address.City)
	property.Address.State = s.addrTrans.NormalizeAddressComponent(property.Address.State)
	property.Address.ZipCode = s.addrTrans.NormalizeAddressComponent(property.Address.ZipCode)
}
