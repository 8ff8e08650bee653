package services

import (
	"context"
	"math"
	"sort"

	apperrors "homeradar-properties/internal/errors"
	"homeradar-properties/internal/models"
	"homeradar-properties/internal/repositories"
	"homeradar-properties/internal/validators"
	"homeradar-properties/pkg/logger"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// kmPerDegreeLat is the great-circle length of one degree of latitude.
const kmPerDegreeLat = EarthRadiusKm * math.Pi / 180

// GeoSearchService answers radius searches over property coordinates. It
// queries the durable store for candidates; the per-id cache cannot serve
// range queries and is never consulted here.
type GeoSearchService struct {
	repo      repositories.PropertyRepository
	validator validators.PropertyValidator
}

func NewGeoSearchService(repo repositories.PropertyRepository, validator validators.PropertyValidator) *GeoSearchService {
	return &GeoSearchService{repo: repo, validator: validator}
}

// Search returns all properties within req.RadiusKm of the origin, inclusive
// of the boundary, sorted ascending by distance with ties broken by property
// identifier.
func (s *GeoSearchService) Search(ctx context.Context, req *models.SearchRequest) ([]models.SearchResult, error) {
	if err := s.validator.ValidateSearch(req); err != nil {
		return nil, apperrors.NewValidation(err)
	}

	candidates, err := s.candidates(ctx, req)
	if err != nil {
		return nil, err
	}

	results := make([]models.SearchResult, 0, len(candidates))
	for _, property := range candidates {
		distKm := Haversine(req.Latitude, req.Longitude, property.Latitude, property.Longitude)
		if distKm > req.RadiusKm {
			continue
		}
		results = append(results, models.SearchResult{
			Property:   property,
			DistanceKm: distKm,
			DistanceM:  distKm * 1000,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKm != results[j].DistanceKm {
			return results[i].DistanceKm < results[j].DistanceKm
		}
		return results[i].Property.PropertyID < results[j].Property.PropertyID
	})
	return results, nil
}

// candidates narrows the scan with a bounding-box range query when the box is
// well defined. The box is a strict superset of the radius circle; the exact
// haversine filter above decides inclusion. Near the poles or when the box
// would cross the antimeridian the pre-filter degenerates to a full scan.
func (s *GeoSearchService) candidates(ctx context.Context, req *models.SearchRequest) ([]models.Property, error) {
	latDelta := req.RadiusKm / kmPerDegreeLat
	minLat := req.Latitude - latDelta
	maxLat := req.Latitude + latDelta

	if minLat <= -89.9 || maxLat >= 89.9 {
		return s.repo.FindAll(ctx)
	}

	// Longitude degrees shrink with latitude; the widest band within the box
	// bounds the shrink factor.
	maxAbsLat := math.Max(math.Abs(minLat), math.Abs(maxLat))
	cosLat := math.Cos(maxAbsLat * math.Pi / 180)
	lonDelta := req.RadiusKm / (kmPerDegreeLat * cosLat)
	if lonDelta >= 180 {
		return s.repo.FindAll(ctx)
	}

	minLon := req.Longitude - lonDelta
	maxLon := req.Longitude + lonDelta
	if minLon < -180 || maxLon > 180 {
		// Antimeridian wrap; a single range query cannot express it.
		return s.repo.FindAll(ctx)
	}

	candidates, err := s.repo.FindInBoundingBox(ctx, minLat, maxLat, minLon, maxLon)
	if err != nil {
		logger.GlobalLogger.Errorf("bounding box query failed, falling back to full scan: %v", err)
		return s.repo.FindAll(ctx)
	}
	return candidates, nil
}

// Haversine computes the great-circle distance in kilometers between two
// coordinates given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	latDistance := toRadians(lat2 - lat1)
	lonDistance := toRadians(lon2 - lon1)
	a := math.Sin(latDistance/2)*math.Sin(latDistance/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(lonDistance/2)*math.Sin(lonDistance/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
