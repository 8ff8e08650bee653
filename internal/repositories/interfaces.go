package repositories

import (
	"context"
	"time"

	"homeradar-properties/internal/models"
)

type PropertyRepository interface {
	FindByID(ctx context.Context, id string) (*models.Property, error)
	FindByExternalID(ctx context.Context, externalID string) (*models.Property, error)
	FindWithFilter(ctx context.Context, filter models.ListFilter, offset, limit int) ([]models.Property, int64, error)
	FindInBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]models.Property, error)
	FindAll(ctx context.Context) ([]models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id string) error
}

// ChildRecordRepository fetches the owned child records of a property.
// Children are read explicitly by callers; there is no implicit traversal.
type ChildRecordRepository interface {
	FindSales(ctx context.Context, propertyID string) ([]models.Sale, error)
	FindMaintenance(ctx context.Context, propertyID string) ([]models.MaintenanceRecord, error)
	FindDisasters(ctx context.Context, propertyID string) ([]models.DisasterRecord, error)
	DeleteByProperty(ctx context.Context, propertyID string) error
}

type PropertyCache interface {
	GetProperty(ctx context.Context, key string) (*models.Property, error)
	SetProperty(ctx context.Context, key string, property *models.Property, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}
