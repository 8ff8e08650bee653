package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "homeradar-properties/internal/errors"
	"homeradar-properties/internal/models"
	"homeradar-properties/pkg/database"
	"homeradar-properties/pkg/metrics"
)

type childRecordRepository struct {
	sales       *mongo.Collection
	maintenance *mongo.Collection
	disasters   *mongo.Collection
}

func NewChildRecordRepository() ChildRecordRepository {
	return &childRecordRepository{
		sales:       database.DB.Collection("property_sales"),
		maintenance: database.DB.Collection("property_maintenance"),
		disasters:   database.DB.Collection("property_disasters"),
	}
}

func (r *childRecordRepository) FindSales(ctx context.Context, propertyID string) ([]models.Sale, error) {
	records := []models.Sale{}
	if err := r.findByProperty(ctx, r.sales, "property_sales", propertyID, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *childRecordRepository) FindMaintenance(ctx context.Context, propertyID string) ([]models.MaintenanceRecord, error) {
	records := []models.MaintenanceRecord{}
	if err := r.findByProperty(ctx, r.maintenance, "property_maintenance", propertyID, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *childRecordRepository) FindDisasters(ctx context.Context, propertyID string) ([]models.DisasterRecord, error) {
	records := []models.DisasterRecord{}
	if err := r.findByProperty(ctx, r.disasters, "property_disasters", propertyID, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByProperty removes all child records owned by a property. Called when
// the parent is deleted.
func (r *childRecordRepository) DeleteByProperty(ctx context.Context, propertyID string) error {
	for name, col := range map[string]*mongo.Collection{
		"property_sales":       r.sales,
		"property_maintenance": r.maintenance,
		"property_disasters":   r.disasters,
	} {
		start := time.Now()
		_, err := col.DeleteMany(ctx, bson.M{"propertyId": propertyID})
		metrics.MongoOperationDuration.WithLabelValues("delete_many", name).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.MongoErrorsTotal.WithLabelValues("delete_many", name).Inc()
			return apperrors.NewStoreFailure("delete_many", err)
		}
	}
	return nil
}

func (r *childRecordRepository) findByProperty(ctx context.Context, col *mongo.Collection, name, propertyID string, dest interface{}) error {
	start := time.Now()
	cursor, err := col.Find(ctx, bson.M{"propertyId": propertyID})
	metrics.MongoOperationDuration.WithLabelValues("find", name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("find", name).Inc()
		return apperrors.NewStoreFailure("find", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, dest); err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("cursor_all", name).Inc()
		return apperrors.NewStoreFailure("cursor_all", err)
	}
	return nil
}
