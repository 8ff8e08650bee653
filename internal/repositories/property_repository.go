package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "homeradar-properties/internal/errors"
	"homeradar-properties/internal/models"
	"homeradar-properties/pkg/database"
	"homeradar-properties/pkg/metrics"
)

type propertyRepository struct {
	collection *mongo.Collection
}

func NewPropertyRepository() PropertyRepository {
	return &propertyRepository{
		collection: database.DB.Collection("properties"),
	}
}

func (r *propertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	start := time.Now()
	var property models.Property
	err := r.collection.FindOne(ctx, bson.M{"propertyId": id}).Decode(&property)
	metrics.MongoOperationDuration.WithLabelValues("find_one", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		metrics.MongoErrorsTotal.WithLabelValues("find_one", "properties").Inc()
		return nil, apperrors.NewStoreFailure("find_one", err)
	}
	return &property, nil
}

func (r *propertyRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Property, error) {
	start := time.Now()
	var property models.Property
	err := r.collection.FindOne(ctx, bson.M{"externalId": externalID}).Decode(&property)
	metrics.MongoOperationDuration.WithLabelValues("find_one", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Not found
		}
		metrics.MongoErrorsTotal.WithLabelValues("find_one", "properties").Inc()
		return nil, apperrors.NewStoreFailure("find_one", err)
	}
	return &property, nil
}

func (r *propertyRepository) FindWithFilter(ctx context.Context, filter models.ListFilter, offset, limit int) ([]models.Property, int64, error) {
	query := bson.M{}
	if filter.City != "" {
		query["address.city"] = filter.City
	}
	if filter.State != "" {
		query["address.state"] = filter.State
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	start := time.Now()
	total, err := r.collection.CountDocuments(ctx, query)
	metrics.MongoOperationDuration.WithLabelValues("count_documents", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("count_documents", "properties").Inc()
		return nil, 0, apperrors.NewStoreFailure("count_documents", err)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "propertyId", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	start = time.Now()
	cursor, err := r.collection.Find(ctx, query, findOptions)
	metrics.MongoOperationDuration.WithLabelValues("find", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("find", "properties").Inc()
		return nil, 0, apperrors.NewStoreFailure("find", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("cursor_all", "properties").Inc()
		return nil, 0, apperrors.NewStoreFailure("cursor_all", err)
	}
	return properties, total, nil
}

// FindInBoundingBox returns candidates inside a lat/lon range. Callers apply
// the exact distance filter; this query only has to be a superset of it.
func (r *propertyRepository) FindInBoundingBox(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]models.Property, error) {
	query := bson.M{
		"latitude":  bson.M{"$gte": minLat, "$lte": maxLat},
		"longitude": bson.M{"$gte": minLon, "$lte": maxLon},
	}

	start := time.Now()
	cursor, err := r.collection.Find(ctx, query)
	metrics.MongoOperationDuration.WithLabelValues("find", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("find", "properties").Inc()
		return nil, apperrors.NewStoreFailure("find", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("cursor_all", "properties").Inc()
		return nil, apperrors.NewStoreFailure("cursor_all", err)
	}
	return properties, nil
}

func (r *propertyRepository) FindAll(ctx context.Context) ([]models.Property, error) {
	start := time.Now()
	cursor, err := r.collection.Find(ctx, bson.M{})
	metrics.MongoOperationDuration.WithLabelValues("find", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("find", "properties").Inc()
		return nil, apperrors.NewStoreFailure("find", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("cursor_all", "properties").Inc()
		return nil, apperrors.NewStoreFailure("cursor_all", err)
	}
	return properties, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	property.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now

	start := time.Now()
	_, err := r.collection.InsertOne(ctx, property)
	metrics.MongoOperationDuration.WithLabelValues("insert", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewDuplicateExternalID(property.ExternalID)
		}
		metrics.MongoErrorsTotal.WithLabelValues("insert", "properties").Inc()
		return apperrors.NewStoreFailure("insert", err)
	}
	return nil
}

func (r *propertyRepository) Update(ctx context.Context, property *models.Property) error {
	property.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"externalId":  property.ExternalID,
			"address":     property.Address,
			"latitude":    property.Latitude,
			"longitude":   property.Longitude,
			"category":    property.Category,
			"status":      property.Status,
			"areaSqft":    property.AreaSqft,
			"lotAreaSqft": property.LotAreaSqft,
			"buildYear":   property.BuildYear,
			"bedrooms":    property.Bedrooms,
			"bathrooms":   property.Bathrooms,
			"description": property.Description,
			"updatedAt":   property.UpdatedAt,
		},
	}

	start := time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"propertyId": property.PropertyID}, update)
	metrics.MongoOperationDuration.WithLabelValues("update_one", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.NewDuplicateExternalID(property.ExternalID)
		}
		metrics.MongoErrorsTotal.WithLabelValues("update_one", "properties").Inc()
		return apperrors.NewStoreFailure("update_one", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NewNotFound("property")
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	result, err := r.collection.DeleteOne(ctx, bson.M{"propertyId": id})
	metrics.MongoOperationDuration.WithLabelValues("delete_one", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("delete_one", "properties").Inc()
		return apperrors.NewStoreFailure("delete_one", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NewNotFound("property")
	}
	return nil
}
