package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"homeradar-properties/pkg/logger"
	"homeradar-properties/pkg/metrics"
)

// create indexes for the properties collection. The unique sparse index on
// externalId is the final arbiter for concurrent duplicate ingestion: two
// writers racing past the existence check cannot both commit. Sparse keeps
// manually created records (no external id) out of the uniqueness constraint.
func CreatePropertyIndexes(db *mongo.Database) error {
	collection := db.Collection("properties")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "propertyId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "externalId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "address.city", Value: 1}, {Key: "address.state", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "latitude", Value: 1}, {Key: "longitude", Value: 1}},
		},
	})
	metrics.MongoOperationDuration.WithLabelValues("create_indexes", "properties").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MongoErrorsTotal.WithLabelValues("create_indexes", "properties").Inc()
		logger.GlobalLogger.Errorf("Failed to create indexes: %v", err)
		return err
	}

	logger.GlobalLogger.Println("MongoDB indexes created successfully.")
	return nil
}
