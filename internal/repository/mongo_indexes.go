package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// flightIndexes mirror the PostgreSQL migration: the route/date search and the default price sort.
func flightIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: domain.FlightFieldSource, Value: 1},
				{Key: domain.FlightFieldDestination, Value: 1},
				{Key: domain.FlightFieldDate, Value: 1},
			},
			Options: options.Index().SetName("flights_route_date_idx"),
		},
		{
			Keys:    bson.D{{Key: domain.FlightFieldPrice, Value: 1}},
			Options: options.Index().SetName("flights_price_idx"),
		},
	}
}

// EnsureMongoIndexes creates the flight indexes. Re-running with unchanged definitions is a no-op.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(flightsCollection).Indexes().CreateMany(ctx, flightIndexes()); err != nil {
		return fmt.Errorf("create flight indexes: %w", err)
	}
	return nil
}
