package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func listSortOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{
		{Key: "day_of_week", Value: 1},
		{Key: "start_min", Value: 1},
	})
}

// EnsureIndexes creates the indexes slot overlap queries depend on.
func EnsureIndexes(coll *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "mentor_id", Value: 1},
				{Key: "day_of_week", Value: 1},
				{Key: "is_active", Value: 1},
			},
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}
