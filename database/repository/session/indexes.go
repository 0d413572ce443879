package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func optionsSortByStart() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
}

// EnsureIndexes creates the indexes the conflict queries depend on.
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
				{Key: "status", Value: 1},
				{Key: "start_time", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "mentee_id", Value: 1},
				{Key: "pricing_type", Value: 1},
				{Key: "subscription_end", Value: 1},
			},
		},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}
