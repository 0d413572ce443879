package auditRepo

import (
	"context"
	"fmt"
	"time"

	"mentorhub/database"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuditRepo implements AuditRepository using MongoDB.
type MongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo constructs a new instance of MongoAuditRepo.
func NewMongoAuditRepo() AuditRepository {
	return &MongoAuditRepo{
		coll: database.DB().Collection("audit_log"),
	}
}

// Insert appends a record to the audit log.
func (repo *MongoAuditRepo) Insert(ctx context.Context, record *models.AuditRecord) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, record); err != nil {
		return fmt.Errorf("error inserting audit record: %w", err)
	}
	return nil
}

// ListByResource returns the newest records for a resource kind.
func (repo *MongoAuditRepo) ListByResource(ctx context.Context, resource string, limit int64) ([]models.AuditRecord, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"resource": resource}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing audit records for %s: %w", resource, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var out []models.AuditRecord
	if err := cursor.All(ctxWithTimeout, &out); err != nil {
		return nil, fmt.Errorf("error decoding audit records: %w", err)
	}
	return out, nil
}
