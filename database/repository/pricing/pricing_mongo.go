package pricingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mentorhub/database"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no pricing model matches the given id.
var ErrNotFound = errors.New("pricing model not found")

// MongoPricingRepo implements PricingRepository using MongoDB.
type MongoPricingRepo struct {
	coll *mongo.Collection
}

// NewMongoPricingRepo constructs a new instance of MongoPricingRepo.
func NewMongoPricingRepo() PricingRepository {
	return &MongoPricingRepo{
		coll: database.DB().Collection("pricing_models"),
	}
}

// Create inserts a new pricing model document.
func (repo *MongoPricingRepo) Create(ctx context.Context, model *models.PricingModel) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, model); err != nil {
		return fmt.Errorf("error creating pricing model: %w", err)
	}
	return nil
}

// GetByID retrieves a pricing model by its ID.
func (repo *MongoPricingRepo) GetByID(ctx context.Context, modelID string) (*models.PricingModel, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var model models.PricingModel
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": modelID}).Decode(&model)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching pricing model %s: %w", modelID, err)
	}
	return &model, nil
}

// ListByMentor returns a mentor's pricing models, optionally active only.
func (repo *MongoPricingRepo) ListByMentor(ctx context.Context, mentorID string, activeOnly bool) ([]models.PricingModel, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"mentor_id": mentorID}
	if activeOnly {
		filter["is_active"] = true
	}
	cursor, err := repo.coll.Find(ctxWithTimeout, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing pricing models for mentor %s: %w", mentorID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var out []models.PricingModel
	if err := cursor.All(ctxWithTimeout, &out); err != nil {
		return nil, fmt.Errorf("error decoding pricing models: %w", err)
	}
	return out, nil
}

// SetActive toggles a pricing model's active flag.
func (repo *MongoPricingRepo) SetActive(ctx context.Context, modelID string, active bool) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": modelID}, update)
	if err != nil {
		return fmt.Errorf("error updating pricing model %s: %w", modelID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
