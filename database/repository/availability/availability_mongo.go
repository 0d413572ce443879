package availabilityRepo

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

// ErrOverlap is returned when an insert would overlap an existing active slot.
var ErrOverlap = errors.New("overlapping availability slot exists")

// ErrNotFound is returned when no slot matches the given id.
var ErrNotFound = errors.New("availability slot not found")

// slotDoc is the persisted shape: the public model plus denormalized
// minutes-from-midnight bounds for numeric overlap queries.
type slotDoc struct {
	models.AvailabilitySlot `bson:",inline"`
	StartMin                int `bson:"start_min"`
	EndMin                  int `bson:"end_min"`
}

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new instance of MongoAvailabilityRepo.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &MongoAvailabilityRepo{
		coll: database.DB().Collection("availability_slots"),
	}
}

func overlapFilter(mentorID string, dayOfWeek, startMin, endMin int, excludeSlotID string) bson.M {
	filter := bson.M{
		"mentor_id":   mentorID,
		"day_of_week": dayOfWeek,
		"is_active":   true,
		"start_min":   bson.M{"$lt": endMin},
		"end_min":     bson.M{"$gt": startMin},
	}
	if excludeSlotID != "" {
		filter["id"] = bson.M{"$ne": excludeSlotID}
	}
	return filter
}

// FindOverlappingActive returns active same-day slots overlapping the candidate window.
func (repo *MongoAvailabilityRepo) FindOverlappingActive(ctx context.Context, mentorID string, dayOfWeek, startMin, endMin int, excludeSlotID string) ([]models.AvailabilitySlot, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctxWithTimeout, overlapFilter(mentorID, dayOfWeek, startMin, endMin, excludeSlotID))
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping slots: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var docs []slotDoc
	if err := cursor.All(ctxWithTimeout, &docs); err != nil {
		return nil, fmt.Errorf("error decoding overlapping slots: %w", err)
	}
	slots := make([]models.AvailabilitySlot, 0, len(docs))
	for _, d := range docs {
		slots = append(slots, d.AvailabilitySlot)
	}
	return slots, nil
}

// CreateSlotIfFree re-runs the overlap check and inserts the slot inside a
// single multi-document transaction.
func (repo *MongoAvailabilityRepo) CreateSlotIfFree(ctx context.Context, slot *models.AvailabilitySlot, startMin, endMin int) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	doc := slotDoc{AvailabilitySlot: *slot, StartMin: startMin, EndMin: endMin}

	txnFn := func(sc mongo.SessionContext) error {
		count, err := repo.coll.CountDocuments(sc, overlapFilter(slot.MentorID, slot.DayOfWeek, startMin, endMin, ""))
		if err != nil {
			return fmt.Errorf("overlap recheck failed: %w", err)
		}
		if count > 0 {
			return ErrOverlap
		}
		if _, err := repo.coll.InsertOne(sc, doc); err != nil {
			return fmt.Errorf("insert slot failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrOverlap) {
			return ErrOverlap
		}
		return fmt.Errorf("slot creation transaction failed: %w", err)
	}

	return nil
}

// GetByID retrieves a slot by its ID.
func (repo *MongoAvailabilityRepo) GetByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc slotDoc
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": slotID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching slot %s: %w", slotID, err)
	}
	return &doc.AvailabilitySlot, nil
}

// ListByMentor returns all of a mentor's slots ordered by weekday and start.
func (repo *MongoAvailabilityRepo) ListByMentor(ctx context.Context, mentorID string) ([]models.AvailabilitySlot, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"mentor_id": mentorID}, listSortOptions())
	if err != nil {
		return nil, fmt.Errorf("error listing slots for mentor %s: %w", mentorID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var docs []slotDoc
	if err := cursor.All(ctxWithTimeout, &docs); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	slots := make([]models.AvailabilitySlot, 0, len(docs))
	for _, d := range docs {
		slots = append(slots, d.AvailabilitySlot)
	}
	return slots, nil
}

// SetActive toggles a slot's active flag.
func (repo *MongoAvailabilityRepo) SetActive(ctx context.Context, slotID string, active bool) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": slotID}, update)
	if err != nil {
		return fmt.Errorf("error updating slot %s: %w", slotID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a slot.
func (repo *MongoAvailabilityRepo) Delete(ctx context.Context, slotID string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctxWithTimeout, bson.M{"id": slotID})
	if err != nil {
		return fmt.Errorf("error deleting slot %s: %w", slotID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
