package sessionRepo

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

// ErrOverlap is returned when an insert would double-book the mentor.
var ErrOverlap = errors.New("overlapping session exists")

// ErrNotFound is returned when no session matches the given id.
var ErrNotFound = errors.New("session not found")

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo constructs a new instance of MongoSessionRepo.
func NewMongoSessionRepo() SessionRepository {
	return &MongoSessionRepo{
		coll: database.DB().Collection("sessions"),
	}
}

func overlapFilter(mentorID string, start, end time.Time, excludeSessionID string) bson.M {
	filter := bson.M{
		"mentor_id":     mentorID,
		"status":        bson.M{"$in": models.BlockingStatuses},
		"start_time":    bson.M{"$lt": end},
		"scheduled_end": bson.M{"$gt": start},
	}
	if excludeSessionID != "" {
		filter["id"] = bson.M{"$ne": excludeSessionID}
	}
	return filter
}

// FindOverlapping returns blocking sessions overlapping [start, end) for the mentor.
func (repo *MongoSessionRepo) FindOverlapping(ctx context.Context, mentorID string, start, end time.Time, excludeSessionID string) ([]models.Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctxWithTimeout, overlapFilter(mentorID, start, end, excludeSessionID))
	if err != nil {
		return nil, fmt.Errorf("error finding overlapping sessions: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var sessions []models.Session
	if err := cursor.All(ctxWithTimeout, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding overlapping sessions: %w", err)
	}
	return sessions, nil
}

// CreateSessionIfFree re-runs the overlap check and inserts the session inside
// a single multi-document transaction.
func (repo *MongoSessionRepo) CreateSessionIfFree(ctx context.Context, session *models.Session) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		count, err := repo.coll.CountDocuments(sc, overlapFilter(session.MentorID, session.StartTime, session.ScheduledEnd, ""))
		if err != nil {
			return fmt.Errorf("overlap recheck failed: %w", err)
		}
		if count > 0 {
			return ErrOverlap
		}
		if _, err := repo.coll.InsertOne(sc, session); err != nil {
			return fmt.Errorf("insert session failed: %w", err)
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
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (repo *MongoSessionRepo) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching session %s: %w", sessionID, err)
	}
	return &session, nil
}

// UpdateStatus persists a status change.
func (repo *MongoSessionRepo) UpdateStatus(ctx context.Context, sessionID, status string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": sessionID}, update)
	if err != nil {
		return fmt.Errorf("error updating session %s: %w", sessionID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateOnComplete persists the COMPLETED state with derived duration fields.
func (repo *MongoSessionRepo) UpdateOnComplete(ctx context.Context, sessionID string, endTime time.Time, actualDuration int) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":          models.SessionCompleted,
		"end_time":        endTime,
		"actual_duration": actualDuration,
		"updated_at":      time.Now(),
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": sessionID}, update)
	if err != nil {
		return fmt.Errorf("error completing session %s: %w", sessionID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindActiveSubscription returns a running subscription session for the pair, if any.
func (repo *MongoSessionRepo) FindActiveSubscription(ctx context.Context, mentorID, menteeID string, now time.Time) (*models.Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"mentor_id":        mentorID,
		"mentee_id":        menteeID,
		"pricing_type":     models.PricingSubscription,
		"subscription_end": bson.M{"$gt": now},
		"status":           bson.M{"$ne": models.SessionCancelled},
	}
	var session models.Session
	err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding active subscription: %w", err)
	}
	return &session, nil
}

func (repo *MongoSessionRepo) listByField(ctx context.Context, field, value string) ([]models.Session, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := optionsSortByStart()
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{field: value}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions by %s: %w", field, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var sessions []models.Session
	if err := cursor.All(ctxWithTimeout, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding sessions: %w", err)
	}
	return sessions, nil
}

// ListByMentor returns all sessions for a mentor ordered by start time.
func (repo *MongoSessionRepo) ListByMentor(ctx context.Context, mentorID string) ([]models.Session, error) {
	return repo.listByField(ctx, "mentor_id", mentorID)
}

// ListByMentee returns all sessions for a mentee ordered by start time.
func (repo *MongoSessionRepo) ListByMentee(ctx context.Context, menteeID string) ([]models.Session, error) {
	return repo.listByField(ctx, "mentee_id", menteeID)
}
