package paymentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mentorhub/database"
	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrTxnNotFound is returned when no transaction matches the query.
var ErrTxnNotFound = errors.New("transaction not found")

// ErrPayoutNotFound is returned when no payout matches the given id.
var ErrPayoutNotFound = errors.New("payout not found")

// ErrAlreadySettled is returned when a payout insert loses the settlement race.
var ErrAlreadySettled = errors.New("transaction already settled by another payout")

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	txnColl    *mongo.Collection
	payoutColl *mongo.Collection
}

// NewMongoPaymentRepo constructs a new instance of MongoPaymentRepo.
func NewMongoPaymentRepo() PaymentRepository {
	db := database.DB()
	return &MongoPaymentRepo{
		txnColl:    db.Collection("transactions"),
		payoutColl: db.Collection("payouts"),
	}
}

// CreateTransaction inserts a new transaction document.
func (repo *MongoPaymentRepo) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.txnColl.InsertOne(ctxWithTimeout, txn); err != nil {
		return fmt.Errorf("error creating transaction: %w", err)
	}
	return nil
}

// GetTransactionByID retrieves a transaction by its ID.
func (repo *MongoPaymentRepo) GetTransactionByID(ctx context.Context, txnID string) (*models.Transaction, error) {
	return repo.findTransaction(ctx, bson.M{"id": txnID})
}

// GetTransactionBySessionID retrieves the session's transaction (1:1).
func (repo *MongoPaymentRepo) GetTransactionBySessionID(ctx context.Context, sessionID string) (*models.Transaction, error) {
	return repo.findTransaction(ctx, bson.M{"session_id": sessionID})
}

func (repo *MongoPaymentRepo) findTransaction(ctx context.Context, filter bson.M) (*models.Transaction, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var txn models.Transaction
	err := repo.txnColl.FindOne(ctxWithTimeout, filter).Decode(&txn)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTxnNotFound
		}
		return nil, fmt.Errorf("error fetching transaction: %w", err)
	}
	return &txn, nil
}

// UpdateTransactionStatus persists a transaction status change.
func (repo *MongoPaymentRepo) UpdateTransactionStatus(ctx context.Context, txnID, status string, completedAt *time.Time) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status, "updated_at": time.Now()}
	if completedAt != nil {
		set["completed_at"] = *completedAt
	}
	res, err := repo.txnColl.UpdateOne(ctxWithTimeout, bson.M{"id": txnID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating transaction %s: %w", txnID, err)
	}
	if res.MatchedCount == 0 {
		return ErrTxnNotFound
	}
	return nil
}

// Reprice rewrites the money figures of a transaction.
func (repo *MongoPaymentRepo) Reprice(ctx context.Context, txnID string, amount, platformFee, mentorEarnings float64) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"amount":          amount,
		"platform_fee":    platformFee,
		"mentor_earnings": mentorEarnings,
		"updated_at":      time.Now(),
	}}
	res, err := repo.txnColl.UpdateOne(ctxWithTimeout, bson.M{"id": txnID}, update)
	if err != nil {
		return fmt.Errorf("error repricing transaction %s: %w", txnID, err)
	}
	if res.MatchedCount == 0 {
		return ErrTxnNotFound
	}
	return nil
}

// claimedTransactionIDs collects the ids referenced by the mentor's
// non-failed payouts.
func (repo *MongoPaymentRepo) claimedTransactionIDs(ctx context.Context, mentorID string) ([]string, error) {
	filter := bson.M{
		"mentor_id": mentorID,
		"status":    bson.M{"$ne": models.PayoutFailed},
	}
	cursor, err := repo.payoutColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching payouts: %w", err)
	}
	defer cursor.Close(ctx)

	var claimed []string
	for cursor.Next(ctx) {
		var p models.MentorPayout
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("error decoding payout: %w", err)
		}
		claimed = append(claimed, p.TransactionIDs...)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return claimed, nil
}

// FindUnsettledByMentor returns completed, unclaimed transactions oldest first.
func (repo *MongoPaymentRepo) FindUnsettledByMentor(ctx context.Context, mentorID string) ([]models.Transaction, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	claimed, err := repo.claimedTransactionIDs(ctxWithTimeout, mentorID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"mentor_id": mentorID,
		"status":    models.TxnCompleted,
	}
	if len(claimed) > 0 {
		filter["id"] = bson.M{"$nin": claimed}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := repo.txnColl.Find(ctxWithTimeout, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding unsettled transactions: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var txns []models.Transaction
	if err := cursor.All(ctxWithTimeout, &txns); err != nil {
		return nil, fmt.Errorf("error decoding unsettled transactions: %w", err)
	}
	return txns, nil
}
