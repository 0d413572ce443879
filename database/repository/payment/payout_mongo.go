package paymentRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mentorhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreatePayoutSettling inserts the payout inside a multi-document transaction,
// re-verifying first that no other payout already claims any of its
// transaction ids. Two concurrent payout requests for the same mentor cannot
// both settle the same transaction.
func (repo *MongoPaymentRepo) CreatePayoutSettling(ctx context.Context, payout *models.MentorPayout) error {
	client := repo.payoutColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		conflict := bson.M{
			"mentor_id":       payout.MentorID,
			"status":          bson.M{"$ne": models.PayoutFailed},
			"transaction_ids": bson.M{"$in": payout.TransactionIDs},
		}
		count, err := repo.payoutColl.CountDocuments(sc, conflict)
		if err != nil {
			return fmt.Errorf("settlement recheck failed: %w", err)
		}
		if count > 0 {
			return ErrAlreadySettled
		}
		if _, err := repo.payoutColl.InsertOne(sc, payout); err != nil {
			return fmt.Errorf("insert payout failed: %w", err)
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
		if errors.Is(err, ErrAlreadySettled) {
			return ErrAlreadySettled
		}
		return fmt.Errorf("payout transaction failed: %w", err)
	}

	return nil
}

// PayoutReferencingTransaction returns the payout claiming the transaction id, if any.
func (repo *MongoPaymentRepo) PayoutReferencingTransaction(ctx context.Context, mentorID, txnID string) (*models.MentorPayout, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"mentor_id":       mentorID,
		"status":          bson.M{"$ne": models.PayoutFailed},
		"transaction_ids": txnID,
	}
	var payout models.MentorPayout
	err := repo.payoutColl.FindOne(ctxWithTimeout, filter).Decode(&payout)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding payout for transaction %s: %w", txnID, err)
	}
	return &payout, nil
}

// GetPayoutByID retrieves a payout by its ID.
func (repo *MongoPaymentRepo) GetPayoutByID(ctx context.Context, payoutID string) (*models.MentorPayout, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var payout models.MentorPayout
	err := repo.payoutColl.FindOne(ctxWithTimeout, bson.M{"id": payoutID}).Decode(&payout)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("error fetching payout %s: %w", payoutID, err)
	}
	return &payout, nil
}

// UpdatePayoutStatus persists a payout status change.
func (repo *MongoPaymentRepo) UpdatePayoutStatus(ctx context.Context, payoutID, status string, processedAt *time.Time) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status}
	if processedAt != nil {
		set["processed_at"] = *processedAt
	}
	res, err := repo.payoutColl.UpdateOne(ctxWithTimeout, bson.M{"id": payoutID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating payout %s: %w", payoutID, err)
	}
	if res.MatchedCount == 0 {
		return ErrPayoutNotFound
	}
	return nil
}

// ListPayoutsByMentor returns the mentor's payouts newest first.
func (repo *MongoPaymentRepo) ListPayoutsByMentor(ctx context.Context, mentorID string) ([]models.MentorPayout, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.payoutColl.Find(ctxWithTimeout, bson.M{"mentor_id": mentorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing payouts for mentor %s: %w", mentorID, err)
	}
	defer cursor.Close(ctxWithTimeout)

	var payouts []models.MentorPayout
	if err := cursor.All(ctxWithTimeout, &payouts); err != nil {
		return nil, fmt.Errorf("error decoding payouts: %w", err)
	}
	return payouts, nil
}
