package userRepo

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

// ErrNotFound is returned when no account matches the query.
var ErrNotFound = errors.New("account not found")

// ErrDuplicateEmail is returned when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a new instance of MongoUserRepo.
func NewMongoUserRepo() UserRepository {
	return &MongoUserRepo{
		coll: database.DB().Collection("accounts"),
	}
}

// Create inserts a new account document, rejecting duplicate emails.
func (repo *MongoUserRepo) Create(ctx context.Context, account *models.Account) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := repo.coll.CountDocuments(ctxWithTimeout, bson.M{"email": account.Email})
	if err != nil {
		return fmt.Errorf("error checking account email: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}
	if _, err := repo.coll.InsertOne(ctxWithTimeout, account); err != nil {
		return fmt.Errorf("error creating account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by its ID.
func (repo *MongoUserRepo) GetByID(ctx context.Context, accountID string) (*models.Account, error) {
	return repo.find(ctx, bson.M{"id": accountID})
}

// GetByEmail retrieves an account by email.
func (repo *MongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return repo.find(ctx, bson.M{"email": email})
}

func (repo *MongoUserRepo) find(ctx context.Context, filter bson.M) (*models.Account, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var account models.Account
	err := repo.coll.FindOne(ctxWithTimeout, filter).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching account: %w", err)
	}
	return &account, nil
}

// UpdateFCMToken stores the account's push target.
func (repo *MongoUserRepo) UpdateFCMToken(ctx context.Context, accountID, token string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"fcm_token": token, "updated_at": time.Now()}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": accountID}, update)
	if err != nil {
		return fmt.Errorf("error updating account %s: %w", accountID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
