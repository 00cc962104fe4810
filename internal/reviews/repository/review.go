package repository

import (
	"context"
	"time"

	reviewserrors "rentals/internal/reviews/errors"
	"rentals/pkg/config"
	mongotx "rentals/pkg/db/mongo"
	"rentals/pkg/model"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Reviews"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByUserAndProperty(ctx context.Context, userID, propertyID string) (*model.Review, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Review, error)
	FindByProperty(ctx context.Context, propertyID string) ([]*model.Review, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReviewRepository struct {
	collection   *mongo.Collection
	txManager    mongotx.TransactionManager
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoReviewRepository(cfg *config.Config) ReviewRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return newMongoReviewRepository(db, mongotx.NewTransactionManager(cfg.Client.Mongo), cfg.ReadTimeout, cfg.WriteTimeout)
}

func newMongoReviewRepository(db *mongo.Database, txManager mongotx.TransactionManager, readTimeout, writeTimeout time.Duration) *mongoReviewRepository {
	return &mongoReviewRepository{
		collection:   db.Collection(CollectionName),
		txManager:    txManager,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Create inserts the review. The unique (user_id, property_id) index turns a
// concurrent second review into ErrDuplicate.
func (r *mongoReviewRepository) Create(ctx context.Context, review *model.Review) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	// A retried transaction may pass the struct from an aborted attempt; the
	// stored _id must always be a fresh ObjectID.
	review.ID = ""
	review.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return reviewserrors.ErrDuplicate
		}
		return errors.Wrap(err, "failed to create review")
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReviewRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID string) (*model.Review, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	var review model.Review
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "property_id": propertyID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reviewserrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find review")
	}

	return &review, nil
}

func (r *mongoReviewRepository) FindByUser(ctx context.Context, userID string) ([]*model.Review, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *mongoReviewRepository) FindByProperty(ctx context.Context, propertyID string) ([]*model.Review, error) {
	return r.find(ctx, bson.M{"property_id": propertyID})
}

func (r *mongoReviewRepository) find(ctx context.Context, filter bson.M) ([]*model.Review, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find reviews")
	}
	defer cursor.Close(ctx)

	reviews := []*model.Review{}
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, errors.Wrap(err, "failed to decode reviews")
	}

	return reviews, nil
}

func (r *mongoReviewRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
