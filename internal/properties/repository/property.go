package repository

import (
	"context"
	"time"

	propertieserrors "rentals/internal/properties/errors"
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
	CollectionName = "Properties"
)

type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id string) (*model.Property, error)
	FindAll(ctx context.Context) ([]*model.Property, error)
	Delete(ctx context.Context, id string) error
	UpdateAverageRating(ctx context.Context, id string, average float64) error
}

type mongoPropertyRepository struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoPropertyRepository(cfg *config.Config) PropertyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return newMongoPropertyRepository(db, cfg.ReadTimeout, cfg.WriteTimeout)
}

func newMongoPropertyRepository(db *mongo.Database, readTimeout, writeTimeout time.Duration) *mongoPropertyRepository {
	return &mongoPropertyRepository{
		collection:   db.Collection(CollectionName),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (r *mongoPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	property.CreatedAt = now
	property.UpdatedAt = now
	if property.Amenities == nil {
		property.Amenities = []string{}
	}

	result, err := r.collection.InsertOne(ctx, property)
	if err != nil {
		return errors.Wrap(err, "failed to create property")
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		property.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrapf(propertieserrors.ErrInvalidID, "%s", id)
	}

	var property model.Property
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, propertieserrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to find property")
	}

	return &property, nil
}

func (r *mongoPropertyRepository) FindAll(ctx context.Context) ([]*model.Property, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find properties")
	}
	defer cursor.Close(ctx)

	properties := []*model.Property{}
	if err = cursor.All(ctx, &properties); err != nil {
		return nil, errors.Wrap(err, "failed to decode properties")
	}
	return properties, nil
}

func (r *mongoPropertyRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(propertieserrors.ErrInvalidID, "%s", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return errors.Wrap(err, "failed to delete property")
	}

	if result.DeletedCount == 0 {
		return propertieserrors.ErrNotFound
	}
	return nil
}

func (r *mongoPropertyRepository) UpdateAverageRating(ctx context.Context, id string, average float64) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(propertieserrors.ErrInvalidID, "%s", id)
	}

	update := bson.M{
		"$set": bson.M{
			"average_rating": average,
			"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return errors.Wrap(err, "failed to update property rating")
	}

	if result.MatchedCount == 0 {
		return propertieserrors.ErrNotFound
	}
	return nil
}
