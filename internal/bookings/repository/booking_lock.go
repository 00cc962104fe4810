package repository

import (
	"context"
	"time"

	bookingserrors "rentals/internal/bookings/errors"
	"rentals/pkg/config"
	mongotx "rentals/pkg/db/mongo"
	"rentals/pkg/model"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Booking_locks"

// BookingLockRepository provides operations for advisory locks
type BookingLockRepository interface {
	Acquire(ctx context.Context, lock *model.BookingLock) error
	Release(ctx context.Context, lock *model.BookingLock) error
}

type mongoBookingLockRepository struct {
	collection   *mongo.Collection
	writeTimeout time.Duration
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return newMongoBookingLockRepository(db, cfg.WriteTimeout)
}

func newMongoBookingLockRepository(db *mongo.Database, writeTimeout time.Duration) *mongoBookingLockRepository {
	return &mongoBookingLockRepository{
		collection:   db.Collection(LockCollectionName),
		writeTimeout: writeTimeout,
	}
}

// Acquire inserts the lock document; ErrLockHeld means another holder owns it.
func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	lock.CreatedAt = time.Now().UTC()

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return errors.Wrap(err, "failed to acquire booking lock")
	}

	// The TTL monitor only sweeps once a minute, so an expired lock can still
	// be present. Take it over once before reporting the lock as held.
	stolen, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lock.ID,
		"expires_at": bson.M{"$lt": lock.CreatedAt},
	})
	if err != nil {
		return errors.Wrap(err, "failed to clear expired booking lock")
	}
	if stolen.DeletedCount == 0 {
		return bookingserrors.ErrLockHeld
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return errors.Wrap(err, "failed to acquire booking lock")
	}
	return nil
}

// Release deletes the lock only while lock.Owner still holds it. ErrLockLost
// means it expired and another request took it over.
func (r *mongoBookingLockRepository) Release(ctx context.Context, lock *model.BookingLock) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "owner": lock.Owner})
	if err != nil {
		return errors.Wrap(err, "failed to release booking lock")
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrLockLost
	}
	return nil
}
