package repository

import (
	"context"
	"testing"
	"time"

	reviewserrors "rentals/internal/reviews/errors"
	"rentals/pkg/model"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoReviewRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns generated id", func(mt *mtest.T) {
		repo := newMongoReviewRepository(mt.DB, nil, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		review := &model.Review{PropertyID: "p1", UserID: "u1", Rating: 4}
		require.NoError(mt, repo.Create(context.Background(), review))
		_, err := primitive.ObjectIDFromHex(review.ID)
		assert.NoError(mt, err)
	})

	mt.Run("reinserting after an aborted attempt sends a fresh object id", func(mt *mtest.T) {
		repo := newMongoReviewRepository(mt.DB, nil, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		review := &model.Review{PropertyID: "p1", UserID: "u1", Rating: 4}
		require.NoError(mt, repo.Create(context.Background(), review))
		first := review.ID
		require.NoError(mt, repo.Create(context.Background(), review))
		assert.NotEqual(mt, first, review.ID)

		for i := 0; i < 2; i++ {
			evt := mt.GetStartedEvent()
			require.NotNil(mt, evt)
			require.Equal(mt, "insert", evt.CommandName)
			id := evt.Command.Lookup("documents", "0", "_id")
			assert.Equal(mt, bson.TypeObjectID, id.Type, "_id sent as %s", id.Type)
		}
	})

	mt.Run("unique index violation is a duplicate", func(mt *mtest.T) {
		repo := newMongoReviewRepository(mt.DB, nil, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: rentals.Reviews index: user_id_1_property_id_1",
		}))

		err := repo.Create(context.Background(), &model.Review{PropertyID: "p1", UserID: "u1", Rating: 4})
		assert.True(mt, errors.Is(err, reviewserrors.ErrDuplicate))
	})

	mt.Run("find by user and property not found", func(mt *mtest.T) {
		repo := newMongoReviewRepository(mt.DB, nil, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "rentals.Reviews", mtest.FirstBatch))

		_, err := repo.FindByUserAndProperty(context.Background(), "u1", "p1")
		assert.True(mt, errors.Is(err, reviewserrors.ErrNotFound))
	})

	mt.Run("find by property decodes reviews", func(mt *mtest.T) {
		repo := newMongoReviewRepository(mt.DB, nil, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "rentals.Reviews", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "property_id", Value: "p1"}, {Key: "user_id", Value: "u2"}, {Key: "rating", Value: 5}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "property_id", Value: "p1"}, {Key: "user_id", Value: "u1"}, {Key: "rating", Value: 3}},
		))

		reviews, err := repo.FindByProperty(context.Background(), "p1")
		require.NoError(mt, err)
		require.Len(mt, reviews, 2)
		assert.Equal(mt, 5, reviews[0].Rating)
		assert.Equal(mt, "u1", reviews[1].UserID)
	})

	mt.Run("find by user returns empty slice", func(mt *mtest.T) {
		repo := newMongoReviewRepository(mt.DB, nil, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "rentals.Reviews", mtest.FirstBatch))

		reviews, err := repo.FindByUser(context.Background(), "u1")
		require.NoError(mt, err)
		assert.NotNil(mt, reviews)
		assert.Empty(mt, reviews)
	})
}
