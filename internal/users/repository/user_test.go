package repository

import (
	"context"
	"testing"
	"time"

	userserrors "rentals/internal/users/errors"
	"rentals/pkg/model"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns id", func(mt *mtest.T) {
		repo := newMongoUserRepository(mt.DB, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &model.User{Name: "Asha", Email: "asha@example.com", Role: model.RoleTenant}
		require.NoError(mt, repo.Create(context.Background(), user))
		_, err := primitive.ObjectIDFromHex(user.ID)
		assert.NoError(mt, err)
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := newMongoUserRepository(mt.DB, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: rentals.Users index: email_1",
		}))

		err := repo.Create(context.Background(), &model.User{Email: "asha@example.com"})
		assert.True(mt, errors.Is(err, userserrors.ErrDuplicateEmail))
	})

	mt.Run("find by email keeps hash out of json but decodes it", func(mt *mtest.T) {
		repo := newMongoUserRepository(mt.DB, time.Second, time.Second)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "rentals.Users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "asha@example.com"},
			{Key: "password_hash", Value: "$2a$10$hash"},
			{Key: "role", Value: "owner"},
		}))

		user, err := repo.FindByEmail(context.Background(), "asha@example.com")
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), user.ID)
		assert.Equal(mt, "$2a$10$hash", user.PasswordHash)
		assert.Equal(mt, model.RoleOwner, user.Role)
	})

	mt.Run("find by id unknown", func(mt *mtest.T) {
		repo := newMongoUserRepository(mt.DB, time.Second, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "rentals.Users", mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.True(mt, errors.Is(err, userserrors.ErrNotFound))
	})
}
