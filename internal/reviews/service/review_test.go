package service

import (
	"context"
	"testing"

	propertieserrors "rentals/internal/properties/errors"
	reviewserrors "rentals/internal/reviews/errors"
	"rentals/internal/reviews/validator"
	"rentals/pkg/config"
	mongotx "rentals/pkg/db/mongo"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/events"
	"rentals/pkg/logger"
	"rentals/pkg/model"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	propertyID = "507f1f77bcf86cd799439011"
	tenantID   = "507f1f77bcf86cd799439031"
	tenant2ID  = "507f1f77bcf86cd799439032"
	ownerID    = "507f1f77bcf86cd799439021"
)

// memoryReviews is an in-memory ReviewRepository. A failed transaction rolls
// back the reviews inserted during it. transientAborts makes ExecuteTransaction
// discard that many successful attempts and run fn again, as the driver does
// after a TransientTransactionError.
type memoryReviews struct {
	reviews         []*model.Review
	createErr       error
	transientAborts int
	createCalls     int
	presetIDs       []string
}

func (m *memoryReviews) Create(_ context.Context, review *model.Review) error {
	m.createCalls++
	if review.ID != "" {
		m.presetIDs = append(m.presetIDs, review.ID)
	}
	if m.createErr != nil {
		return m.createErr
	}
	review.ID = "r" + review.UserID
	m.reviews = append(m.reviews, review)
	return nil
}

func (m *memoryReviews) FindByUserAndProperty(_ context.Context, userID, pid string) (*model.Review, error) {
	for _, r := range m.reviews {
		if r.UserID == userID && r.PropertyID == pid {
			return r, nil
		}
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *memoryReviews) FindByUser(_ context.Context, userID string) ([]*model.Review, error) {
	out := []*model.Review{}
	for _, r := range m.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryReviews) FindByProperty(_ context.Context, pid string) ([]*model.Review, error) {
	out := []*model.Review{}
	for _, r := range m.reviews {
		if r.PropertyID == pid {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryReviews) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	for {
		snapshot := append([]*model.Review(nil), m.reviews...)
		if err := fn(mongo.NewSessionContext(ctx, nil)); err != nil {
			m.reviews = snapshot
			return err
		}
		if m.transientAborts == 0 {
			return nil
		}
		m.transientAborts--
		m.reviews = snapshot
	}
}

type mockPropertyStore struct {
	averages    map[string]float64
	updateErr   error
	invalidated []string
}

func (m *mockPropertyStore) FindByID(_ context.Context, id string) (*model.Property, error) {
	if id != propertyID {
		return nil, propertieserrors.ErrNotFound
	}
	p := &model.Property{ID: id, OwnerID: ownerID}
	if avg, ok := m.averages[id]; ok {
		p.AverageRating = &avg
	}
	return p, nil
}

func (m *mockPropertyStore) UpdateAverageRating(_ context.Context, id string, average float64) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if m.averages == nil {
		m.averages = map[string]float64{}
	}
	m.averages[id] = average
	return nil
}

func (m *mockPropertyStore) Invalidate(id string) {
	m.invalidated = append(m.invalidated, id)
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc        ReviewService
	reviews    *memoryReviews
	properties *mockPropertyStore
	publisher  *recordingPublisher
}

func newFixture(t *testing.T, existing ...*model.Review) *fixture {
	t.Helper()
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})

	f := &fixture{
		reviews:    &memoryReviews{reviews: existing},
		properties: &mockPropertyStore{},
		publisher:  &recordingPublisher{},
	}
	f.svc = NewReviewService(f.reviews, f.properties, validator.NewReviewValidator(log), f.publisher, &config.Config{Log: log})
	return f
}

func tenantActor(id string) model.Actor {
	return model.Actor{UserID: id, Role: model.RoleTenant}
}

func TestCreate_RecomputesAverage(t *testing.T) {
	f := newFixture(t,
		&model.Review{ID: "a", PropertyID: propertyID, UserID: "x1", Rating: 4},
		&model.Review{ID: "b", PropertyID: propertyID, UserID: "x2", Rating: 5},
	)

	review, err := f.svc.Create(context.Background(), tenantActor(tenantID), &model.ReviewRequest{PropertyID: propertyID, Rating: 3, Comment: "ok"})
	require.NoError(t, err)

	assert.Equal(t, tenantID, review.UserID)
	assert.InDelta(t, 4.0, f.properties.averages[propertyID], 1e-9)
	assert.Equal(t, []string{propertyID}, f.properties.invalidated)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.ReviewCreated, f.publisher.events[0].Type)
}

func TestCreate_RetriedTransactionInsertsFreshReview(t *testing.T) {
	f := newFixture(t, &model.Review{ID: "a", PropertyID: propertyID, UserID: "x1", Rating: 4})
	f.reviews.transientAborts = 1

	review, err := f.svc.Create(context.Background(), tenantActor(tenantID), &model.ReviewRequest{PropertyID: propertyID, Rating: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, f.reviews.createCalls)
	assert.Empty(t, f.reviews.presetIDs, "insert must never carry an id from an aborted attempt")
	assert.Len(t, f.reviews.reviews, 2)
	assert.Equal(t, "r"+tenantID, review.ID)
	assert.InDelta(t, 3.0, f.properties.averages[propertyID], 1e-9)
	require.Len(t, f.publisher.events, 1)
}

func TestCreate_FirstReviewSetsRating(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), tenantActor(tenantID), &model.ReviewRequest{PropertyID: propertyID, Rating: 5})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, f.properties.averages[propertyID], 1e-9)
}

func TestCreate_Rejections(t *testing.T) {
	previous := &model.Review{ID: "a", PropertyID: propertyID, UserID: tenantID, Rating: 4}

	tests := []struct {
		name     string
		actor    model.Actor
		req      *model.ReviewRequest
		existing []*model.Review
		code     string
	}{
		{"second review by same tenant", tenantActor(tenantID), &model.ReviewRequest{PropertyID: propertyID, Rating: 2}, []*model.Review{previous}, apperrors.CodeDuplicateReview},
		{"owner", model.Actor{UserID: ownerID, Role: model.RoleOwner}, &model.ReviewRequest{PropertyID: propertyID, Rating: 5}, nil, apperrors.CodeRoleViolation},
		{"unknown property", tenantActor(tenantID), &model.ReviewRequest{PropertyID: "507f1f77bcf86cd7994390ff", Rating: 5}, nil, apperrors.CodeNotFound},
		{"rating out of range", tenantActor(tenantID), &model.ReviewRequest{PropertyID: propertyID, Rating: 9}, nil, apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.existing...)

			_, err := f.svc.Create(context.Background(), tt.actor, tt.req)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.Len(t, f.reviews.reviews, len(tt.existing))
			assert.Empty(t, f.properties.averages)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestCreate_UniqueIndexRaceIsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.reviews.createErr = reviewserrors.ErrDuplicate

	_, err := f.svc.Create(context.Background(), tenantActor(tenantID), &model.ReviewRequest{PropertyID: propertyID, Rating: 5})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateReview))
}

func TestCreate_RatingUpdateFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.properties.updateErr = errors.New("write conflict")

	_, err := f.svc.Create(context.Background(), tenantActor(tenantID), &model.ReviewRequest{PropertyID: propertyID, Rating: 5})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
	assert.Empty(t, f.reviews.reviews)
	assert.Empty(t, f.properties.invalidated)
}

func TestCreate_DistinctTenantsBothCount(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), tenantActor(tenantID), &model.ReviewRequest{PropertyID: propertyID, Rating: 2})
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), tenantActor(tenant2ID), &model.ReviewRequest{PropertyID: propertyID, Rating: 5})
	require.NoError(t, err)

	assert.InDelta(t, 3.5, f.properties.averages[propertyID], 1e-9)
}

func TestGetMineAndByProperty(t *testing.T) {
	f := newFixture(t,
		&model.Review{ID: "a", PropertyID: propertyID, UserID: tenantID, Rating: 4},
		&model.Review{ID: "b", PropertyID: propertyID, UserID: tenant2ID, Rating: 5},
	)

	mine, err := f.svc.GetMine(context.Background(), tenantActor(tenantID))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.GetByProperty(context.Background(), propertyID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.GetByProperty(context.Background(), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}
