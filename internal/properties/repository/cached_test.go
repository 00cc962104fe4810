package repository

import (
	"context"
	"testing"
	"time"

	"rentals/pkg/logger"
	"rentals/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepository struct {
	properties []*model.Property
	findAll    int
	findByID   int
}

func (r *countingRepository) Create(_ context.Context, p *model.Property) error {
	p.ID = "new"
	r.properties = append([]*model.Property{p}, r.properties...)
	return nil
}

func (r *countingRepository) FindByID(_ context.Context, id string) (*model.Property, error) {
	r.findByID++
	for _, p := range r.properties {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *countingRepository) FindAll(context.Context) ([]*model.Property, error) {
	r.findAll++
	out := make([]*model.Property, len(r.properties))
	copy(out, r.properties)
	return out, nil
}

func (r *countingRepository) Delete(_ context.Context, id string) error {
	for i, p := range r.properties {
		if p.ID == id {
			r.properties = append(r.properties[:i], r.properties[i+1:]...)
			break
		}
	}
	return nil
}

func (r *countingRepository) UpdateAverageRating(_ context.Context, id string, average float64) error {
	for _, p := range r.properties {
		if p.ID == id {
			p.AverageRating = &average
		}
	}
	return nil
}

func newCached(t *testing.T, inner PropertyRepository) *CachedPropertyRepository {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
	c := NewCachedPropertyRepository(inner, time.Minute, 100, log)
	t.Cleanup(c.Stop)
	return c
}

func TestCachedRepository_ListServedFromCache(t *testing.T) {
	inner := &countingRepository{properties: []*model.Property{{ID: "a", Title: "Loft"}}}
	repo := newCached(t, inner)
	ctx := context.Background()

	first, err := repo.FindAll(ctx)
	require.NoError(t, err)
	second, err := repo.FindAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.findAll)
	assert.Equal(t, first, second)

	second[0].Title = "mutated by caller"
	third, _ := repo.FindAll(ctx)
	assert.Equal(t, "Loft", third[0].Title)
}

func TestCachedRepository_WritesInvalidate(t *testing.T) {
	inner := &countingRepository{properties: []*model.Property{{ID: "a"}}}
	repo := newCached(t, inner)
	ctx := context.Background()

	_, _ = repo.FindAll(ctx)
	require.NoError(t, repo.Create(ctx, &model.Property{Title: "Cabin"}))
	list, _ := repo.FindAll(ctx)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, inner.findAll)

	_, _ = repo.FindByID(ctx, "a")
	require.NoError(t, repo.UpdateAverageRating(ctx, "a", 4))
	p, _ := repo.FindByID(ctx, "a")
	require.NotNil(t, p.AverageRating)
	assert.InDelta(t, 4.0, *p.AverageRating, 1e-9)
	assert.Equal(t, 2, inner.findByID)

	require.NoError(t, repo.Delete(ctx, "a"))
	list, _ = repo.FindAll(ctx)
	assert.Len(t, list, 1)
	assert.Equal(t, 3, inner.findAll)
}
