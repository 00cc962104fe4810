package repository

import (
	"context"
	"time"

	"rentals/pkg/logger"
	"rentals/pkg/model"

	"github.com/karlseguin/ccache/v3"
)

const allPropertiesKey = "properties:all"

// CachedPropertyRepository serves the public listing and single-property reads
// from an in-process LRU. Every write drops the listing and the touched entry.
type CachedPropertyRepository struct {
	next PropertyRepository
	list *ccache.Cache[[]*model.Property]
	byID *ccache.Cache[*model.Property]
	ttl  time.Duration
	log  *logger.Logger
}

func NewCachedPropertyRepository(next PropertyRepository, ttl time.Duration, maxSize int64, log *logger.Logger) *CachedPropertyRepository {
	return &CachedPropertyRepository{
		next: next,
		list: ccache.New(ccache.Configure[[]*model.Property]().MaxSize(1)),
		byID: ccache.New(ccache.Configure[*model.Property]().MaxSize(maxSize)),
		ttl:  ttl,
		log:  log,
	}
}

func (r *CachedPropertyRepository) Create(ctx context.Context, property *model.Property) error {
	if err := r.next.Create(ctx, property); err != nil {
		return err
	}
	r.list.Delete(allPropertiesKey)
	return nil
}

func (r *CachedPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	if item := r.byID.Get(id); item != nil && !item.Expired() {
		return copyProperty(item.Value()), nil
	}

	property, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.byID.Set(id, copyProperty(property), r.ttl)
	return property, nil
}

func (r *CachedPropertyRepository) FindAll(ctx context.Context) ([]*model.Property, error) {
	if item := r.list.Get(allPropertiesKey); item != nil && !item.Expired() {
		r.log.Debug("property listing served from cache", "count", len(item.Value()))
		return copyProperties(item.Value()), nil
	}

	properties, err := r.next.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	r.list.Set(allPropertiesKey, copyProperties(properties), r.ttl)
	return properties, nil
}

func (r *CachedPropertyRepository) Delete(ctx context.Context, id string) error {
	err := r.next.Delete(ctx, id)
	r.invalidate(id)
	return err
}

func (r *CachedPropertyRepository) UpdateAverageRating(ctx context.Context, id string, average float64) error {
	err := r.next.UpdateAverageRating(ctx, id, average)
	r.invalidate(id)
	return err
}

// Invalidate drops cached state for id, for callers that changed it inside a
// transaction whose commit happened after the repository write.
func (r *CachedPropertyRepository) Invalidate(id string) {
	r.invalidate(id)
}

func (r *CachedPropertyRepository) invalidate(id string) {
	r.list.Delete(allPropertiesKey)
	r.byID.Delete(id)
}

func (r *CachedPropertyRepository) Stop() {
	r.list.Stop()
	r.byID.Stop()
}

// Callers own what they get back; the cache keeps its own copies.
func copyProperty(p *model.Property) *model.Property {
	c := *p
	if p.Amenities != nil {
		c.Amenities = append([]string(nil), p.Amenities...)
	}
	if p.AverageRating != nil {
		avg := *p.AverageRating
		c.AverageRating = &avg
	}
	return &c
}

func copyProperties(ps []*model.Property) []*model.Property {
	out := make([]*model.Property, len(ps))
	for i, p := range ps {
		out[i] = copyProperty(p)
	}
	return out
}
