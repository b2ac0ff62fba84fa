package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/cozyren/catalog-api/internal/domain"
)

// cachedListing serves key from the listing cache and fills it from load on a miss.
// Cache failures are logged and the database answer is returned.
func cachedListing[T any](ctx context.Context, cache ListingCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	hit, err := cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("listing cache read failed")
	}
	if hit {
		return cached, nil
	}

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, key, out); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("listing cache write failed")
	}
	return out, nil
}

// referenceGuard deletes a category or brand only while no product points to it.
type referenceGuard struct {
	kind   string
	exists func(ctx context.Context, id string) (bool, error)
	count  func(ctx context.Context, id string) (int, error)
	remove func(ctx context.Context, id string) error
}

func (g referenceGuard) delete(ctx context.Context, id string) error {
	ok, err := g.exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	n, err := g.count(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return &InUseError{Kind: g.kind, Count: n}
	}
	if err := g.remove(ctx, id); err != nil {
		if errors.Is(err, domain.ErrInUse) {
			// a product was attached between the count and the delete
			n, _ = g.count(ctx, id)
			return &InUseError{Kind: g.kind, Count: n}
		}
		return err
	}
	return nil
}

func invalidateListings(ctx context.Context, cache ListingCache) {
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("listing cache invalidation failed")
	}
}
