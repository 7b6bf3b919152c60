package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/alanyoungcy/marketdash/internal/domain"
	"github.com/alanyoungcy/marketdash/internal/platform/marketapi"
)

// CatalogSource fetches the category list and aggregate statistics.
type CatalogSource interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

var _ CatalogSource = (*marketapi.Client)(nil)

// DefaultCatalogTTL is how long categories and stats stay cached.
const DefaultCatalogTTL = 5 * time.Minute

// CatalogService reads categories and stats through an optional cache.
// Concurrent identical fetches share one upstream request.
type CatalogService struct {
	source      CatalogSource
	cache       domain.CatalogCache
	ttl         time.Duration
	displayName func(code string) string
	group       singleflight.Group
	logger      *slog.Logger
}

// NewCatalogService creates a CatalogService. cache may be nil. displayName,
// when non-nil, fills in categories the API returns without a display name.
func NewCatalogService(
	source CatalogSource,
	cache domain.CatalogCache,
	ttl time.Duration,
	displayName func(code string) string,
	logger *slog.Logger,
) *CatalogService {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogService{
		source:      source,
		cache:       cache,
		ttl:         ttl,
		displayName: displayName,
		logger:      logger.With(slog.String("component", "catalog_service")),
	}
}

// Categories returns the category list, from cache when possible. Upstream
// errors are returned unchanged.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	if s.cache != nil {
		cats, err := s.cache.GetCategories(ctx)
		if err == nil {
			return s.named(cats), nil
		}
		s.cacheFailed(ctx, "get categories", err)
	}

	v, err := s.shared(ctx, "categories", func(ctx context.Context) (any, error) {
		cats, err := s.source.Categories(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetCategories(ctx, cats, s.ttl); err != nil {
				s.cacheFailed(ctx, "set categories", err)
			}
		}
		return cats, nil
	})
	if err != nil {
		return nil, err
	}
	return s.named(v.([]domain.Category)), nil
}

// Stats returns aggregate market statistics, from cache when possible.
func (s *CatalogService) Stats(ctx context.Context) (domain.Stats, error) {
	if s.cache != nil {
		st, err := s.cache.GetStats(ctx)
		if err == nil {
			return st, nil
		}
		s.cacheFailed(ctx, "get stats", err)
	}

	v, err := s.shared(ctx, "stats", func(ctx context.Context) (any, error) {
		st, err := s.source.Stats(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.SetStats(ctx, st, s.ttl); err != nil {
				s.cacheFailed(ctx, "set stats", err)
			}
		}
		return st, nil
	})
	if err != nil {
		return domain.Stats{}, err
	}
	return v.(domain.Stats), nil
}

// shared runs fetch once for all concurrent callers of key. The fetch gets a
// context that keeps the caller's values but not its cancellation, so one
// caller giving up does not fail the others; each caller still returns as
// soon as its own ctx is done.
func (s *CatalogService) shared(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return fetch(detached)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// named returns a copy of cats with missing display names filled in.
func (s *CatalogService) named(cats []domain.Category) []domain.Category {
	out := make([]domain.Category, len(cats))
	copy(out, cats)
	if s.displayName == nil {
		return out
	}
	for i := range out {
		if out[i].DisplayName == "" {
			out[i].DisplayName = s.displayName(out[i].Name)
		}
	}
	return out
}

// cacheFailed logs cache errors other than a plain miss. The cache is
// best-effort and never fails a read.
func (s *CatalogService) cacheFailed(ctx context.Context, op string, err error) {
	if errors.Is(err, domain.ErrCacheMiss) {
		s.logger.DebugContext(ctx, "catalog_service: cache miss", slog.String("op", op))
		return
	}
	s.logger.WarnContext(ctx, "catalog_service: cache "+op+" failed",
		slog.String("error", err.Error()),
	)
}
