package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

type stubCatalogSource struct {
	categoryCalls atomic.Int32
	statsCalls    atomic.Int32
	categories    []domain.Category
	stats         domain.Stats
	err           error
	gate          chan struct{}
	statsGate     chan struct{}
}

func waitGate(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubCatalogSource) Categories(ctx context.Context) ([]domain.Category, error) {
	s.categoryCalls.Add(1)
	if err := waitGate(ctx, s.gate); err != nil {
		return nil, err
	}
	return s.categories, s.err
}

func (s *stubCatalogSource) Stats(ctx context.Context) (domain.Stats, error) {
	s.statsCalls.Add(1)
	if err := waitGate(ctx, s.statsGate); err != nil {
		return domain.Stats{}, err
	}
	return s.stats, s.err
}

type memoryCatalogCache struct {
	mu         sync.Mutex
	categories []domain.Category
	stats      *domain.Stats
	ttl        time.Duration
	failGet    error
	failSet    error
}

func (m *memoryCatalogCache) GetCategories(context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	if m.categories == nil {
		return nil, domain.ErrCacheMiss
	}
	return m.categories, nil
}

func (m *memoryCatalogCache) SetCategories(_ context.Context, c []domain.Category, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.categories, m.ttl = c, ttl
	return nil
}

func (m *memoryCatalogCache) GetStats(context.Context) (domain.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return domain.Stats{}, m.failGet
	}
	if m.stats == nil {
		return domain.Stats{}, domain.ErrCacheMiss
	}
	return *m.stats, nil
}

func (m *memoryCatalogCache) SetStats(_ context.Context, s domain.Stats, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.stats, m.ttl = &s, ttl
	return nil
}

var sampleCategories = []domain.Category{
	{Name: "politics", DisplayName: "政治", Count: 10},
	{Name: "weather", Count: 2},
}

func TestCategoriesReadThroughCache(t *testing.T) {
	src := &stubCatalogSource{categories: sampleCategories}
	cache := &memoryCatalogCache{}
	svc := NewCatalogService(src, cache, time.Minute, nil, discardLogger())
	ctx := context.Background()

	first, err := svc.Categories(ctx)
	require.NoError(t, err)
	second, err := svc.Categories(ctx)
	require.NoError(t, err)

	assert.Equal(t, sampleCategories, first)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, src.categoryCalls.Load())
	assert.Equal(t, time.Minute, cache.ttl)
}

func TestCategoriesFillsMissingDisplayNames(t *testing.T) {
	src := &stubCatalogSource{categories: sampleCategories}
	svc := NewCatalogService(src, nil, 0, func(code string) string { return "<" + code + ">" }, discardLogger())

	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "政治", got[0].DisplayName)
	assert.Equal(t, "<weather>", got[1].DisplayName)
	assert.Empty(t, sampleCategories[1].DisplayName, "source slice is not modified")
}

func TestCatalogCacheFailuresAreBypassed(t *testing.T) {
	src := &stubCatalogSource{stats: domain.Stats{TotalMarkets: 7}}
	cache := &memoryCatalogCache{failGet: errors.New("redis down"), failSet: errors.New("redis down")}
	svc := NewCatalogService(src, cache, time.Minute, nil, discardLogger())

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, st.TotalMarkets)
}

func TestCatalogUpstreamErrorIsReturnedUnchanged(t *testing.T) {
	apiErr := domain.NewHTTPError(502, "")
	svc := NewCatalogService(&stubCatalogSource{err: apiErr}, &memoryCatalogCache{}, time.Minute, nil, discardLogger())

	_, err := svc.Stats(context.Background())
	assert.Same(t, apiErr, err)
	_, err = svc.Categories(context.Background())
	assert.Same(t, apiErr, err)
}

func TestConcurrentCategoryFetchesAreCollapsed(t *testing.T) {
	src := &stubCatalogSource{categories: sampleCategories, gate: make(chan struct{})}
	svc := NewCatalogService(src, nil, time.Minute, nil, discardLogger())

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan []domain.Category, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cats, err := svc.Categories(context.Background())
			assert.NoError(t, err)
			results <- cats
		}()
	}

	require.Eventually(t, func() bool { return src.categoryCalls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()
	close(results)

	assert.EqualValues(t, 1, src.categoryCalls.Load())
	for cats := range results {
		assert.Len(t, cats, 2)
	}
}

func TestCanceledCallerDoesNotFailSharedCategoryFetch(t *testing.T) {
	src := &stubCatalogSource{categories: sampleCategories, gate: make(chan struct{})}
	cache := &memoryCatalogCache{}
	svc := NewCatalogService(src, cache, time.Minute, nil, discardLogger())

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Categories(firstCtx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return src.categoryCalls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		cats []domain.Category
		err  error
	}
	second := make(chan result, 1)
	go func() {
		cats, err := svc.Categories(context.Background())
		second <- result{cats, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(src.gate)
	select {
	case r := <-second:
		require.NoError(t, r.err)
		assert.Len(t, r.cats, 2)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
	assert.EqualValues(t, 1, src.categoryCalls.Load())

	cats, err := cache.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestCanceledCallerDoesNotFailSharedStatsFetch(t *testing.T) {
	src := &stubCatalogSource{stats: domain.Stats{TotalMarkets: 9}, statsGate: make(chan struct{})}
	svc := NewCatalogService(src, nil, time.Minute, nil, discardLogger())

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Stats(firstCtx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return src.statsCalls.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan domain.Stats, 1)
	go func() {
		st, err := svc.Stats(context.Background())
		assert.NoError(t, err)
		second <- st
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(src.statsGate)
	select {
	case st := <-second:
		assert.Equal(t, 9, st.TotalMarkets)
	case <-time.After(time.Second):
		t.Fatal("second caller did not return")
	}
	assert.EqualValues(t, 1, src.statsCalls.Load())
}
