package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/singalong/server/internal/domain"
	"github.com/singalong/server/pkg/ytsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls   atomic.Int32
	queries chan string
	release chan struct{}
	results []ytsearch.Result
	err     error
}

func (p *fakeProvider) Search(ctx context.Context, query string) ([]ytsearch.Result, error) {
	p.calls.Add(1)
	if p.queries != nil {
		p.queries <- query
	}
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.results, p.err
}

type fakeCache struct {
	mu     sync.Mutex
	data   map[string][]domain.Item
	err    error
	stores int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]domain.Item)}
}

func (c *fakeCache) GetResults(_ context.Context, query string) ([]domain.Item, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	items, ok := c.data[query]
	return items, ok, nil
}

func (c *fakeCache) SetResults(_ context.Context, query string, items []domain.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores++
	if c.err != nil {
		return c.err
	}
	c.data[query] = items
	return nil
}

func makeResults(n int) []ytsearch.Result {
	res := make([]ytsearch.Result, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, ytsearch.Result{
			VideoId:      fmt.Sprintf("v%d", i),
			Title:        fmt.Sprintf("Song %d", i),
			AuthorName:   "Sing King",
			Duration:     "3:00",
			ThumbnailUrl: fmt.Sprintf("https://i.ytimg.com/vi/v%d/hqdefault.jpg", i),
		})
	}
	return res
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "queen karaoke", BuildQuery(&SearchParams{Text: "queen", KaraokeOnly: true}))
	assert.Equal(t, "queen", BuildQuery(&SearchParams{Text: " queen ", KaraokeOnly: false}))
}

func TestSearchMapsAndCapsResults(t *testing.T) {
	provider := &fakeProvider{results: makeResults(20)}
	s := NewService(provider, nil, &Config{}, slog.Default())

	items, err := s.Search(context.Background(), &SearchParams{Text: "queen", KaraokeOnly: true})
	require.NoError(t, err)
	require.Len(t, items, MaxResults)
	assert.Equal(t, domain.Item{
		ExternalId:   "v0",
		Title:        "Song 0",
		Author:       "Sing King",
		Duration:     "3:00",
		ThumbnailRef: "https://i.ytimg.com/vi/v0/hqdefault.jpg",
	}, items[0])
	assert.Equal(t, "v14", items[14].ExternalId)
}

func TestSearchEmptyResults(t *testing.T) {
	s := NewService(&fakeProvider{}, nil, &Config{}, slog.Default())

	items, err := s.Search(context.Background(), &SearchParams{Text: "zzzz"})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSearchProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection reset")}
	s := NewService(provider, nil, &Config{}, slog.Default())

	_, err := s.Search(context.Background(), &SearchParams{Text: "queen"})
	assert.ErrorIs(t, err, ErrLookupFailure)
}

func TestSearchTimeout(t *testing.T) {
	provider := &fakeProvider{release: make(chan struct{})}
	s := NewService(provider, nil, &Config{Timeout: 20 * time.Millisecond}, slog.Default())

	_, err := s.Search(context.Background(), &SearchParams{Text: "queen"})
	assert.ErrorIs(t, err, ErrLookupFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSearchUsesCache(t *testing.T) {
	provider := &fakeProvider{results: makeResults(2)}
	cache := newFakeCache()
	s := NewService(provider, cache, &Config{}, slog.Default())
	ctx := context.Background()
	params := &SearchParams{Text: "queen", KaraokeOnly: true}

	first, err := s.Search(ctx, params)
	require.NoError(t, err)
	second, err := s.Search(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Contains(t, cache.data, "queen karaoke")
}

func TestSearchBypassesBrokenCache(t *testing.T) {
	provider := &fakeProvider{results: makeResults(1)}
	cache := newFakeCache()
	cache.err = errors.New("redis down")
	s := NewService(provider, cache, &Config{}, slog.Default())

	items, err := s.Search(context.Background(), &SearchParams{Text: "queen"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, cache.stores)
}

func TestSearchCoalescesIdenticalQueries(t *testing.T) {
	provider := &fakeProvider{
		results: makeResults(3),
		queries: make(chan string, 10),
		release: make(chan struct{}),
	}
	s := NewService(provider, nil, &Config{}, slog.Default())
	params := &SearchParams{Text: "queen", KaraokeOnly: true}

	var wg sync.WaitGroup
	results := make([][]domain.Item, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = s.Search(context.Background(), params)
	}()
	assert.Equal(t, "queen karaoke", <-provider.queries)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = s.Search(context.Background(), params)
	}()
	// give the second caller time to join the in-flight call
	time.Sleep(20 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestSearchCallerCancellation(t *testing.T) {
	provider := &fakeProvider{release: make(chan struct{})}
	defer close(provider.release)
	s := NewService(provider, nil, &Config{}, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Search(ctx, &SearchParams{Text: "queen"})
	assert.ErrorIs(t, err, ErrLookupFailure)
	assert.ErrorIs(t, err, context.Canceled)
}
