package internal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	fetches    atomic.Int32
	transforms atomic.Int32
	endpoints  []Endpoint
	err        error
}

func (s *countingSource) fetch(context.Context) (*Listing, error) {
	s.fetches.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &Listing{Endpoints: append([]Endpoint(nil), s.endpoints...)}, nil
}

func (s *countingSource) transform(l *Listing) *Table {
	s.transforms.Add(1)
	return ToTable(l, time.UTC)
}

func twoEndpoints() []Endpoint {
	return []Endpoint{
		{Name: "clf-v2", Arn: "arn:aws:sagemaker:us-east-1:123:endpoint/clf-v2", Status: "Creating"},
		{Name: "clf-v1", Arn: "arn:aws:sagemaker:us-east-1:123:endpoint/clf-v1", Status: "InService"},
	}
}

func newTestCache(t *testing.T, src *countingSource, ttl time.Duration) (*EndpointCache, *quartz.Mock) {
	t.Helper()
	clk := quartz.NewMock(t)
	c := NewEndpointCache(src.fetch, src.transform, CacheOptions{TTL: ttl, Clock: clk})
	return c, clk
}

func TestGetListingWithinTTLFetchesOnce(t *testing.T) {
	src := &countingSource{endpoints: twoEndpoints()}
	c, clk := newTestCache(t, src, time.Hour)
	ctx := context.Background()

	first, err := c.GetListing(ctx)
	require.NoError(t, err)

	clk.Advance(10 * time.Minute).MustWait(ctx)

	second, err := c.GetListing(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.fetches.Load())
}

func TestListingExpiresAtTTL(t *testing.T) {
	src := &countingSource{endpoints: twoEndpoints()}
	c, clk := newTestCache(t, src, time.Hour)
	ctx := context.Background()

	_, err := c.GetListing(ctx)
	require.NoError(t, err)

	clk.Advance(time.Hour - time.Second).MustWait(ctx)
	_, err = c.GetListing(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.fetches.Load())

	// now - insertedAt == ttl is already stale
	clk.Advance(time.Second).MustWait(ctx)
	_, err = c.GetListing(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.fetches.Load())
}

func TestInvalidateAllScenario(t *testing.T) {
	src := &countingSource{endpoints: twoEndpoints()}
	c, clk := newTestCache(t, src, 3600*time.Second)
	ctx := context.Background()

	// t=0
	l, err := c.GetListing(ctx)
	require.NoError(t, err)
	require.Len(t, l.Endpoints, 2)

	// t=1000
	clk.Advance(1000 * time.Second).MustWait(ctx)
	cached, err := c.GetListing(ctx)
	require.NoError(t, err)
	assert.Same(t, l, cached)
	assert.Equal(t, int32(1), src.fetches.Load())

	c.InvalidateAll()

	// t=1001
	clk.Advance(time.Second).MustWait(ctx)
	fresh, err := c.GetListing(ctx)
	require.NoError(t, err)
	assert.NotSame(t, l, fresh)
	assert.Equal(t, int32(2), src.fetches.Load())

	_, err = c.GetListing(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.fetches.Load())
}

func TestGetTableMemoizedPerListing(t *testing.T) {
	src := &countingSource{endpoints: twoEndpoints()}
	c, _ := newTestCache(t, src, time.Hour)
	ctx := context.Background()

	l, err := c.GetListing(ctx)
	require.NoError(t, err)

	t1, err := c.GetTable(ctx, l)
	require.NoError(t, err)
	t2, err := c.GetTable(ctx, l)
	require.NoError(t, err)
	assert.Same(t, t1, t2)
	assert.Equal(t, int32(1), src.transforms.Load())

	c.InvalidateAll()
	l2, err := c.GetListing(ctx)
	require.NoError(t, err)

	t3, err := c.GetTable(ctx, l2)
	require.NoError(t, err)
	assert.NotSame(t, t1, t3)
	assert.Equal(t, int32(2), src.transforms.Load())
}

func TestViewEmptyListingSkipsTransformer(t *testing.T) {
	src := &countingSource{}
	c, _ := newTestCache(t, src, time.Hour)

	v, err := c.View(context.Background())
	require.NoError(t, err)

	assert.True(t, v.Empty)
	assert.Nil(t, v.Table)
	assert.Equal(t, int32(0), src.transforms.Load())
}

func TestViewBuildsTable(t *testing.T) {
	src := &countingSource{endpoints: twoEndpoints()}
	c, _ := newTestCache(t, src, time.Hour)

	v, err := c.View(context.Background())
	require.NoError(t, err)

	assert.False(t, v.Empty)
	require.NotNil(t, v.Table)
	assert.Len(t, v.Table.Rows, 2)
	assert.Equal(t, "clf-v2", v.Table.Rows[0][ColumnEndpointName])
}

func TestFetchErrorIsNotCached(t *testing.T) {
	boom := errors.New("boom")
	src := &countingSource{err: boom}
	c, _ := newTestCache(t, src, time.Hour)
	ctx := context.Background()

	_, err := c.GetListing(ctx)
	require.ErrorIs(t, err, boom)

	src.err = nil
	src.endpoints = twoEndpoints()
	l, err := c.GetListing(ctx)
	require.NoError(t, err)
	assert.Len(t, l.Endpoints, 2)
	assert.Equal(t, int32(2), src.fetches.Load())
}

func TestInvalidateDuringFetchDropsResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var fetches atomic.Int32

	fetch := func(context.Context) (*Listing, error) {
		if fetches.Add(1) == 1 {
			close(started)
			<-release
		}
		return &Listing{Endpoints: twoEndpoints()}, nil
	}
	c := NewEndpointCache(fetch, func(l *Listing) *Table { return ToTable(l, time.UTC) },
		CacheOptions{TTL: time.Hour, Clock: quartz.NewMock(t)})
	ctx := context.Background()

	done := make(chan *Listing)
	go func() {
		l, _ := c.GetListing(ctx)
		done <- l
	}()

	<-started
	c.InvalidateAll()
	close(release)
	stale := <-done
	require.NotNil(t, stale)

	fresh, err := c.GetListing(ctx)
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh)
	assert.Equal(t, int32(2), fetches.Load())
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	var fetches atomic.Int32

	fetch := func(context.Context) (*Listing, error) {
		fetches.Add(1)
		<-release
		return &Listing{Endpoints: twoEndpoints()}, nil
	}
	c := NewEndpointCache(fetch, func(l *Listing) *Table { return ToTable(l, time.UTC) },
		CacheOptions{TTL: time.Hour, Clock: quartz.NewMock(t)})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetListing(context.Background())
			assert.NoError(t, err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), fetches.Load())
}

func TestCacheMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	src := &countingSource{endpoints: twoEndpoints()}
	c := NewEndpointCache(src.fetch, src.transform, CacheOptions{
		TTL:      time.Hour,
		Clock:    quartz.NewMock(t),
		Metrics:  m,
		Observer: m,
	})
	ctx := context.Background()

	_, err := c.View(ctx)
	require.NoError(t, err)
	_, err = c.View(ctx)
	require.NoError(t, err)
	c.InvalidateAll()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.misses.WithLabelValues(listingCacheName)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.hits.WithLabelValues(listingCacheName)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.misses.WithLabelValues(tableCacheName)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.hits.WithLabelValues(tableCacheName)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invalidations))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}
