package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/go-kit/log"
)

const (
	listingCacheName = "listing"
	tableCacheName   = "table"
)

// ListingLoader fetches a fresh endpoint listing.
type ListingLoader func(ctx context.Context) (*Listing, error)

// Transformer turns a non-empty listing into a table.
type Transformer func(*Listing) *Table

type CacheOptions struct {
	TTL      time.Duration
	Clock    quartz.Clock
	Metrics  CacheMetrics
	Observer DurationObserver
	Logger   log.Logger
}

// EndpointCache memoizes the listing fetch and the table transform for one
// TTL window each. InvalidateAll is the only way to drop them early.
type EndpointCache struct {
	listing *Memo[struct{}, *Listing]
	table   *Memo[*Listing, *Table]
	metrics CacheMetrics
}

func NewEndpointCache(fetch ListingLoader, transform Transformer, opts CacheOptions) *EndpointCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Metrics == nil {
		opts.Metrics = NoopMetrics{}
	}
	if opts.Observer == nil {
		opts.Observer = NoopMetrics{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}

	fetchOp := WithTiming(opts.Logger, opts.Observer, opts.Clock, "list_endpoints",
		func(ctx context.Context, _ struct{}) (*Listing, error) { return fetch(ctx) })
	transformOp := WithTiming(opts.Logger, opts.Observer, opts.Clock, "to_table",
		func(_ context.Context, l *Listing) (*Table, error) { return transform(l), nil })

	return &EndpointCache{
		listing: NewMemo(listingCacheName, opts.TTL, opts.Clock, opts.Metrics,
			func(struct{}) string { return listingCacheName }, fetchOp),
		table: NewMemo(tableCacheName, opts.TTL, opts.Clock, opts.Metrics,
			func(l *Listing) string { return fmt.Sprintf("%p", l) }, transformOp),
		metrics: opts.Metrics,
	}
}

func (c *EndpointCache) GetListing(ctx context.Context) (*Listing, error) {
	return c.listing.Get(ctx, struct{}{})
}

// GetTable is keyed by the listing's identity, so a new fetch always
// yields a new table.
func (c *EndpointCache) GetTable(ctx context.Context, l *Listing) (*Table, error) {
	return c.table.Get(ctx, l)
}

func (c *EndpointCache) InvalidateAll() {
	c.listing.Invalidate()
	c.table.Invalidate()
	c.metrics.Invalidated()
}

// ListingAge is the age of the cached listing, if any.
func (c *EndpointCache) ListingAge() (time.Duration, bool) {
	return c.listing.Age()
}

// View produces one render pass. An empty listing short-circuits to the
// empty state and never reaches the transformer.
func (c *EndpointCache) View(ctx context.Context) (*View, error) {
	l, err := c.GetListing(ctx)
	if err != nil {
		return nil, err
	}
	if len(l.Endpoints) == 0 {
		return &View{Listing: l, Empty: true}, nil
	}
	t, err := c.GetTable(ctx, l)
	if err != nil {
		return nil, err
	}
	return &View{Listing: l, Table: t}, nil
}

// FetchWith builds a ListingLoader that asks p for a session on every fetch.
func FetchWith(p *SessionProvider, f *Fetcher) ListingLoader {
	return func(ctx context.Context) (*Listing, error) {
		sess, err := p.Session(ctx)
		if err != nil {
			return nil, err
		}
		return f.ListEndpoints(ctx, sess)
	}
}
