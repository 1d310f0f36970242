package internal

import (
	"context"

	"github.com/coder/quartz"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// LoadFunc is a keyed, blocking operation that can be wrapped and memoized.
type LoadFunc[K, V any] func(ctx context.Context, key K) (V, error)

// WithTiming returns op instrumented with a debug log line and a duration observation.
func WithTiming[K, V any](logger log.Logger, obs DurationObserver, clock quartz.Clock, name string, op LoadFunc[K, V]) LoadFunc[K, V] {
	return func(ctx context.Context, key K) (V, error) {
		start := clock.Now()
		v, err := op(ctx, key)
		elapsed := clock.Now().Sub(start)

		obs.ObserveDuration(name, elapsed, err)
		level.Debug(logger).Log("msg", "operation finished", "op", name, "seconds", elapsed.Seconds(), "err", err)
		return v, err
	}
}
