package internal

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedObservation struct {
	op  string
	d   time.Duration
	err error
}

type recordingObserver struct {
	seen []recordedObservation
}

func (r *recordingObserver) ObserveDuration(op string, d time.Duration, err error) {
	r.seen = append(r.seen, recordedObservation{op, d, err})
}

func TestWithTiming(t *testing.T) {
	clk := quartz.NewMock(t)
	obs := &recordingObserver{}
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug")
	require.NoError(t, err)

	boom := errors.New("boom")
	op := WithTiming(logger, obs, clk, "slow_op", func(ctx context.Context, n int) (int, error) {
		clk.Advance(1500 * time.Millisecond).MustWait(ctx)
		if n < 0 {
			return 0, boom
		}
		return n * 2, nil
	})

	v, err := op(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = op(context.Background(), -1)
	require.ErrorIs(t, err, boom)

	require.Len(t, obs.seen, 2)
	assert.Equal(t, recordedObservation{"slow_op", 1500 * time.Millisecond, nil}, obs.seen[0])
	assert.Equal(t, boom, obs.seen[1].err)
	assert.Contains(t, buf.String(), "op=slow_op")
	assert.Contains(t, buf.String(), "seconds=1.5")
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "chatty")
	require.ErrorIs(t, err, ErrConfiguration)
}
