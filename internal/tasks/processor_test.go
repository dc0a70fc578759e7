package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	calls  int
	minAge time.Duration
	err    error
}

func (f *fakeCollector) CollectOrphanResumes(_ context.Context, minAge time.Duration) (int, error) {
	f.calls++
	f.minAge = minAge
	return 2, f.err
}

type fakeWarmer struct{ calls int }

func (f *fakeWarmer) WarmCaches(context.Context) error {
	f.calls++
	return nil
}

func TestHandleDispatchesByType(t *testing.T) {
	collector := &fakeCollector{}
	warmer := &fakeWarmer{}
	p := NewProcessor(collector, warmer, time.Hour, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, p.Handle(ctx, redis.XMessage{ID: "1-0", Values: map[string]any{"type": TypeResumeGC}}))
	assert.Equal(t, 1, collector.calls)
	assert.Equal(t, time.Hour, collector.minAge)

	require.NoError(t, p.Handle(ctx, redis.XMessage{ID: "2-0", Values: map[string]any{"type": TypeCacheWarm}}))
	assert.Equal(t, 1, warmer.calls)

	require.NoError(t, p.Handle(ctx, redis.XMessage{ID: "3-0", Values: map[string]any{"type": "unknown"}}))
	assert.Equal(t, 1, collector.calls)
	assert.Equal(t, 1, warmer.calls)
}

func TestHandleReturnsTaskErrors(t *testing.T) {
	collector := &fakeCollector{err: errors.New("list failed")}
	p := NewProcessor(collector, &fakeWarmer{}, time.Minute, zerolog.Nop())

	err := p.Handle(context.Background(), redis.XMessage{Values: map[string]any{"type": TypeResumeGC}})
	assert.ErrorContains(t, err, "resume gc: list failed")
}
