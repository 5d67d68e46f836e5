package realtime

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemCounter() *memCounter {
	return &memCounter{counts: make(map[string]int64)}
}

func (m *memCounter) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memCounter) Decr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]--
	return m.counts[key], nil
}

func (m *memCounter) Current(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key], nil
}

func testTracker() *Tracker {
	return &Tracker{Counter: newMemCounter()}
}

func TestApplyPlayIncrements(t *testing.T) {
	tr := testTracker()
	ctx := context.Background()

	count, err := tr.Apply(ctx, "u1", ActionPlay)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = tr.Apply(ctx, "u1", ActionPlay)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestApplyPauseDecrements(t *testing.T) {
	tr := testTracker()
	ctx := context.Background()

	_, err := tr.Apply(ctx, "u1", ActionPlay)
	require.NoError(t, err)
	_, err = tr.Apply(ctx, "u1", ActionPlay)
	require.NoError(t, err)

	count, err := tr.Apply(ctx, "u1", ActionPause)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestApplyPauseClampsAtZero(t *testing.T) {
	tr := testTracker()
	ctx := context.Background()

	// Pause with no matching play must not go negative.
	count, err := tr.Apply(ctx, "u1", ActionPause)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// Repeated stray pauses stay clamped.
	count, err = tr.Apply(ctx, "u1", ActionPause)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// The next play counts from zero, not from a negative backlog.
	count, err = tr.Apply(ctx, "u1", ActionPlay)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestApplyPlayPauseRoundTrip(t *testing.T) {
	tr := testTracker()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := tr.Apply(ctx, "u1", ActionPlay)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := tr.Apply(ctx, "u1", ActionPause)
		require.NoError(t, err)
	}

	count, err := tr.ActiveDevices(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestApplyUnknownActionReads(t *testing.T) {
	tr := testTracker()
	ctx := context.Background()

	_, err := tr.Apply(ctx, "u1", ActionPlay)
	require.NoError(t, err)

	count, err := tr.Apply(ctx, "u1", "seek")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// A read must not move the counter.
	count, err = tr.ActiveDevices(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestActiveDevicesUnknownUser(t *testing.T) {
	tr := testTracker()

	count, err := tr.ActiveDevices(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCountersIsolatedPerUser(t *testing.T) {
	tr := testTracker()
	ctx := context.Background()

	_, err := tr.Apply(ctx, "u1", ActionPlay)
	require.NoError(t, err)

	count, err := tr.ActiveDevices(ctx, "u2")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestApplyConcurrentPlays(t *testing.T) {
	tr := testTracker()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tr.Apply(ctx, "u1", ActionPlay)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := tr.ActiveDevices(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 50, count)
}
