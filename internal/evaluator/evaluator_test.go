package evaluator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/examprep/internal/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeKey(t *testing.T) {
	assert.Equal(t, "attempts:u-1:4:17", ScopeKey("u-1", 4, 17))
	assert.NotEqual(t, ScopeKey("u", 1, 23), ScopeKey("u", 12, 3))
}

func TestAttemptCounterMalformedValue(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", "three"))

	c := NewAttemptCounter(store)
	n, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = c.Record(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Set(ctx, "neg", "-4"))
	n, err = c.Get(ctx, "neg")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStartSessionStopsAtCeiling(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	ev := New(store)
	key := ScopeKey("u1", 1, 1)

	for want := 1; want <= 3; want++ {
		got, err := ev.StartSession(ctx, key, 3)
		require.NoError(t, err)
		assert.True(t, got.Allowed)
		assert.Equal(t, want, got.AttemptsUsed)
	}

	got, err := ev.StartSession(ctx, key, 3)
	require.NoError(t, err)
	assert.False(t, got.Allowed)
	assert.Equal(t, 3, got.AttemptsUsed)

	raw, _, _ := store.Get(ctx, key)
	assert.Equal(t, "3", raw)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(context.Context, string, string) error         { return f.err }
func (f failingStore) Delete(context.Context, string) error              { return f.err }

func TestStartSessionSurfacesStoreFailure(t *testing.T) {
	boom := errors.New("storage unavailable")
	ev := New(failingStore{err: boom})
	_, err := ev.StartSession(context.Background(), "k", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// the guard is released after a failure
	_, err = ev.StartSession(context.Background(), "k", 3)
	assert.ErrorIs(t, err, boom)
}

// slowStore widens the read-modify-write window so concurrent starts overlap.
type slowStore struct {
	kvstore.Store
	delay time.Duration
}

func (s slowStore) Get(ctx context.Context, key string) (string, bool, error) {
	time.Sleep(s.delay)
	return s.Store.Get(ctx, key)
}

func TestStartSessionConcurrentStartsNeverPassCeiling(t *testing.T) {
	ctx := context.Background()
	inner := kvstore.NewMemoryStore()
	ev := New(slowStore{Store: inner, delay: 5 * time.Millisecond})
	key := ScopeKey("u1", 2, 9)

	const callers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
		busy    int
	)
	for round := 0; round < 5; round++ {
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := ev.StartSession(ctx, key, 3)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case errors.Is(err, ErrSessionBusy):
					busy++
				case err == nil && res.Allowed:
					allowed++
				}
			}()
		}
		wg.Wait()
	}

	raw, _, err := inner.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "3", raw)
	assert.Equal(t, 3, allowed)
	assert.Greater(t, busy, 0)
}

func TestCanStart(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	ev := New(kvstore.NewMemoryStore(), WithClock(func() time.Time { return now }))

	premium := Content{IsPremium: true}
	active := &Membership{EndDate: now.Add(time.Hour)}
	expired := &Membership{EndDate: now}

	assert.Equal(t, Allowed, ev.CanStart(premium, active, CatalogPosition{Index: 3, FreeTrialIndex: 0}))
	assert.Equal(t, Denied, ev.CanStart(premium, expired, CatalogPosition{Index: 3, FreeTrialIndex: 0}))
	assert.Equal(t, AllowedAsFreeTrial, ev.CanStart(premium, nil, CatalogPosition{Index: 0, FreeTrialIndex: 0}))
	assert.Equal(t, Allowed, ev.CanStart(Content{}, nil, CatalogPosition{Index: 1, FreeTrialIndex: -1}))
}

func TestAttemptsLeft(t *testing.T) {
	assert.Equal(t, 3, AttemptsLeft(0, 3))
	assert.Equal(t, 0, AttemptsLeft(3, 3))
	assert.Equal(t, 0, AttemptsLeft(5, 3))
}

func TestFinishSessionConsumesOnce(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	ev := New(store)
	key := ScopeKey("u1", 1, 5)

	_, err := ev.FinishSession(ctx, key)
	assert.ErrorIs(t, err, ErrNoOpenSession, "nothing started yet")

	_, err = ev.StartSession(ctx, key, 3)
	require.NoError(t, err)
	start, err := ev.StartSession(ctx, key, 3)
	require.NoError(t, err)
	require.Equal(t, 2, start.AttemptsUsed)

	attempt, err := ev.FinishSession(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 2, attempt, "the latest start is the open one")

	_, err = ev.FinishSession(ctx, key)
	assert.ErrorIs(t, err, ErrNoOpenSession)

	raw, _, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "2", raw, "finishing does not touch the counter")
}

func TestRefusedStartOpensNoSession(t *testing.T) {
	ctx := context.Background()
	ev := New(kvstore.NewMemoryStore())
	key := ScopeKey("u1", 1, 6)

	_, err := ev.StartSession(ctx, key, 1)
	require.NoError(t, err)
	_, err = ev.FinishSession(ctx, key)
	require.NoError(t, err)

	start, err := ev.StartSession(ctx, key, 1)
	require.NoError(t, err)
	require.False(t, start.Allowed)
	_, err = ev.FinishSession(ctx, key)
	assert.ErrorIs(t, err, ErrNoOpenSession)
}
