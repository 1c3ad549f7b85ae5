package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient"
	"github.com/SofiaUmrish/sneaker-drop/internal/domain"
	"github.com/SofiaUmrish/sneaker-drop/internal/localstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test doubles
// =============================================================================

type fakeBackend struct {
	mu        sync.Mutex
	liked     map[uint]bool
	loadErr   error
	toggleErr error
	budgetErr error
	budget    float64
	release   chan struct{} // When set, toggles block until it is closed
	toggles   int
	script    []*toggleStep // Per-call control, consumed in call order
	calls     int
	onLoad    func() // Runs after the wishlist is read, before it is returned
}

// toggleStep scripts a single ToggleWishlist call
type toggleStep struct {
	arrived chan struct{} // Closed when the call reaches the backend
	release chan struct{} // The call blocks until this is closed
	err     error
}

func newToggleStep(err error) *toggleStep {
	return &toggleStep{arrived: make(chan struct{}), release: make(chan struct{}), err: err}
}

func newFakeBackend(ids ...uint) *fakeBackend {
	b := &fakeBackend{liked: map[uint]bool{}}
	for _, id := range ids {
		b.liked[id] = true
	}
	return b
}

func (b *fakeBackend) Wishlist(_ context.Context, _ string) ([]uint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	var ids []uint
	for id := range b.liked {
		if b.liked[id] {
			ids = append(ids, id)
		}
	}
	if b.onLoad != nil {
		b.mu.Unlock()
		b.onLoad()
		b.mu.Lock()
	}
	return ids, nil
}

func (b *fakeBackend) ToggleWishlist(ctx context.Context, _ string, shoeID uint) (bool, error) {
	b.mu.Lock()
	var step *toggleStep
	if b.calls < len(b.script) {
		step = b.script[b.calls]
	}
	b.calls++
	b.mu.Unlock()

	if step != nil {
		close(step.arrived)
		<-step.release
	}
	if b.release != nil {
		<-b.release
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toggles++
	if step != nil && step.err != nil {
		return false, step.err
	}
	if b.toggleErr != nil {
		return false, b.toggleErr
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b.liked[shoeID] = !b.liked[shoeID]
	return b.liked[shoeID], nil
}

func (b *fakeBackend) SetBudget(_ context.Context, _ string, limit float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.budgetErr != nil {
		return b.budgetErr
	}
	b.budget = limit
	return nil
}

var (
	alice      = &apiclient.Identity{ID: 1, Name: "Alice", Role: "user", MonthlyBudget: 1000, Token: "t1"}
	errOffline = &apiclient.NetworkError{Op: "test", Err: errors.New("connection refused")}
)

func newLocalCache(t *testing.T) *localstore.Store {
	t.Helper()
	s, err := localstore.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func settled(t *testing.T, m *Mutation) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.Wait(ctx)
	require.NotEqual(t, Tentative, m.State(), "mutation did not settle")
	return m.State()
}

func catalog(prices ...float64) []domain.ShoeView {
	views := make([]domain.ShoeView, len(prices))
	for i, p := range prices {
		views[i] = domain.ShoeView{Shoe: domain.Shoe{ID: uint(i + 1), ModelName: "Shoe", Price: p}}
	}
	return views
}

// =============================================================================
// Load
// =============================================================================

func TestLoad_ReplacesWorkingSetAndReportsDiff(t *testing.T) {
	b := newFakeBackend(2, 3)
	r := New(b, nil, Options{})
	ctx := context.Background()

	diff, err := r.Load(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []ShoeID{2, 3}, diff.Added)
	assert.Empty(t, diff.Removed)

	b.liked = map[uint]bool{3: true, 4: true}
	diff, err = r.Load(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []ShoeID{4}, diff.Added)
	assert.Equal(t, []ShoeID{2}, diff.Removed)
	assert.Equal(t, []ShoeID{3, 4}, r.Snapshot())
}

func TestLoad_NilUserEmptiesSet(t *testing.T) {
	r := New(newFakeBackend(1), nil, Options{})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)

	diff, err := r.Load(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, []ShoeID{1}, diff.Removed)
	assert.Zero(t, r.Len())
}

func TestLoad_FailureRetainsSet(t *testing.T) {
	b := newFakeBackend(5)
	r := New(b, nil, Options{})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)

	b.loadErr = errOffline
	diff, err := r.Load(context.Background(), alice)

	assert.True(t, apiclient.IsNetworkFailure(err))
	assert.True(t, diff.IsEmpty())
	assert.True(t, r.IsLiked(5))
}

func TestLoad_FailureClearsSetWhenConfigured(t *testing.T) {
	b := newFakeBackend(5)
	r := New(b, nil, Options{ClearOnLoadFailure: true})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)

	b.loadErr = errOffline
	_, err = r.Load(context.Background(), alice)

	assert.Error(t, err)
	assert.Zero(t, r.Len())
}

func TestLoad_FailureFallsBackToLocalCache(t *testing.T) {
	cache := newLocalCache(t)
	require.NoError(t, cache.SaveWishlist(alice.ID, []uint{7, 9}))
	b := newFakeBackend()
	b.loadErr = errOffline
	r := New(b, cache, Options{})

	diff, err := r.Load(context.Background(), alice)

	assert.Error(t, err)
	assert.Equal(t, []ShoeID{7, 9}, diff.Added)
	assert.True(t, r.IsLiked(9))
}

func TestLoad_PersistsToLocalCache(t *testing.T) {
	cache := newLocalCache(t)
	r := New(newFakeBackend(4, 1), cache, Options{})

	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)

	ids, err := cache.Wishlist(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 4}, ids)
}

// =============================================================================
// Toggle
// =============================================================================

func TestToggle_FlipsMembership(t *testing.T) {
	for _, initiallyLiked := range []bool{false, true} {
		b := newFakeBackend()
		if initiallyLiked {
			b.liked[42] = true
		}
		r := New(b, nil, Options{})
		_, err := r.Load(context.Background(), alice)
		require.NoError(t, err)
		wasLiked := r.IsLiked(42)

		m, err := r.Toggle(context.Background(), alice, 42)
		require.NoError(t, err)

		assert.Equal(t, Committed, settled(t, m))
		assert.Equal(t, !wasLiked, r.IsLiked(42))
		assert.Equal(t, wasLiked, m.WasLiked)
	}
}

func TestToggle_OptimisticBeforeDurableWrite(t *testing.T) {
	b := newFakeBackend()
	b.release = make(chan struct{})
	r := New(b, nil, Options{})

	m, err := r.Toggle(context.Background(), alice, 8)
	require.NoError(t, err)

	assert.True(t, r.IsLiked(8), "flip is visible before the write completes")
	assert.Equal(t, Tentative, m.State())

	close(b.release)
	assert.Equal(t, Committed, settled(t, m))
	assert.True(t, r.IsLiked(8))
}

func TestToggle_RollbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"network failure", errOffline},
		{"rejected", &apiclient.RejectedError{Op: "toggle wishlist", Status: 500, Reason: "Wishlist update failed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend(3)
			r := New(b, nil, Options{})
			_, err := r.Load(context.Background(), alice)
			require.NoError(t, err)
			b.toggleErr = tt.err
			before := r.IsLiked(3)

			m, err := r.Toggle(context.Background(), alice, 3)
			require.NoError(t, err)

			assert.Equal(t, RolledBack, settled(t, m))
			assert.Equal(t, before, r.IsLiked(3))
			assert.ErrorIs(t, m.Err(), tt.err)
		})
	}
}

func TestToggle_RollbackRestoresLocalCache(t *testing.T) {
	cache := newLocalCache(t)
	b := newFakeBackend()
	r := New(b, cache, Options{})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)
	b.toggleErr = errOffline

	m, err := r.Toggle(context.Background(), alice, 11)
	require.NoError(t, err)
	settled(t, m)

	ids, err := cache.Wishlist(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestToggle_NotAuthenticated(t *testing.T) {
	b := newFakeBackend()
	r := New(b, nil, Options{})

	m, err := r.Toggle(context.Background(), nil, 42)

	assert.Nil(t, m)
	assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)
	assert.False(t, r.IsLiked(42))
	assert.Zero(t, r.Len())
	r.Wait()
	assert.Zero(t, b.toggles)
}

func TestToggle_InvalidID(t *testing.T) {
	r := New(newFakeBackend(), nil, Options{})

	_, err := r.Toggle(context.Background(), alice, "abc")

	assert.ErrorIs(t, err, apiclient.ErrInvalidInput)
	assert.Zero(t, r.Len())
}

func TestToggle_SurvivesCallerCancellation(t *testing.T) {
	b := newFakeBackend()
	b.release = make(chan struct{})
	r := New(b, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	m, err := r.Toggle(ctx, alice, 6)
	require.NoError(t, err)
	cancel()
	close(b.release)

	assert.Equal(t, Committed, settled(t, m))
	assert.True(t, b.liked[6])
}

func TestToggle_StringAndNumberIDsShareMembership(t *testing.T) {
	r := New(newFakeBackend(), nil, Options{})

	m, err := r.Toggle(context.Background(), alice, "42")
	require.NoError(t, err)
	settled(t, m)

	assert.True(t, r.IsLiked(42))
	assert.True(t, r.IsLiked("42"))
	assert.True(t, r.IsLiked(42.0))
	assert.True(t, r.IsLiked(json.Number("42")))
	assert.Equal(t, r.IsLiked(7), r.IsLiked("7"))
}

func TestToggle_SamePairInFlightTwice(t *testing.T) {
	tests := []struct {
		name                  string
		firstErr, secondErr   error
		wantFirst, wantSecond State
		wantLiked             bool
	}{
		{"first commits, second rolls back", nil, errOffline, Committed, RolledBack, true},
		{"first rolls back, second commits", errOffline, nil, RolledBack, Committed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend()
			first, second := newToggleStep(tt.firstErr), newToggleStep(tt.secondErr)
			b.script = []*toggleStep{first, second}
			r := New(b, nil, Options{})

			m1, err := r.Toggle(context.Background(), alice, 9)
			require.NoError(t, err)
			<-first.arrived
			m2, err := r.Toggle(context.Background(), alice, 9)
			require.NoError(t, err)
			<-second.arrived
			assert.False(t, m1.WasLiked)
			assert.True(t, m2.WasLiked)
			assert.False(t, r.IsLiked(9))

			close(first.release)
			assert.Equal(t, tt.wantFirst, settled(t, m1))
			close(second.release)
			assert.Equal(t, tt.wantSecond, settled(t, m2))

			assert.Equal(t, tt.wantLiked, r.IsLiked(9), "last settling rollback decides")
			assert.Equal(t, 2, b.toggles)
		})
	}
}

func TestLoad_KeepsToggleInFlight(t *testing.T) {
	b := newFakeBackend()
	b.release = make(chan struct{})
	r := New(b, nil, Options{})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)

	m, err := r.Toggle(context.Background(), alice, 9)
	require.NoError(t, err)
	_, err = r.Load(context.Background(), alice)
	require.NoError(t, err)
	assert.True(t, r.IsLiked(9), "server read predates the toggle")

	close(b.release)
	assert.Equal(t, Committed, settled(t, m))
	assert.True(t, r.IsLiked(9))
	assert.True(t, b.liked[9])
}

func TestLoad_KeepsToggleSettledDuringFetch(t *testing.T) {
	b := newFakeBackend()
	r := New(b, nil, Options{})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)

	var m *Mutation
	b.onLoad = func() {
		var err error
		m, err = r.Toggle(context.Background(), alice, 4)
		require.NoError(t, err)
		settled(t, m)
	}
	_, err = r.Load(context.Background(), alice)
	require.NoError(t, err)

	assert.Equal(t, Committed, m.State())
	assert.True(t, r.IsLiked(4))

	b.onLoad = nil
	_, err = r.Load(context.Background(), alice)
	require.NoError(t, err)
	assert.True(t, r.IsLiked(4))
}

func TestLoad_InFlightRollbackStillApplies(t *testing.T) {
	b := newFakeBackend(5)
	r := New(b, nil, Options{})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)
	step := newToggleStep(errOffline)
	b.script = []*toggleStep{step}

	m, err := r.Toggle(context.Background(), alice, 5)
	require.NoError(t, err)
	<-step.arrived
	_, err = r.Load(context.Background(), alice)
	require.NoError(t, err)
	assert.False(t, r.IsLiked(5))

	close(step.release)
	assert.Equal(t, RolledBack, settled(t, m))
	assert.True(t, r.IsLiked(5))
}

func TestWait_DrainsPendingWrites(t *testing.T) {
	b := newFakeBackend()
	r := New(b, nil, Options{})
	for id := 1; id <= 5; id++ {
		_, err := r.Toggle(context.Background(), alice, id)
		require.NoError(t, err)
	}

	r.Wait()

	assert.Equal(t, 5, b.toggles)
	assert.Len(t, r.Snapshot(), 5)
}

// =============================================================================
// Items, Reset
// =============================================================================

func TestItems_CatalogOrder(t *testing.T) {
	r := New(newFakeBackend(3, 1), nil, Options{})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)

	items := r.Items(catalog(10, 20, 30))

	require.Len(t, items, 2)
	assert.Equal(t, uint(1), items[0].ID)
	assert.Equal(t, uint(3), items[1].ID)
}

func TestReset(t *testing.T) {
	r := New(newFakeBackend(1, 2), nil, Options{})
	_, err := r.Load(context.Background(), alice)
	require.NoError(t, err)

	r.Reset()

	assert.Zero(t, r.Len())
	assert.InDelta(t, domain.DefaultMonthlyBudget, r.Limit(), 0.001)
}
