package session

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SofiaUmrish/sneaker-drop/internal/api"
	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient"
	"github.com/SofiaUmrish/sneaker-drop/internal/config"
	"github.com/SofiaUmrish/sneaker-drop/internal/db/dbtest"
	"github.com/SofiaUmrish/sneaker-drop/internal/domain"
	"github.com/SofiaUmrish/sneaker-drop/internal/localstore"
	"github.com/SofiaUmrish/sneaker-drop/internal/store"
	"github.com/SofiaUmrish/sneaker-drop/internal/utils"
	"github.com/SofiaUmrish/sneaker-drop/internal/wishlist"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	client *apiclient.Client
	store  *store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:     "session-test",
		AdminEmail:    "admin@sneaker.com",
		DefaultBudget: 1000,
		CacheTTL:      time.Minute,
		AuthRPS:       1000,
		AuthBurst:     1000,
	}
	st := store.New(dbtest.Open(t))
	srv := httptest.NewServer(api.NewRouter(cfg, st, utils.NewCache(nil, cfg.CacheTTL)))
	t.Cleanup(srv.Close)
	return &fixture{client: apiclient.New(srv.URL+"/api", 5*time.Second), store: st}
}

func (f *fixture) session(t *testing.T, local *localstore.Store) *Session {
	t.Helper()
	if local == nil {
		var err error
		local, err = localstore.OpenInMemory()
		require.NoError(t, err)
		t.Cleanup(func() { _ = local.Close() })
	}
	return New(f.client, local, wishlist.Options{})
}

// seedShoes adds shoes straight into the database
func (f *fixture) seedShoes(t *testing.T, prices ...float64) []uint {
	t.Helper()
	ids := make([]uint, len(prices))
	for i, p := range prices {
		shoe := &domain.Shoe{ModelName: "Seed", BrandID: 1, CategoryID: 1, Price: p, ReleaseDate: time.Now().Add(time.Duration(i-1) * 24 * time.Hour)}
		require.NoError(t, f.store.CreateShoe(context.Background(), shoe))
		ids[i] = shoe.ID
	}
	return ids
}

func TestSession_GuestCannotToggle(t *testing.T) {
	f := newFixture(t)
	s := f.session(t, nil)

	_, err := s.Toggle(context.Background(), 1)

	assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)
	assert.Nil(t, s.CurrentUser())
	_, err = s.Reminders().List(context.Background(), s.CurrentUser())
	assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)
}

func TestSession_SignInToggleAndBudget(t *testing.T) {
	f := newFixture(t)
	ids := f.seedShoes(t, 100, 250, 75.5)
	s := f.session(t, nil)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "Ann", "ann@example.com", "pw"))

	user, err := s.SignIn(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)

	for _, id := range ids {
		m, err := s.Toggle(ctx, id)
		require.NoError(t, err)
		require.NoError(t, m.Wait(ctx))
	}

	view, err := s.LoadWishlistView(ctx)
	require.NoError(t, err)
	require.NoError(t, view.Stale)
	assert.Len(t, view.Items, 3)
	assert.InDelta(t, 425.5, view.Metrics.TotalCost, 0.001)
	assert.InDelta(t, 574.5, view.Metrics.Remaining, 0.001)
	assert.InDelta(t, 42.55, view.Metrics.PercentUsed, 0.001)
	assert.False(t, view.Metrics.OverBudget)

	m := s.SetBudget(ctx, "")
	require.NoError(t, m.Wait(ctx))
	view, err = s.LoadWishlistView(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 100, view.Metrics.PercentUsed, 0.001)
	assert.True(t, view.Metrics.OverBudget)

	stored, err := f.store.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.MonthlyBudget)
	assert.Zero(t, s.CurrentUser().MonthlyBudget)
}

func TestSession_RestoreAcrossRestarts(t *testing.T) {
	f := newFixture(t)
	ids := f.seedShoes(t, 120)
	local, err := localstore.OpenInMemory()
	require.NoError(t, err)
	defer local.Close()
	ctx := context.Background()

	first := f.session(t, local)
	require.NoError(t, first.Register(ctx, "Bo", "bo@example.com", "pw"))
	_, err = first.SignIn(ctx, "bo@example.com", "pw")
	require.NoError(t, err)
	m, err := first.Toggle(ctx, ids[0])
	require.NoError(t, err)
	require.NoError(t, m.Wait(ctx))
	first.Wishlist().Wait()

	second := New(f.client, local, wishlist.Options{})
	diff, err := second.Restore(ctx)
	require.NoError(t, err)

	require.NotNil(t, second.CurrentUser())
	assert.Equal(t, "bo@example.com", second.CurrentUser().Email)
	assert.Equal(t, []wishlist.ShoeID{wishlist.ShoeID(ids[0])}, diff.Added)
	assert.True(t, second.Wishlist().IsLiked(ids[0]))
}

func TestSession_SignOutClearsState(t *testing.T) {
	f := newFixture(t)
	ids := f.seedShoes(t, 50)
	s := f.session(t, nil)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "Cy", "cy@example.com", "pw"))
	_, err := s.SignIn(ctx, "cy@example.com", "pw")
	require.NoError(t, err)
	_, err = s.Toggle(ctx, ids[0])
	require.NoError(t, err)

	require.NoError(t, s.SignOut())

	assert.Nil(t, s.CurrentUser())
	assert.Zero(t, s.Wishlist().Len())
	diff, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, diff.IsEmpty())
	assert.Nil(t, s.CurrentUser())
}

func TestSession_UpdateProfileKeepsToken(t *testing.T) {
	f := newFixture(t)
	s := f.session(t, nil)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "Di", "di@example.com", "pw"))
	before, err := s.SignIn(ctx, "di@example.com", "pw")
	require.NoError(t, err)

	after, err := s.UpdateProfile(ctx, "Diana", "diana@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Diana", after.Name)
	assert.Equal(t, "diana@example.com", after.Email)
	assert.Equal(t, before.Token, after.Token)

	_, err = f.session(t, nil).UpdateProfile(ctx, "X", "x@example.com")
	assert.ErrorIs(t, err, apiclient.ErrNotAuthenticated)
}

func TestSession_CatalogStatusFilter(t *testing.T) {
	f := newFixture(t)
	f.seedShoes(t, 10, 20, 30) // released yesterday, now, tomorrow
	s := f.session(t, nil)
	ctx := context.Background()

	all, err := s.Catalog(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	upcoming, err := s.Catalog(ctx, "upcoming")
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, domain.StatusUpcoming, upcoming[0].Status)

	_, err = s.Catalog(ctx, "sold out")
	assert.ErrorIs(t, err, apiclient.ErrInvalidInput)
}

func TestSession_GuestBudgetIsLocal(t *testing.T) {
	f := newFixture(t)
	s := f.session(t, nil)
	ctx := context.Background()

	m := s.SetBudget(ctx, "80")

	assert.Equal(t, wishlist.Committed, m.State())
	view, err := s.LoadWishlistView(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 80, view.Metrics.Limit, 0.001)
	assert.Empty(t, view.Items)
}
