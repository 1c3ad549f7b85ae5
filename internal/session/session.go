// Package session owns the signed-in identity of the client and the state scoped
// to it: a wishlist reconciler and a reminder service. A session is created once,
// passed to whatever needs it, and cleared on sign-out.
package session

import (
	"context" // Request scoping
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"sync"    // Identity guard

	"github.com/SofiaUmrish/sneaker-drop/internal/apiclient"  // API client
	"github.com/SofiaUmrish/sneaker-drop/internal/domain"     // Shared models
	"github.com/SofiaUmrish/sneaker-drop/internal/localstore" // Durable local state
	"github.com/SofiaUmrish/sneaker-drop/internal/option"     // Catalog filters
	"github.com/SofiaUmrish/sneaker-drop/internal/reminder"   // Release reminders
	"github.com/SofiaUmrish/sneaker-drop/internal/wishlist"   // Wishlist reconciler

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/sync/errgroup" // Concurrent refresh
)

// API is everything the session needs from the server
type API interface {
	wishlist.Backend
	reminder.Backend
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*apiclient.Identity, error)
	UpdateProfile(ctx context.Context, token, name, email string) (*apiclient.Identity, error)
	Shoes(ctx context.Context) ([]domain.ShoeView, error)
	Soonest(ctx context.Context) (*domain.ShoeView, error)
	Brands(ctx context.Context) ([]domain.Brand, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	CreateShoe(ctx context.Context, token string, shoe apiclient.NewShoe) (*domain.ShoeView, error)
	DeleteShoe(ctx context.Context, token string, shoeID uint) error
	Hype(ctx context.Context, token string) ([]domain.HypeEntry, error)
}

// Session is the client state of one user, or of a guest when nobody is signed in
type Session struct {
	api       API                  // Remote API
	local     *localstore.Store    // Persisted session and wishlist cache
	wishlist  *wishlist.Reconciler // Working set of liked shoes
	reminders *reminder.Service    // Reminder operations

	mu   sync.RWMutex        // Guards user
	user *apiclient.Identity // Nil for a guest
}

// New creates a guest session
func New(api API, local *localstore.Store, opts wishlist.Options) *Session {
	return &Session{
		api:       api,
		local:     local,
		wishlist:  wishlist.New(api, local, opts),
		reminders: reminder.NewService(api),
	}
}

// Resume picks up the identity saved by a previous sign-in without touching the network
func (s *Session) Resume() *apiclient.Identity {
	id, err := s.local.Session()
	if err != nil {
		logrus.WithField("error", err.Error()).Warn("Read saved session failed")
	}
	s.setUser(id)
	return s.CurrentUser()
}

// Restore resumes the saved identity and loads its wishlist. A load failure is
// returned but leaves the session usable.
func (s *Session) Restore(ctx context.Context) (wishlist.Diff, error) {
	return s.wishlist.Load(ctx, s.Resume())
}

// Register creates an account without signing in
func (s *Session) Register(ctx context.Context, name, email, password string) error {
	return s.api.Register(ctx, name, email, password)
}

// SignIn authenticates, persists the identity and loads its wishlist.
// When only the wishlist load fails the identity is returned with the load error.
func (s *Session) SignIn(ctx context.Context, email, password string) (*apiclient.Identity, error) {
	id, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.wishlist.Wait()
	s.setUser(id)
	if err := s.local.SaveSession(id); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": id.ID, "error": err.Error()}).Warn("Save session failed")
	}
	logrus.WithFields(logrus.Fields{"user_id": id.ID, "role": id.Role}).Info("Signed in")
	if _, err := s.wishlist.Load(ctx, s.CurrentUser()); err != nil {
		return s.CurrentUser(), fmt.Errorf("load wishlist: %w", err)
	}
	return s.CurrentUser(), nil
}

// SignOut lets pending writes settle, then clears the identity and the working set
func (s *Session) SignOut() error {
	s.wishlist.Wait()
	s.setUser(nil)
	s.wishlist.Reset()
	return s.local.ClearSession()
}

// CurrentUser returns a copy of the signed-in identity, or nil for a guest
func (s *Session) CurrentUser() *apiclient.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) setUser(id *apiclient.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = id
}

// UpdateProfile changes name and email of the signed-in user
func (s *Session) UpdateProfile(ctx context.Context, name, email string) (*apiclient.Identity, error) {
	user := s.CurrentUser()
	if user == nil {
		return nil, apiclient.ErrNotAuthenticated
	}
	updated, err := s.api.UpdateProfile(ctx, user.Token, name, email)
	if err != nil {
		return nil, err
	}
	user.Name, user.Email = updated.Name, updated.Email
	s.setUser(user)
	if err := s.local.SaveSession(user); err != nil {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Warn("Save session failed")
	}
	return user, nil
}

// Toggle likes or unlikes a shoe for the signed-in user
func (s *Session) Toggle(ctx context.Context, shoeID any) (*wishlist.Mutation, error) {
	return s.wishlist.Toggle(ctx, s.CurrentUser(), shoeID)
}

// SetBudget applies a new monthly limit from raw input
func (s *Session) SetBudget(ctx context.Context, input string) *wishlist.Mutation {
	user := s.CurrentUser()
	m := s.wishlist.SetBudgetLimit(ctx, user, input)
	if user != nil {
		user.MonthlyBudget = m.Limit
		s.setUser(user)
		if err := s.local.SaveSession(user); err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Warn("Save session failed")
		}
	}
	return m
}

// Wishlist exposes the reconciler of this session
func (s *Session) Wishlist() *wishlist.Reconciler {
	return s.wishlist
}

// Reminders exposes the reminder service of this session
func (s *Session) Reminders() *reminder.Service {
	return s.reminders
}

// API exposes the server client of this session
func (s *Session) API() API {
	return s.api
}

// WishlistView is the wishlist page: liked shoes and what they cost
type WishlistView struct {
	Items   []domain.ShoeView // Liked shoes in catalog order
	Metrics wishlist.Metrics  // Budget metrics over Items
	Stale   error             // Non-nil when the wishlist could not be refreshed
}

// LoadWishlistView refreshes the wishlist and the catalog concurrently.
// Only a catalog failure is fatal; a wishlist failure is reported as Stale.
func (s *Session) LoadWishlistView(ctx context.Context) (*WishlistView, error) {
	var (
		catalog []domain.ShoeView
		stale   error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = s.api.Shoes(gctx)
		return err
	})
	g.Go(func() error {
		_, stale = s.wishlist.Load(gctx, s.CurrentUser())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if errors.Is(stale, context.Canceled) {
		stale = nil
	}
	return &WishlistView{
		Items:   s.wishlist.Items(catalog),
		Metrics: s.wishlist.BudgetMetrics(catalog, s.wishlist.Limit()),
		Stale:   stale,
	}, nil
}

// Catalog lists shoes, optionally filtered by a status option ("" for all)
func (s *Session) Catalog(ctx context.Context, status string) ([]domain.ShoeView, error) {
	var filter option.Option
	if status != "" {
		f, ok := option.Find(option.StatusFilter(), status)
		if !ok {
			return nil, fmt.Errorf("status %q: %w", status, apiclient.ErrInvalidInput)
		}
		filter = f
	}
	shoes, err := s.api.Shoes(ctx)
	if err != nil || filter == nil {
		return shoes, err
	}
	var out []domain.ShoeView
	for _, sh := range shoes {
		if option.Matches(filter, string(sh.Status)) {
			out = append(out, sh)
		}
	}
	return out, nil
}

// Close waits for pending writes and closes the local store
func (s *Session) Close() error {
	s.wishlist.Wait()
	return s.local.Close()
}
